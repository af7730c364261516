package affiliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrybloomingdale/get-papers-list/internal/eutils"
)

func strp(s string) *string { return &s }

func TestIsAcademic(t *testing.T) {
	tests := []struct {
		aff  string
		want bool
	}{
		{"Department of Biology, University of X", true},
		{"Imperial College London", true},
		{"UNIVERSITY HOSPITAL", true},
		{"Acme Pharma Inc.", false},
		{"Max Planck Institute", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.aff, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAcademic(tt.aff))
		})
	}
}

func TestBuildRows(t *testing.T) {
	summary := &eutils.SummaryResult{
		UIDs: []string{"2", "1"},
		Entries: []eutils.SummaryEntry{
			{Key: eutils.UIDsKey},
			{Key: "2", Doc: eutils.DocSum{
				Title:   strp("Paper two"),
				PubDate: strp("2024 Jan"),
				Authors: []eutils.SummaryAuthor{
					{Name: strp("Smith J"), Affiliation: "Acme Pharma Inc."},
					{Name: strp("Doe A"), Affiliation: "Department of Biology, University of X"},
					{Name: strp("Lee K"), Affiliation: "Genentech"},
				},
			}},
			{Key: "1", Doc: eutils.DocSum{
				Authors: []eutils.SummaryAuthor{
					{Affiliation: ""},
				},
			}},
		},
	}

	rows := BuildRows(summary)
	require.Len(t, rows, 2)

	assert.Equal(t, "2", rows[0].PMID)
	assert.Equal(t, "Paper two", rows[0].Title)
	assert.Equal(t, "2024 Jan", rows[0].PublicationDate)
	assert.Equal(t, "Smith J, Lee K", rows[0].NonAcademicAuthors)
	assert.Equal(t, "Acme Pharma Inc., Genentech", rows[0].CompanyAffiliations)

	// Missing keys fall back to defaults; an empty affiliation is non-academic.
	assert.Equal(t, "1", rows[1].PMID)
	assert.Equal(t, MissingTitle, rows[1].Title)
	assert.Equal(t, MissingDate, rows[1].PublicationDate)
	assert.Equal(t, UnknownAuthor, rows[1].NonAcademicAuthors)
	assert.Equal(t, "", rows[1].CompanyAffiliations)
}

func TestBuildRows_ReservedKeyOnly(t *testing.T) {
	rows := BuildRows(&eutils.SummaryResult{Entries: []eutils.SummaryEntry{{Key: eutils.UIDsKey}}})
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestBuildRows_NilSummary(t *testing.T) {
	assert.Empty(t, BuildRows(nil))
}

func TestBuildRows_AllAcademic(t *testing.T) {
	summary := &eutils.SummaryResult{Entries: []eutils.SummaryEntry{
		{Key: "7", Doc: eutils.DocSum{
			Title: strp(""),
			Authors: []eutils.SummaryAuthor{
				{Name: strp("Doe A"), Affiliation: "College of Medicine"},
			},
		}},
	}}

	rows := BuildRows(summary)
	require.Len(t, rows, 1)
	// A present but empty title is kept as-is.
	assert.Equal(t, "", rows[0].Title)
	assert.Equal(t, "", rows[0].NonAcademicAuthors)
	assert.Equal(t, "", rows[0].CompanyAffiliations)
}

func TestBuildRows_Emails(t *testing.T) {
	summary := &eutils.SummaryResult{Entries: []eutils.SummaryEntry{
		{Key: "9", Doc: eutils.DocSum{
			Authors: []eutils.SummaryAuthor{
				{Name: strp("Smith J"), Affiliation: "Acme Pharma Inc. Electronic address: jsmith@acme.example.com."},
				{Name: strp("Roe B"), Affiliation: "Acme Pharma Inc. jsmith@acme.example.com; broe@acme.example.com"},
				{Name: strp("Doe A"), Affiliation: "University of X. doe@x.edu"},
			},
		}},
	}}

	rows := BuildRows(summary)
	require.Len(t, rows, 1)
	assert.Equal(t, "jsmith@acme.example.com, broe@acme.example.com", rows[0].CorrespondingEmail)
}

func TestExtractEmails(t *testing.T) {
	assert.Equal(t,
		[]string{"jane.doe+lab@pharma.co.uk"},
		ExtractEmails("Pharma Ltd, London. Electronic address: jane.doe+lab@pharma.co.uk."))
	assert.Empty(t, ExtractEmails("Acme Pharma Inc."))
	assert.Empty(t, ExtractEmails("user@localhost"))
}

func TestEnrich(t *testing.T) {
	summary := &eutils.SummaryResult{Entries: []eutils.SummaryEntry{
		{Key: eutils.UIDsKey},
		{Key: "1", Doc: eutils.DocSum{Authors: []eutils.SummaryAuthor{
			{Name: strp("Brown P")},
			{Name: strp("Kept K"), Affiliation: "Existing Corp"},
			{Name: strp("Nobody N")},
			{},
		}}},
		{Key: "2", Doc: eutils.DocSum{Authors: []eutils.SummaryAuthor{{Name: strp("Smith J")}}}},
	}}
	fetched := map[string][]eutils.Author{
		"1": {
			{LastName: "Brown", ForeName: "Paul", Initials: "P", Affiliation: "Pfizer Inc."},
			{LastName: "Kept", Initials: "K", Affiliation: "Harvard University"},
		},
	}

	out := Enrich(summary, fetched)
	require.NotNil(t, out)
	require.Len(t, out.Entries, 3)

	authors := out.Entries[1].Doc.Authors
	assert.Equal(t, "Pfizer Inc.", authors[0].Affiliation)
	assert.Equal(t, "Existing Corp", authors[1].Affiliation, "existing affiliation must win")
	assert.Equal(t, "", authors[2].Affiliation)
	assert.Equal(t, "", authors[3].Affiliation)

	// Entries without fetched authors pass through.
	assert.Equal(t, "", out.Entries[2].Doc.Authors[0].Affiliation)

	// Input is untouched.
	assert.Equal(t, "", summary.Entries[1].Doc.Authors[0].Affiliation)
}

func TestEnrich_Nil(t *testing.T) {
	assert.Nil(t, Enrich(nil, nil))
}
