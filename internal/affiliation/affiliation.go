// Package affiliation flags non-academic authors of PubMed papers.
//
// An affiliation is academic when its lowercase text contains "university"
// or "college". Everything else, including an empty affiliation, counts as
// non-academic. Institutes, hospitals and non-English names are
// misclassified.
package affiliation

import (
	"regexp"
	"strings"

	"github.com/henrybloomingdale/get-papers-list/internal/eutils"
	"github.com/henrybloomingdale/get-papers-list/internal/report"
)

// Defaults for fields missing from a document summary.
const (
	MissingTitle  = "N/A"
	MissingDate   = "N/A"
	UnknownAuthor = "Unknown"
)

const joinSep = ", "

var academicMarkers = []string{"university", "college"}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)

// IsAcademic reports whether aff looks like a university or college.
func IsAcademic(aff string) bool {
	lower := strings.ToLower(aff)
	for _, m := range academicMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// BuildRows turns a summary into report rows, one per paper in entry
// order. The reserved uids entry never produces a row.
func BuildRows(summary *eutils.SummaryResult) []report.Row {
	if summary == nil {
		return []report.Row{}
	}

	rows := make([]report.Row, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		if e.Reserved() {
			continue
		}
		rows = append(rows, buildRow(e.Key, e.Doc))
	}
	return rows
}

func buildRow(pmid string, doc eutils.DocSum) report.Row {
	var names, affs, emails []string
	seen := make(map[string]bool)

	for _, au := range doc.Authors {
		if IsAcademic(au.Affiliation) {
			continue
		}
		names = append(names, valueOr(au.Name, UnknownAuthor))
		affs = append(affs, au.Affiliation)
		for _, e := range ExtractEmails(au.Affiliation) {
			if !seen[e] {
				seen[e] = true
				emails = append(emails, e)
			}
		}
	}

	return report.Row{
		PMID:                pmid,
		Title:               valueOr(doc.Title, MissingTitle),
		PublicationDate:     valueOr(doc.PubDate, MissingDate),
		NonAcademicAuthors:  strings.Join(names, joinSep),
		CompanyAffiliations: strings.Join(affs, joinSep),
		CorrespondingEmail:  strings.Join(emails, joinSep),
	}
}

// ExtractEmails returns the email addresses found in an affiliation, in
// order of appearance. PubMed often appends "Electronic address: ..." to
// the corresponding author's affiliation.
func ExtractEmails(aff string) []string {
	return emailPattern.FindAllString(aff, -1)
}

// Enrich fills empty summary affiliations from EFetch author lists,
// matching authors by their "LastName Initials" name. The input is not
// modified.
func Enrich(summary *eutils.SummaryResult, byPMID map[string][]eutils.Author) *eutils.SummaryResult {
	if summary == nil {
		return nil
	}

	out := &eutils.SummaryResult{
		Entries: make([]eutils.SummaryEntry, len(summary.Entries)),
		UIDs:    summary.UIDs,
	}
	for i, e := range summary.Entries {
		out.Entries[i] = e
		fetched, ok := byPMID[e.Key]
		if e.Reserved() || !ok || len(e.Doc.Authors) == 0 {
			continue
		}

		byName := make(map[string]string, len(fetched))
		for _, au := range fetched {
			key := normalizeName(au.SummaryName())
			if _, dup := byName[key]; !dup {
				byName[key] = au.Affiliation
			}
		}

		authors := make([]eutils.SummaryAuthor, len(e.Doc.Authors))
		for j, au := range e.Doc.Authors {
			authors[j] = au
			if au.Affiliation != "" || au.Name == nil {
				continue
			}
			if aff, ok := byName[normalizeName(*au.Name)]; ok {
				authors[j].Affiliation = aff
			}
		}
		out.Entries[i].Doc.Authors = authors
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
