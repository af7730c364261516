package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{
			PMID:                "39000002",
			Title:               "Engineered T cells, for solid tumors.",
			PublicationDate:     "2024 Mar 5",
			NonAcademicAuthors:  "Smith J, Lee K",
			CompanyAffiliations: "Acme Pharma Inc., Genentech",
			CorrespondingEmail:  "jsmith@acme.example.com",
		},
		{
			PMID:            "39000001",
			Title:           "Checkpoint blockade revisited.",
			PublicationDate: "2023 Dec",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open CSV: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	return records
}

func TestHeader(t *testing.T) {
	want := "PubmedID|Title|Publication Date|Non-academic Author(s)|Company Affiliation(s)"
	if got := strings.Join(Header(Standard), "|"); got != want {
		t.Errorf("expected header %q, got %q", want, got)
	}
	if got := strings.Join(Header(WithEmail), "|"); got != want+"|"+EmailColumn {
		t.Errorf("unexpected email-variant header %q", got)
	}
	// Header must not alias the package-level slice.
	h := Header(Standard)
	h[0] = "changed"
	if Header(Standard)[0] != "PubmedID" {
		t.Error("Header returned a shared slice")
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")

	if err := WriteCSV(path, sampleRows(), Standard); err != nil {
		t.Fatalf("unexpected error writing CSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], "|") != strings.Join(Header(Standard), "|") {
		t.Errorf("unexpected header %v", records[0])
	}
	if len(records[1]) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(records[1]))
	}
	if records[1][1] != "Engineered T cells, for solid tumors." {
		t.Errorf("expected quoted title to round-trip, got %q", records[1][1])
	}
	if records[1][3] != "Smith J, Lee K" {
		t.Errorf("expected joined authors, got %q", records[1][3])
	}
}

func TestWriteCSV_EmailVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")

	if err := WriteCSV(path, sampleRows(), WithEmail); err != nil {
		t.Fatalf("unexpected error writing CSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records[0]) != 6 || records[0][5] != EmailColumn {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][5] != "jsmith@acme.example.com" {
		t.Errorf("expected email cell, got %q", records[1][5])
	}
}

func TestWriteCSV_NoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := WriteCSV(path, nil, Standard); err != nil {
		t.Fatalf("unexpected error writing CSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}

func TestWriteCSV_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "papers.csv")
	if err := WriteCSV(path, sampleRows(), Standard); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleRows(), Standard, FormatTable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"PubmedID", "Company Affiliation(s)", "39000002", "Smith J, Lee K", "2 paper(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, EmailColumn) {
		t.Error("standard variant should not show email column")
	}
}

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, Standard, FormatTable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "PubmedID") {
		t.Errorf("expected header in empty table, got:\n%s", out)
	}
	if !strings.Contains(out, "0 paper(s)") {
		t.Errorf("expected zero count, got:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleRows(), Standard, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(parsed))
	}
	if parsed[0]["pmid"] != "39000002" {
		t.Errorf("expected pmid 39000002, got %v", parsed[0]["pmid"])
	}
	if _, ok := parsed[0]["corresponding_author_email"]; ok {
		t.Error("standard variant should omit email")
	}
}

func TestRenderJSON_EmailVariantKeepsEmptyEmail(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleRows(), WithEmail, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if v, ok := parsed[1]["corresponding_author_email"]; !ok || v != "" {
		t.Errorf("expected empty email field, got %v (present=%v)", v, ok)
	}
}

func TestRenderJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, Standard, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}

func TestSortByPMID(t *testing.T) {
	rows := []Row{{PMID: "100"}, {PMID: "9"}, {PMID: "abc"}, {PMID: "25"}}
	SortByPMID(rows)

	var got []string
	for _, r := range rows {
		got = append(got, r.PMID)
	}
	// Numeric pairs compare as numbers; "abc" sorts lexically after digits.
	want := "9,25,100,abc"
	if strings.Join(got, ",") != want {
		t.Errorf("expected order %s, got %s", want, strings.Join(got, ","))
	}
}
