// Package report renders non-academic author rows to the console or CSV.
package report

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
)

// Variant selects the column set.
type Variant int

const (
	// Standard has the five base columns.
	Standard Variant = iota
	// WithEmail adds the corresponding author email column.
	WithEmail
)

// Format selects the console rendering.
type Format int

const (
	FormatTable Format = iota
	FormatJSON
)

var baseHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
}

// EmailColumn is the header of the optional sixth column.
const EmailColumn = "Corresponding Author Email"

// Row is one paper in the report. Multi-valued cells are already joined.
type Row struct {
	PMID                string `json:"pmid"`
	Title               string `json:"title"`
	PublicationDate     string `json:"publication_date"`
	NonAcademicAuthors  string `json:"non_academic_authors"`
	CompanyAffiliations string `json:"company_affiliations"`
	CorrespondingEmail  string `json:"corresponding_author_email"`
}

// Header returns the fixed column list for the variant.
func Header(v Variant) []string {
	h := slices.Clone(baseHeader)
	if v == WithEmail {
		h = append(h, EmailColumn)
	}
	return h
}

// Values returns the row's cells in header order.
func (r Row) Values(v Variant) []string {
	vals := []string{r.PMID, r.Title, r.PublicationDate, r.NonAcademicAuthors, r.CompanyAffiliations}
	if v == WithEmail {
		vals = append(vals, r.CorrespondingEmail)
	}
	return vals
}

// SortByPMID orders rows by identifier, numerically when both parse.
func SortByPMID(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		ai, aerr := strconv.ParseUint(a.PMID, 10, 64)
		bi, berr := strconv.ParseUint(b.PMID, 10, 64)
		if aerr == nil && berr == nil {
			return cmp.Compare(ai, bi)
		}
		return cmp.Compare(a.PMID, b.PMID)
	})
}

// WriteCSV writes the header and rows to path. The file is removed if
// writing fails part way.
func WriteCSV(path string, rows []Row, v Variant) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing CSV file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return writeCSV(f, rows, v)
}

func writeCSV(w io.Writer, rows []Row, v Variant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(v)); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Values(v)); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.PMID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV output: %w", err)
	}
	return nil
}

// Render prints rows to w in the chosen format.
func Render(w io.Writer, rows []Row, v Variant, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, jsonRows(rows, v))
	default:
		return renderTable(w, rows, v)
	}
}

type jsonRow struct {
	PMID                string  `json:"pmid"`
	Title               string  `json:"title"`
	PublicationDate     string  `json:"publication_date"`
	NonAcademicAuthors  string  `json:"non_academic_authors"`
	CompanyAffiliations string  `json:"company_affiliations"`
	CorrespondingEmail  *string `json:"corresponding_author_email,omitempty"`
}

func jsonRows(rows []Row, v Variant) []jsonRow {
	out := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		jr := jsonRow{
			PMID:                r.PMID,
			Title:               r.Title,
			PublicationDate:     r.PublicationDate,
			NonAcademicAuthors:  r.NonAcademicAuthors,
			CompanyAffiliations: r.CompanyAffiliations,
		}
		if v == WithEmail {
			email := r.CorrespondingEmail
			jr.CorrespondingEmail = &email
		}
		out = append(out, jr)
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
