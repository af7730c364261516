// Package eutils provides a client for the NCBI E-utilities API.
package eutils

import "errors"

// UIDsKey is the reserved key in an ESummary result that lists the
// returned identifiers instead of describing a paper.
const UIDsKey = "uids"

// MaxSearchResults caps the number of identifiers requested from ESearch.
const MaxSearchResults = 10

// ErrMissingField is returned when a response lacks a field the client
// reads by fixed path.
var ErrMissingField = errors.New("missing field in response")

// SearchResult represents the result of an ESearch query.
type SearchResult struct {
	Count            int      `json:"count"`
	IDs              []string `json:"ids"`
	QueryTranslation string   `json:"query_translation"`
}

// SearchOptions configures a search query.
type SearchOptions struct {
	Limit int `json:"limit,omitempty"`
}

// SummaryResult is the "result" object of an ESummary response with key
// order preserved.
type SummaryResult struct {
	Entries []SummaryEntry `json:"entries"`
	UIDs    []string       `json:"uids"`
}

// SummaryEntry is one key of the ESummary result object. The entry for
// UIDsKey carries no document.
type SummaryEntry struct {
	Key string `json:"key"`
	Doc DocSum `json:"doc"`
}

// Reserved reports whether the entry is the identifier list rather than a paper.
func (e SummaryEntry) Reserved() bool {
	return e.Key == UIDsKey
}

// Len returns the number of entries, including the reserved one.
func (r *SummaryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// DocSum is a PubMed document summary. Title and PubDate are nil when
// the key is absent from the response.
type DocSum struct {
	UID     string          `json:"uid"`
	Title   *string         `json:"title"`
	PubDate *string         `json:"pubdate"`
	Authors []SummaryAuthor `json:"authors"`
}

// SummaryAuthor is an author entry of a document summary. Name is nil
// when the key is absent.
type SummaryAuthor struct {
	Name        *string `json:"name"`
	Affiliation string  `json:"affiliation,omitempty"`
}

// Author represents an article author parsed from EFetch XML.
type Author struct {
	LastName       string `json:"last_name"`
	ForeName       string `json:"fore_name"`
	Initials       string `json:"initials"`
	CollectiveName string `json:"collective_name,omitempty"`
	Affiliation    string `json:"affiliation,omitempty"`
}

// SummaryName returns the name in ESummary form ("LastName Initials"),
// or CollectiveName if present.
func (a Author) SummaryName() string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	if a.Initials == "" {
		return a.LastName
	}
	return a.LastName + " " + a.Initials
}
