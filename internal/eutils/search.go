package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// esearchResponse represents the raw JSON response from ESearch.
// Pointers distinguish absent keys from empty values.
type esearchResponse struct {
	Result *esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string    `json:"count"`
	IDList           *[]string `json:"idlist"`
	QueryTranslation string    `json:"querytranslation"`
	Error            string    `json:"ERROR"`
}

// Search performs an ESearch query against PubMed and returns the first
// page of identifiers, at most MaxSearchResults.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	limit := MaxSearchResults
	if opts != nil && opts.Limit > 0 && opts.Limit < MaxSearchResults {
		limit = opts.Limit
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(limit))

	body, err := c.DoGet(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	c.traceBody("esearch response", body)

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: esearchresult", ErrMissingField)
	}
	if resp.Result.IDList == nil {
		if resp.Result.Error != "" {
			return nil, fmt.Errorf("%w: esearchresult.idlist (NCBI error: %s)", ErrMissingField, resp.Result.Error)
		}
		return nil, fmt.Errorf("%w: esearchresult.idlist", ErrMissingField)
	}

	count, _ := strconv.Atoi(resp.Result.Count)

	return &SearchResult{
		Count:            count,
		IDs:              *resp.Result.IDList,
		QueryTranslation: resp.Result.QueryTranslation,
	}, nil
}
