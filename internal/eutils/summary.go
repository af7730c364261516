package eutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type esummaryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Summary retrieves document summaries for the given PMIDs. An empty
// list returns an empty result without contacting NCBI.
func (c *Client) Summary(ctx context.Context, pmids []string) (*SummaryResult, error) {
	if len(pmids) == 0 {
		return &SummaryResult{}, nil
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "json")

	body, err := c.DoGet(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("summary request failed: %w", err)
	}
	c.traceBody("esummary response", body)

	return parseSummary(body)
}

// parseSummary decodes the "result" object token by token so entries keep
// the order NCBI sent them in.
func parseSummary(data []byte) (*SummaryResult, error) {
	var resp esummaryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing summary response: %w", err)
	}
	if len(resp.Result) == 0 {
		return nil, fmt.Errorf("%w: result", ErrMissingField)
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Result))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing summary result: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parsing summary result: expected object, got %v", tok)
	}

	result := &SummaryResult{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing summary result: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing summary result: unexpected key %v", tok)
		}

		if key == UIDsKey {
			if err := dec.Decode(&result.UIDs); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", UIDsKey, err)
			}
			result.Entries = append(result.Entries, SummaryEntry{Key: key})
			continue
		}

		var doc DocSum
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing summary for %s: %w", key, err)
		}
		result.Entries = append(result.Entries, SummaryEntry{Key: key, Doc: doc})
	}

	return result, nil
}
