// Package pipeline runs search, summary, optional enrichment, and
// filtering in sequence for one query.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/henrybloomingdale/get-papers-list/internal/affiliation"
	"github.com/henrybloomingdale/get-papers-list/internal/eutils"
	"github.com/henrybloomingdale/get-papers-list/internal/report"
)

// Source is the subset of the E-utilities client the pipeline needs.
type Source interface {
	Search(ctx context.Context, query string, opts *eutils.SearchOptions) (*eutils.SearchResult, error)
	Summary(ctx context.Context, pmids []string) (*eutils.SummaryResult, error)
	Affiliations(ctx context.Context, pmids []string) (map[string][]eutils.Author, error)
}

var _ Source = (*eutils.Client)(nil)

// Options controls a run.
type Options struct {
	// Limit caps the identifiers requested; zero means eutils.MaxSearchResults.
	Limit int
	// Enrich fills missing affiliations from EFetch.
	Enrich bool
	// SortByPMID orders rows by identifier instead of API order.
	SortByPMID bool
}

// Pipeline composes the stages. It holds no state between runs.
type Pipeline struct {
	source Source
	logger zerolog.Logger
}

// New creates a Pipeline reading from source.
func New(source Source, logger zerolog.Logger) *Pipeline {
	return &Pipeline{source: source, logger: logger}
}

// Run executes all stages for query. Any stage error aborts the run and
// no rows are returned.
func (p *Pipeline) Run(ctx context.Context, query string, opts Options) ([]report.Row, error) {
	p.logger.Debug().Str("query", query).Int("limit", opts.Limit).Msg("searching PubMed")

	found, err := p.source.Search(ctx, query, &eutils.SearchOptions{Limit: opts.Limit})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	p.logger.Debug().
		Int("count", found.Count).
		Str("translation", found.QueryTranslation).
		Strs("ids", found.IDs).
		Msg("search complete")

	summary, err := p.source.Summary(ctx, found.IDs)
	if err != nil {
		return nil, fmt.Errorf("fetching paper details failed: %w", err)
	}

	if opts.Enrich && len(found.IDs) > 0 {
		byPMID, err := p.source.Affiliations(ctx, found.IDs)
		if err != nil {
			return nil, fmt.Errorf("fetching affiliations failed: %w", err)
		}
		summary = affiliation.Enrich(summary, byPMID)
	}

	rows := affiliation.BuildRows(summary)
	if opts.SortByPMID {
		report.SortByPMID(rows)
	}

	p.logger.Debug().Interface("rows", rows).Msg("filtered results")
	return rows, nil
}
