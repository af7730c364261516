package eutils

import (
	"bytes"
	"encoding/json"

	"github.com/henrybloomingdale/get-papers-list/internal/ncbi"
)

const (
	// DefaultBaseURL is the NCBI E-utilities base URL.
	DefaultBaseURL = ncbi.DefaultBaseURL
	// DefaultTool identifies this application to NCBI.
	DefaultTool = ncbi.DefaultTool
	// DefaultEmail is the contact email sent to NCBI.
	DefaultEmail = ncbi.DefaultEmail
)

// Client is an HTTP client for NCBI E-utilities.
// It embeds ncbi.BaseClient for rate limiting, common parameters,
// and response size guards.
type Client struct {
	*ncbi.BaseClient
}

// Option configures a Client (alias for ncbi.Option).
type Option = ncbi.Option

// Re-export ncbi options so callers only import eutils.
var (
	WithBaseURL          = ncbi.WithBaseURL
	WithAPIKey           = ncbi.WithAPIKey
	WithTool             = ncbi.WithTool
	WithEmail            = ncbi.WithEmail
	WithTimeout          = ncbi.WithTimeout
	WithMaxResponseBytes = ncbi.WithMaxResponseBytes
	WithLogger           = ncbi.WithLogger
)

// NewClient creates a new E-utilities client with the given options.
func NewClient(opts ...Option) *Client {
	return &Client{BaseClient: ncbi.NewBaseClient(opts...)}
}

// traceBody logs a raw response body, indented, at debug level.
func (c *Client) traceBody(msg string, body []byte) {
	ev := c.Logger.Debug()
	if !ev.Enabled() {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		ev.Bytes("body", body).Msg(msg)
		return
	}
	ev.Msg(msg + "\n" + buf.String())
}
