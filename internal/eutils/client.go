// Package eutils retrieves PMIDs and abstracts from NCBI E-utilities.
package eutils

import (
	"github.com/mcannon068nw/clinical-score-2/internal/ncbi"
)

// Client is an E-utilities client for the pubmed and gene databases. It
// wraps ncbi.Client for rate limiting, retry, and common parameters.
type Client struct {
	*ncbi.Client
}

// NewClient creates an E-utilities client with the given options.
func NewClient(opts ...ncbi.Option) *Client {
	return &Client{Client: ncbi.NewClient(opts...)}
}

// NewClientWithBase wraps an existing NCBI client, sharing its rate
// limiter.
func NewClientWithBase(base *ncbi.Client) *Client {
	return &Client{Client: base}
}
