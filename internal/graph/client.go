// Package graph wraps the graph database holding the campus map behind a
// small client interface so repositories can be tested without a server.
package graph

import (
	"context"
	"errors"
)

// Client is the subset of graph database behaviour the repositories need.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds every record a statement returned.
type Result struct {
	Records []Record
}

// Record maps returned column names to values.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

var (
	// ErrMissingURI indicates the graph URI is not provided.
	ErrMissingURI = errors.New("graph URI is required")
	// ErrClosed is returned by clients used after Close.
	ErrClosed = errors.New("graph client closed")
)
