// Package storage abstracts where finished renders end up. The pipeline
// writes everything into the session workspace and publishes the final file
// through a Store; the workspace itself is always removed afterwards.
package storage

import (
	"context"
	"io"
)

// Store defines the interface for persisting and retrieving finished renders.
type Store interface {
	// Publish copies a local file into durable storage under objectName and
	// returns a reference usable with Open.
	Publish(ctx context.Context, localPath, objectName string) (string, error)

	// Open returns a reader for a previously published render.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Exists reports whether a published render is still available.
	Exists(ctx context.Context, ref string) bool

	// List returns references to published renders whose names start with
	// prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
