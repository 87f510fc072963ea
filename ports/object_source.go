package ports

import "context"

// ObjectSource copies a remote object to a local file so it can be analyzed
type ObjectSource interface {
	// Fetch downloads bucket/key into dir and returns the local path
	Fetch(ctx context.Context, bucket, key, dir string) (string, error)
}
