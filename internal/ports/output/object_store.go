package output

import "context"

// ObjectStore holds publicly readable blobs such as avatar images.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (publicURL string, err error)
	DeletePrefix(ctx context.Context, prefix string) error
}
