package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/uniformsource/backend/config"
)

// ObjectStore is the attachment port. Put stores the object and returns a
// public locator URL retrievable without further authentication. ObjectName
// reverses Put: it resolves one of those locators back to the object name
// Delete expects, rejecting URLs that point at a different bucket.
type ObjectStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, objectNames []string) error
	ObjectName(publicURL string) (string, error)
}

func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "gcs":
		return NewGCS(ctx, cfg)
	case "r2", "s3":
		return NewR2(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
