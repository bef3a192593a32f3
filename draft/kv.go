package draft

import "context"

// KV is the durable key-value port a draft persists through. A value written
// by Set must be visible to a later Get with the same key, across process
// restarts.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
