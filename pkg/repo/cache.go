package repo

import "context"

// CompoundCache stores lookup results keyed by the normalised query.
type CompoundCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (data []*CompoundInfo, ok bool, err error)
	Set(ctx context.Context, key string, data []*CompoundInfo) error
}
