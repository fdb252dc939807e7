package compound

import (
	"context"

	"github.com/scienceol/chemlookup/pkg/common"
)

// Service resolves compound queries against PubChem.
type Service interface {
	// Lookup returns every record PubChem matches; an empty match is
	// code.CompoundNotFound.
	Lookup(ctx context.Context, req *LookupReq) (*LookupResp, error)
	// Batch runs many lookups concurrently, keeping input order.
	Batch(ctx context.Context, req *BatchReq) (*BatchResp, error)
	// CIDs resolves identifiers only.
	CIDs(ctx context.Context, req *LookupReq) ([]int64, error)
	// History pages through recorded lookups.
	History(ctx context.Context, req *HistoryReq) (*common.PageResp[[]*HistoryItem], error)
}
