package repo

import (
	"context"

	"github.com/scienceol/chemlookup/pkg/repo/model"
)

type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// LookupQuery 过滤条件
type LookupQuery struct {
	Namespace *Namespace
	QueryLike *string
	CID       *int64
	OrderBy   string // 默认 id desc
	Offset    int
	Limit     int
}

type LookupRepo interface {
	Record(ctx context.Context, data *model.CompoundLookup) error
	List(ctx context.Context, q LookupQuery) ([]*model.CompoundLookup, int64, error)
}
