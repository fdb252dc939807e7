package lookup

import (
	"context"

	"github.com/scienceol/chemlookup/pkg/common/code"
	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/repo"
	"github.com/scienceol/chemlookup/pkg/repo/model"
)

type lookupImpl struct {
	*db.Datastore
}

func NewLookupRepo() repo.LookupRepo {
	return New(db.DB())
}

func New(ds *db.Datastore) repo.LookupRepo {
	return &lookupImpl{Datastore: ds}
}

func (l *lookupImpl) Record(ctx context.Context, data *model.CompoundLookup) error {
	if err := l.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "Record lookup err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (l *lookupImpl) List(ctx context.Context, q repo.LookupQuery) ([]*model.CompoundLookup, int64, error) {
	d := l.DBWithContext(ctx).Model(&model.CompoundLookup{})

	if q.Namespace != nil && *q.Namespace != "" {
		d = d.Where("namespace = ?", string(*q.Namespace))
	}
	if q.QueryLike != nil && *q.QueryLike != "" {
		d = d.Where("query ILIKE ?", "%"+*q.QueryLike+"%")
	}
	if q.CID != nil {
		d = d.Where("cid = ?", *q.CID)
	}

	var total int64
	if err := d.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	order := q.OrderBy
	if order == "" {
		order = "id desc"
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.CompoundLookup, 0, q.Limit)
	if err := d.Order(order).Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}
