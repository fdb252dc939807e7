package migrate

import (
	"context"

	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/repo/model"
	"github.com/scienceol/chemlookup/pkg/utils"
)

func Table(ctx context.Context) error {
	d := db.DB().DBWithContext(ctx)
	return utils.IfErrReturn(func() error {
		if err := d.AutoMigrate(&model.CompoundLookup{}); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
		return nil
	}, func() error {
		// 按时间倒序翻页
		return d.Exec(`CREATE INDEX IF NOT EXISTS idx_compound_lookup_created_at ON compound_lookup (created_at DESC);`).Error
	})
}
