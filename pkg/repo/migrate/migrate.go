package migrate

import (
	"context"

	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo/model"
	"gorm.io/gorm"
)

func Table(ctx context.Context) error {
	return AutoMigrate(ctx, db.DB().DBWithContext(ctx))
}

func AutoMigrate(ctx context.Context, d *gorm.DB) error {
	models := []any{
		&model.Order{},
		&model.ReagentRequest{},
		&model.Reagent{},
		&model.OrderHistory{},
	}
	for _, m := range models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}
