package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"gorm.io/gorm"
)

// Page bounds a list query.
type Page struct {
	Offset int
	Limit  int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsFold builds a case-insensitive substring condition on column that
// behaves the same on postgres and sqlite.
func ContainsFold(column, s string) (string, string) {
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", column),
		"%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// StoreErr maps a gorm error onto a code. Unexpected failures are logged
// with op and wrapped in fallback.
func StoreErr(ctx context.Context, op string, err error, notFound, fallback code.ErrCode) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		logger.Warnf(ctx, "%s conflict: %v", op, err)
		return code.DataConflict.WithErr(err)
	default:
		logger.Errorf(ctx, "%s err: %+v", op, err)
		return fallback.WithErr(err)
	}
}
