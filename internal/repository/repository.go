package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/errs"
)

func newID() string { return uuid.New().String() }

// wrapErr 统一错误翻译：记录不存在 -> NotFound，唯一冲突 -> Conflict
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Wrap(errs.KindNotFound, op+": not found", err)
	}
	if database.IsUniqueViolation(err) {
		return errs.Wrap(errs.KindConflict, op+": already exists", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// firstOrNil 查询单行，不存在时返回 nil, nil
func firstOrNil[T any](q *gorm.DB, op string) (*T, error) {
	var out T
	err := q.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// lockForUpdate 仅 postgres 支持 SELECT ... FOR UPDATE
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func pageBounds(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
