package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// GetValid 返回未过期会话，不存在或已过期返回 nil
	GetValid(ctx context.Context, id string, now time.Time) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepository{db: db} }

func (r *sessionRepository) Create(ctx context.Context, s *model.Session) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return wrapErr("create session", r.db.WithContext(ctx).Create(s).Error)
}

func (r *sessionRepository) GetValid(ctx context.Context, id string, now time.Time) (*model.Session, error) {
	return firstOrNil[model.Session](
		r.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, now),
		"get session",
	)
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return wrapErr("delete session", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error)
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{})
	return res.RowsAffected, wrapErr("delete expired sessions", res.Error)
}
