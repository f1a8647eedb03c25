package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type BlockRepository interface {
	Get(ctx context.Context, blockerID, blockedID string) (*model.Block, error)
	Create(ctx context.Context, b *model.Block) error
	Delete(ctx context.Context, id string) (int64, error)
	// Exists 方向性检查：blocker 是否屏蔽了 blocked
	Exists(ctx context.Context, blockerID, blockedID string) (bool, error)
	// Between 返回双方向的屏蔽状态 (a->b, b->a)
	Between(ctx context.Context, a, b string) (aBlockedB, bBlockedA bool, err error)
	// ExcludedFor 与 viewer 存在任意方向屏蔽的用户 id
	ExcludedFor(ctx context.Context, viewerID string) (map[string]struct{}, error)
	ListBlocked(ctx context.Context, blockerID string) ([]model.UserSummary, error)
	WithTx(tx *gorm.DB) BlockRepository
}

type blockRepository struct{ db *gorm.DB }

func NewBlockRepository(db *gorm.DB) BlockRepository { return &blockRepository{db: db} }

func (r *blockRepository) WithTx(tx *gorm.DB) BlockRepository { return &blockRepository{db: tx} }

func (r *blockRepository) Get(ctx context.Context, blockerID, blockedID string) (*model.Block, error) {
	q := lockForUpdate(r.db.WithContext(ctx)).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID)
	return firstOrNil[model.Block](q, "get block")
}

func (r *blockRepository) Create(ctx context.Context, b *model.Block) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return wrapErr("create block", r.db.WithContext(ctx).Create(b).Error)
}

func (r *blockRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Block{})
	return res.RowsAffected, wrapErr("delete block", res.Error)
}

func (r *blockRepository) Exists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	if blockerID == "" || blockedID == "" {
		return false, nil
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&cnt).Error; err != nil {
		return false, wrapErr("check block", err)
	}
	return cnt > 0, nil
}

func (r *blockRepository) Between(ctx context.Context, a, b string) (bool, bool, error) {
	if a == "" || b == "" {
		return false, false, nil
	}
	var rows []model.Block
	if err := r.db.WithContext(ctx).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Find(&rows).Error; err != nil {
		return false, false, wrapErr("check blocks", err)
	}
	var ab, ba bool
	for _, row := range rows {
		if row.BlockerID == a {
			ab = true
		} else {
			ba = true
		}
	}
	return ab, ba, nil
}

func (r *blockRepository) ExcludedFor(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if viewerID == "" {
		return out, nil
	}
	var rows []model.Block
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", viewerID, viewerID).
		Find(&rows).Error; err != nil {
		return nil, wrapErr("list blocks", err)
	}
	for _, row := range rows {
		if row.BlockerID == viewerID {
			out[row.BlockedID] = struct{}{}
		} else {
			out[row.BlockerID] = struct{}{}
		}
	}
	return out, nil
}

func (r *blockRepository) ListBlocked(ctx context.Context, blockerID string) ([]model.UserSummary, error) {
	var res []model.UserSummary
	err := r.db.WithContext(ctx).
		Table("blocks AS b").
		Select("u.id, u.username, u.display_name, u.avatar_url, u.is_verified").
		Joins("JOIN users AS u ON u.id = b.blocked_id").
		Where("b.blocker_id = ?", blockerID).
		Order("b.created_at DESC").
		Scan(&res).Error
	return res, wrapErr("list blocked", err)
}
