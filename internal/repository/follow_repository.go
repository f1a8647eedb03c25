package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

// FollowEntry 关注列表项；FollowID 用于处理待审批请求
type FollowEntry struct {
	FollowID string `json:"follow_id,omitempty"`
	model.UserSummary
}

type FollowRepository interface {
	Create(ctx context.Context, f *model.Follow) error
	GetByID(ctx context.Context, id string) (*model.Follow, error)
	// Live 返回有序对当前的 pending/active 边，不存在返回 nil
	Live(ctx context.Context, followerID, followingID string, forUpdate bool) (*model.Follow, error)
	// Latest 返回有序对最新一行（含历史状态），不存在返回 nil
	Latest(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	// Transition 仅当当前状态在 from 中时更新，返回受影响行数
	Transition(ctx context.Context, id string, from []model.FollowStatus, to model.FollowStatus) (int64, error)
	IsActive(ctx context.Context, followerID, followingID string) (bool, error)
	History(ctx context.Context, followerID, followingID string) ([]*model.Follow, error)

	ActiveFollowerIDs(ctx context.Context, userID string) ([]string, error)
	ActiveFollowingIDs(ctx context.Context, userID string) ([]string, error)
	ListFollowers(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error)
	ListFollowings(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error)
	ListFriends(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error)
	ListPending(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowings(ctx context.Context, userID string) (int64, error)

	WithTx(tx *gorm.DB) FollowRepository
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) WithTx(tx *gorm.DB) FollowRepository { return &followRepository{db: tx} }

func (r *followRepository) Create(ctx context.Context, f *model.Follow) error {
	if f.ID == "" {
		f.ID = newID()
	}
	// 并发重复关注撞上 ux_follow_live，翻译为 Conflict
	return wrapErr("create follow", r.db.WithContext(ctx).Create(f).Error)
}

func (r *followRepository) GetByID(ctx context.Context, id string) (*model.Follow, error) {
	var f model.Follow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&f).Error; err != nil {
		return nil, wrapErr("get follow", err)
	}
	return &f, nil
}

func (r *followRepository) Live(ctx context.Context, followerID, followingID string, forUpdate bool) (*model.Follow, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = lockForUpdate(q)
	}
	q = q.Where("follower_id = ? AND following_id = ? AND status IN ?",
		followerID, followingID, []model.FollowStatus{model.FollowPending, model.FollowActive})
	return firstOrNil[model.Follow](q, "get live follow")
}

func (r *followRepository) Latest(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	q := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Order("created_at DESC").Order("id DESC")
	return firstOrNil[model.Follow](q, "get latest follow")
}

func (r *followRepository) Transition(ctx context.Context, id string, from []model.FollowStatus, to model.FollowStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	return res.RowsAffected, wrapErr("transition follow", res.Error)
}

func (r *followRepository) IsActive(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, nil
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?", followerID, followingID, model.FollowActive).
		Count(&cnt).Error; err != nil {
		return false, wrapErr("check follow", err)
	}
	return cnt > 0, nil
}

func (r *followRepository) History(ctx context.Context, followerID, followingID string) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Order("created_at ASC").
		Find(&res).Error
	return res, wrapErr("follow history", err)
}

func (r *followRepository) ActiveFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ? AND status = ?", userID, model.FollowActive).
		Order("created_at DESC").
		Pluck("follower_id", &ids).Error
	return ids, wrapErr("list follower ids", err)
}

func (r *followRepository) ActiveFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND status = ?", userID, model.FollowActive).
		Order("created_at DESC").
		Pluck("following_id", &ids).Error
	return ids, wrapErr("list following ids", err)
}

const followEntryColumns = "f.id AS follow_id, u.id, u.username, u.display_name, u.avatar_url, u.is_verified"

func (r *followRepository) ListFollowers(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error) {
	return r.listEntries(ctx, "f.follower_id", "f.following_id = ? AND f.status = ?", offset, limit, userID, model.FollowActive)
}

func (r *followRepository) ListFollowings(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error) {
	return r.listEntries(ctx, "f.following_id", "f.follower_id = ? AND f.status = ?", offset, limit, userID, model.FollowActive)
}

func (r *followRepository) ListPending(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error) {
	return r.listEntries(ctx, "f.follower_id", "f.following_id = ? AND f.status = ?", offset, limit, userID, model.FollowPending)
}

// ListFriends 互相关注：user->x active 且 x->user active
func (r *followRepository) ListFriends(ctx context.Context, userID string, offset, limit int) ([]FollowEntry, error) {
	offset, limit = pageBounds(offset, limit)
	var res []FollowEntry
	err := r.db.WithContext(ctx).
		Table("follows AS f").
		Select(followEntryColumns).
		Joins("JOIN follows AS b ON b.follower_id = f.following_id AND b.following_id = f.follower_id AND b.status = ?", model.FollowActive).
		Joins("JOIN users AS u ON u.id = f.following_id").
		Where("f.follower_id = ? AND f.status = ?", userID, model.FollowActive).
		Order("f.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&res).Error
	return res, wrapErr("list friends", err)
}

func (r *followRepository) listEntries(ctx context.Context, joinCol, where string, offset, limit int, args ...interface{}) ([]FollowEntry, error) {
	offset, limit = pageBounds(offset, limit)
	var res []FollowEntry
	err := r.db.WithContext(ctx).
		Table("follows AS f").
		Select(followEntryColumns).
		Joins("JOIN users AS u ON u.id = "+joinCol).
		Where(where, args...).
		Order("f.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&res).Error
	return res, wrapErr("list follows", err)
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ? AND status = ?", userID, model.FollowActive).Count(&cnt).Error
	return cnt, wrapErr("count followers", err)
}

func (r *followRepository) CountFollowings(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND status = ?", userID, model.FollowActive).Count(&cnt).Error
	return cnt, wrapErr("count followings", err)
}
