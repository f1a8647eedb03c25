package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	SetBlocked(ctx context.Context, id string, blocked bool) (int64, error)
	SetVerified(ctx context.Context, id string, verified bool) (int64, error)
	Search(ctx context.Context, q string, limit int) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository { return &userRepository{db: tx} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return wrapErr("create user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, wrapErr("get user", err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).Take(&u).Error; err != nil {
		return nil, wrapErr("get user by username", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).Take(&u).Error; err != nil {
		return nil, wrapErr("get user by email", err)
	}
	return &u, nil
}

func (r *userRepository) ExistsUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&cnt).Error; err != nil {
		return false, wrapErr("check user exists", err)
	}
	return cnt > 0, nil
}

func (r *userRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrapErr("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapErr("update user", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *userRepository) SetBlocked(ctx context.Context, id string, blocked bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_blocked", blocked)
	return res.RowsAffected, wrapErr("set user blocked", res.Error)
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_verified", verified)
	return res.RowsAffected, wrapErr("set user verified", res.Error)
}

// Search 用户名/昵称模糊匹配（大小写不敏感），排除被封禁账号
func (r *userRepository) Search(ctx context.Context, q string, limit int) ([]model.User, error) {
	_, limit = pageBounds(0, limit)
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	var res []model.User
	err := r.db.WithContext(ctx).
		Where("(LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(display_name) LIKE ? ESCAPE '\\') AND is_blocked = ?", pattern, pattern, false).
		Order("username").
		Limit(limit).
		Find(&res).Error
	return res, wrapErr("search users", err)
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, wrapErr("list users", err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
