package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/social-graph/internal/model"
)

// ListKind 被缓存的关系列表
type ListKind string

const (
	Followers  ListKind = "followers"
	Followings ListKind = "following"
)

// IDLoader 缓存未命中时从主库加载完整 id 列表
type IDLoader func(ctx context.Context) ([]string, error)

// UserLoader 加载缓存中缺失的用户卡片
type UserLoader func(ctx context.Context, ids []string) ([]model.UserSummary, error)

// FollowLists caches follower/following id indexes as Redis lists and user
// cards as JSON strings. Only active edges belong in an index; callers drop
// the index whenever an edge of that user changes.
type FollowLists struct {
	rdb *redis.Client
	ttl time.Duration

	indexLoads atomic.Int64
	userLoads  atomic.Int64
}

func NewFollowLists(rdb *redis.Client, ttl time.Duration) *FollowLists {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FollowLists{rdb: rdb, ttl: ttl}
}

func indexKey(kind ListKind, userID string) string {
	return fmt.Sprintf("%s:index:%s", kind, userID)
}

func userKey(id string) string { return fmt.Sprintf("user:%s", id) }

const (
	maxPageSize = 100
	maxPage     = 10000
)

// Page 返回第 page 页（从 1 开始）的用户卡片
func (c *FollowLists) Page(ctx context.Context, kind ListKind, userID string, page, size int, loadIDs IDLoader, loadUsers UserLoader) ([]model.UserSummary, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if size <= 0 || size > maxPageSize {
		size = 20
	}
	start := (page - 1) * size
	end := start + size - 1
	key := indexKey(kind, userID)

	var ids []string
	exists, _ := c.rdb.Exists(ctx, key).Result()
	if exists > 0 {
		ids, _ = c.rdb.LRange(ctx, key, int64(start), int64(end)).Result()
	} else {
		all, err := c.loadIndex(ctx, key, loadIDs)
		if err != nil {
			return nil, err
		}
		if start >= len(all) {
			return []model.UserSummary{}, nil
		}
		stop := start + size
		if stop > len(all) {
			stop = len(all)
		}
		ids = all[start:stop]
	}
	return c.users(ctx, ids, loadUsers)
}

func (c *FollowLists) loadIndex(ctx context.Context, key string, load IDLoader) ([]string, error) {
	c.indexLoads.Add(1)
	ids, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		vals := make([]interface{}, len(ids))
		for i, id := range ids {
			vals[i] = id
		}
		pipe := c.rdb.TxPipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, vals...)
		pipe.Expire(ctx, key, c.ttl)
		_, _ = pipe.Exec(ctx)
	}
	return ids, nil
}

func (c *FollowLists) users(ctx context.Context, ids []string, load UserLoader) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return []model.UserSummary{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	cached := make(map[string]model.UserSummary, len(ids))
	if vals, err := c.rdb.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var u model.UserSummary
			if json.Unmarshal([]byte(str), &u) == nil {
				cached[ids[i]] = u
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		c.userLoads.Add(1)
		loaded, err := load(ctx, missing)
		if err != nil {
			return nil, err
		}
		pipe := c.rdb.Pipeline()
		for _, u := range loaded {
			cached[u.ID] = u
			if payload, err := json.Marshal(u); err == nil {
				pipe.Set(ctx, userKey(u.ID), payload, c.ttl)
			}
		}
		_, _ = pipe.Exec(ctx)
	}

	out := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := cached[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// DropIndexes 删除用户的 followers/following 索引
func (c *FollowLists) DropIndexes(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		keys = append(keys, indexKey(Followers, id), indexKey(Followings, id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DropUsers 删除用户卡片（资料变更后）
func (c *FollowLists) DropUsers(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = userKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Counters 主库加载次数
type Counters struct {
	IndexLoads int64
	UserLoads  int64
}

func (c *FollowLists) Counters() Counters {
	return Counters{IndexLoads: c.indexLoads.Load(), UserLoads: c.userLoads.Load()}
}
