package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/errs"
)

type tb interface {
	require.TestingT
	Helper()
	Cleanup(func())
}

func openDB(t tb) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// seedUsers 批量建号，id 为 u0000..；返回 id 列表
func seedUsers(t tb, db *gorm.DB, n int) []string {
	t.Helper()
	users := make([]model.User, n)
	ids := make([]string, n)
	for i := range users {
		id := fmt.Sprintf("u%04d", i)
		ids[i] = id
		users[i] = model.User{ID: id, Username: id, Email: id + "@example.com", PasswordHash: "x", DisplayName: id, MessagesEnabled: true}
	}
	require.NoError(t, db.CreateInBatches(&users, 500).Error)
	return ids
}

func TestFollowLiveEdgeIsUnique(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	ids := seedUsers(t, db, 2)
	repo := NewFollowRepository(db)

	first := &model.Follow{FollowerID: ids[0], FollowingID: ids[1], Status: model.FollowPending}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &model.Follow{FollowerID: ids[0], FollowingID: ids[1], Status: model.FollowActive})
	assert.True(t, errs.IsKind(err, errs.KindConflict), "got %v", err)

	n, err := repo.Transition(ctx, first.ID, []model.FollowStatus{model.FollowActive}, model.FollowRemoved)
	require.NoError(t, err)
	assert.Zero(t, n, "pending row must not move from active")

	n, err = repo.Transition(ctx, first.ID, []model.FollowStatus{model.FollowPending, model.FollowActive}, model.FollowRemoved)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// 旧行保留为历史，新边追加
	second := &model.Follow{FollowerID: ids[0], FollowingID: ids[1], Status: model.FollowActive, CreatedAt: time.Now().Add(time.Second)}
	require.NoError(t, repo.Create(ctx, second))

	live, err := repo.Live(ctx, ids[0], ids[1], true)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, second.ID, live.ID)

	latest, err := repo.Latest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	hist, err := repo.History(ctx, ids[0], ids[1])
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, model.FollowRemoved, hist[0].Status)
}

func TestFollowListsAndCounts(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	ids := seedUsers(t, db, 4)
	repo := NewFollowRepository(db)

	edge := func(from, to int, st model.FollowStatus) {
		require.NoError(t, repo.Create(ctx, &model.Follow{FollowerID: ids[from], FollowingID: ids[to], Status: st}))
	}
	edge(0, 1, model.FollowActive)
	edge(1, 0, model.FollowActive)
	edge(0, 2, model.FollowActive)
	edge(3, 0, model.FollowPending)

	friends, err := repo.ListFriends(ctx, ids[0], 0, 20)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, ids[1], friends[0].ID)

	followers, err := repo.ListFollowers(ctx, ids[0], 0, 20)
	require.NoError(t, err)
	assert.Len(t, followers, 1, "pending edge is not a follower")

	pending, err := repo.ListPending(ctx, ids[0], 0, 20)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[3], pending[0].ID)
	assert.NotEmpty(t, pending[0].FollowID)

	cnt, err := repo.CountFollowings(ctx, ids[0])
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	following, err := repo.ActiveFollowingIDs(ctx, ids[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ids[1], ids[2]}, following)

	ok, err := repo.IsActive(ctx, ids[3], ids[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlockDirections(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	ids := seedUsers(t, db, 3)
	repo := NewBlockRepository(db)

	require.NoError(t, repo.Create(ctx, &model.Block{BlockerID: ids[0], BlockedID: ids[1]}))
	err := repo.Create(ctx, &model.Block{BlockerID: ids[0], BlockedID: ids[1]})
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	ab, ba, err := repo.Between(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.True(t, ab)
	assert.False(t, ba)

	excluded, err := repo.ExcludedFor(ctx, ids[1])
	require.NoError(t, err)
	assert.Contains(t, excluded, ids[0])

	excluded, err = repo.ExcludedFor(ctx, ids[2])
	require.NoError(t, err)
	assert.Empty(t, excluded)

	b, err := repo.Get(ctx, ids[0], ids[1])
	require.NoError(t, err)
	n, err := repo.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	exists, err := repo.Exists(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := openDB(t)
	_, err := NewUserRepository(db).GetByUsername(context.Background(), "ghost")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func BenchmarkFollowCreate(b *testing.B) {
	db := openDB(b)
	ids := seedUsers(b, db, 1000)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from, to := ids[rnd.Intn(len(ids))], ids[rnd.Intn(len(ids))]
		if from == to {
			continue
		}
		// 重复边撞唯一索引即可，不影响计时
		_ = repo.Create(ctx, &model.Follow{FollowerID: from, FollowingID: to, Status: model.FollowActive})
	}
}

func BenchmarkListFollowersAndFriends(b *testing.B) {
	db := openDB(b)
	ctx := context.Background()
	const n = 2000
	ids := seedUsers(b, db, n+1)
	celeb := ids[0]
	edges := make([]model.Follow, 0, 2*n)
	for _, id := range ids[1:] {
		edges = append(edges,
			model.Follow{ID: newID(), FollowerID: id, FollowingID: celeb, Status: model.FollowActive},
			model.Follow{ID: newID(), FollowerID: celeb, FollowingID: id, Status: model.FollowActive},
		)
	}
	require.NoError(b, db.CreateInBatches(&edges, 500).Error)
	repo := NewFollowRepository(db)

	b.ResetTimer()
	b.Run("ListFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.ListFollowers(ctx, celeb, 0, 50)
		}
	})
	b.Run("ListFriends", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.ListFriends(ctx, celeb, 0, 50)
		}
	})
}
