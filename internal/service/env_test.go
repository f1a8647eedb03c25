package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/visibility"
	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/token"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingInvalidator struct {
	mu       sync.Mutex
	follows  [][]string
	profiles [][]string
}

func (r *recordingInvalidator) FollowsChanged(ids ...string) {
	r.mu.Lock()
	r.follows = append(r.follows, ids)
	r.mu.Unlock()
}

func (r *recordingInvalidator) ProfileChanged(ids ...string) {
	r.mu.Lock()
	r.profiles = append(r.profiles, ids)
	r.mu.Unlock()
}

type env struct {
	ctx   context.Context
	db    *gorm.DB
	clock *testClock
	inv   *recordingInvalidator

	users    repository.UserRepository
	follows  repository.FollowRepository
	blocks   repository.BlockRepository
	posts    repository.PostRepository
	notifies repository.NotificationRepository

	auth          AuthService
	relations     RelationshipService
	userSvc       UserService
	postSvc       PostService
	interactions  InteractionService
	messages      MessageService
	notifications NotificationService
	stories       StoryService
	moderation    ModerationService
}

func newEnv(t *testing.T) *env {
	return newEnvWithPolicy(t, visibility.Policy{})
}

func newEnvWithPolicy(t *testing.T, policy visibility.Policy) *env {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	e := &env{
		ctx:   context.Background(),
		db:    db,
		clock: &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		inv:   &recordingInvalidator{},
	}
	e.users = repository.NewUserRepository(db)
	e.follows = repository.NewFollowRepository(db)
	e.blocks = repository.NewBlockRepository(db)
	e.posts = repository.NewPostRepository(db)
	e.notifies = repository.NewNotificationRepository(db)
	sessions := repository.NewSessionRepository(db)
	comments := repository.NewCommentRepository(db)
	likes := repository.NewLikeRepository(db)
	msgs := repository.NewMessageRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	reports := repository.NewReportRepository(db)

	tokens := token.NewManager("test-secret", time.Hour, "test")
	e.auth = NewAuthService(db, e.users, sessions, tokens, e.clock.Now)
	e.relations = NewRelationshipService(db, e.users, e.follows, e.blocks, e.notifies, nil, e.inv)
	e.userSvc = NewUserService(e.users, e.follows, e.posts, e.relations, policy, e.inv)
	e.postSvc = NewPostService(e.posts, e.relations, policy, 20)
	e.interactions = NewInteractionService(db, e.postSvc, comments, likes, e.notifies)
	e.messages = NewMessageService(db, e.users, e.blocks, msgs, e.notifies, e.clock.Now)
	e.notifications = NewNotificationService(e.notifies)
	e.stories = NewStoryService(storyRepo, e.follows, e.blocks, 24*time.Hour, e.clock.Now)
	e.moderation = NewModerationService(db, e.users, e.posts, reports, e.inv)
	return e
}

// user 直接落库，跳过 bcrypt
func (e *env) user(t *testing.T, name string, mods ...func(*model.User)) *model.User {
	t.Helper()
	u := &model.User{
		Username:        name,
		Email:           fmt.Sprintf("%s@example.com", name),
		PasswordHash:    "x",
		DisplayName:     name,
		MessagesEnabled: true,
	}
	for _, m := range mods {
		m(u)
	}
	// gorm 会用列默认值 true 覆盖零值，需要事后更新
	dms := u.MessagesEnabled
	require.NoError(t, e.users.Create(e.ctx, u))
	if !dms {
		require.NoError(t, e.users.Update(e.ctx, u.ID, map[string]interface{}{"messages_enabled": false}))
		u.MessagesEnabled = false
	}
	return u
}

func private(u *model.User) { u.IsPrivate = true }
func admin(u *model.User)   { u.IsAdmin = true }
func noDMs(u *model.User)   { u.MessagesEnabled = false }

func (e *env) follow(t *testing.T, a, b *model.User) *FollowResult {
	t.Helper()
	res, err := e.relations.ToggleFollow(e.ctx, a.ID, b.ID)
	require.NoError(t, err)
	return res
}

func (e *env) post(t *testing.T, author *model.User, content string) *model.PostView {
	t.Helper()
	p, err := e.postSvc.Create(e.ctx, author, &CreatePostRequest{Content: content})
	require.NoError(t, err)
	return p
}

func (e *env) notificationTypes(t *testing.T, userID string) []model.NotificationType {
	t.Helper()
	list, err := e.notifications.List(e.ctx, userID)
	require.NoError(t, err)
	out := make([]model.NotificationType, len(list))
	for i, n := range list {
		out[i] = n.Type
	}
	return out
}
