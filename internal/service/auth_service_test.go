package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-graph/pkg/errs"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	res, err := e.auth.Register(e.ctx, &RegisterRequest{Username: " Alice ", Email: "Alice@Example.com", Password: "pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "alice", res.User.DisplayName)

	u, err := e.auth.Authenticate(e.ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)

	login, err := e.auth.Login(e.ctx, &LoginRequest{Email: "ALICE@example.com", Password: "pass"})
	require.NoError(t, err)
	assert.NotEqual(t, res.Token, login.Token)

	_, err = e.auth.Login(e.ctx, &LoginRequest{Email: "alice@example.com", Password: "nope"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(e.ctx, &LoginRequest{Email: "ghost@example.com", Password: "pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Register(e.ctx, &RegisterRequest{Username: "al", Email: "a@b.c", Password: "pass"})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))
	_, err = e.auth.Register(e.ctx, &RegisterRequest{Username: "alice", Email: "a@b.c", Password: "abc"})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))
	_, err = e.auth.Register(e.ctx, &RegisterRequest{Username: "alice", Email: "", Password: "pass"})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	_, err = e.auth.Register(e.ctx, &RegisterRequest{Username: "alice", Email: "a@b.c", Password: "pass"})
	require.NoError(t, err)
	_, err = e.auth.Register(e.ctx, &RegisterRequest{Username: "ALICE", Email: "other@b.c", Password: "pass"})
	require.ErrorIs(t, err, ErrUserExists)
	_, err = e.auth.Register(e.ctx, &RegisterRequest{Username: "other", Email: "A@B.C", Password: "pass"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestLoginBlockedAccount(t *testing.T) {
	e := newEnv(t)
	res, err := e.auth.Register(e.ctx, &RegisterRequest{Username: "alice", Email: "a@b.c", Password: "pass"})
	require.NoError(t, err)
	_, err = e.users.SetBlocked(e.ctx, res.User.ID, true)
	require.NoError(t, err)

	_, err = e.auth.Login(e.ctx, &LoginRequest{Email: "a@b.c", Password: "pass"})
	require.ErrorIs(t, err, ErrAccountBlocked)
}

func TestLogoutAndExpiry(t *testing.T) {
	e := newEnv(t)
	res, err := e.auth.Register(e.ctx, &RegisterRequest{Username: "alice", Email: "a@b.c", Password: "pass"})
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(e.ctx, res.Token))
	_, err = e.auth.Authenticate(e.ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = e.auth.Authenticate(e.ctx, "garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)

	login, err := e.auth.Login(e.ctx, &LoginRequest{Email: "a@b.c", Password: "pass"})
	require.NoError(t, err)
	e.clock.Advance(2 * time.Hour)
	_, err = e.auth.Authenticate(e.ctx, login.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMe(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "alice")

	u, err := e.auth.Me(e.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = e.auth.Me(e.ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
