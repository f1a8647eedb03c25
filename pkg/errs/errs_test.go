package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("post not found")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("respond: %w", Forbidden("not yours"))))
}

func TestSentinelMatchesThroughWrapping(t *testing.T) {
	sentinel := InvalidArgument("cannot follow self")
	wrapped := fmt.Errorf("toggle follow: %w", InvalidArgument("cannot follow self"))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, InvalidArgument("other"))
	assert.True(t, IsKind(wrapped, KindInvalidArgument))
	assert.False(t, IsKind(nil, KindInvalidArgument))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, "follow already live", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "follow already live: duplicate key", err.Error())
	assert.Equal(t, "conflict", KindOf(err).String())
}
