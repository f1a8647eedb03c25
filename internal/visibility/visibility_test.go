package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/social-graph/internal/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func live(v model.StoryVisibility) Story {
	return Story{Visibility: v, ExpiresAt: now.Add(time.Hour)}
}

func TestCanViewStoryPolicies(t *testing.T) {
	cases := []struct {
		name string
		rel  Relation
		vis  model.StoryVisibility
		want bool
	}{
		{"all to stranger", Relation{ViewerID: "v", OwnerID: "o"}, model.StoryAll, true},
		{"all to anonymous", Relation{ViewerID: Anonymous, OwnerID: "o"}, model.StoryAll, true},
		{"followers to stranger", Relation{ViewerID: "v", OwnerID: "o"}, model.StoryFollowers, false},
		{"followers to follower", Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true}, model.StoryFollowers, true},
		{"followers to followee only", Relation{ViewerID: "v", OwnerID: "o", OwnerFollowsViewer: true}, model.StoryFollowers, false},
		{"mutual to one-way follower", Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true}, model.StoryMutual, false},
		{"mutual to reverse one-way", Relation{ViewerID: "v", OwnerID: "o", OwnerFollowsViewer: true}, model.StoryMutual, false},
		{"mutual to friend", Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true, OwnerFollowsViewer: true}, model.StoryMutual, true},
		{"owner sees mutual", Relation{ViewerID: "o", OwnerID: "o"}, model.StoryMutual, true},
		{"blocked friend", Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true, OwnerFollowsViewer: true, OwnerBlockedViewer: true}, model.StoryAll, false},
		{"viewer blocked owner", Relation{ViewerID: "v", OwnerID: "o", ViewerBlockedOwner: true}, model.StoryAll, false},
		{"unknown policy", Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true}, model.StoryVisibility("close"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanViewStory(tc.rel, live(tc.vis), now))
		})
	}
}

func TestExpiredStoryHiddenFromEveryone(t *testing.T) {
	expired := Story{Visibility: model.StoryAll, ExpiresAt: now.Add(-time.Second)}
	atBoundary := Story{Visibility: model.StoryAll, ExpiresAt: now}

	for _, rel := range []Relation{
		{ViewerID: "o", OwnerID: "o"},
		{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true, OwnerFollowsViewer: true},
		{ViewerID: Anonymous, OwnerID: "o"},
	} {
		assert.False(t, CanViewStory(rel, expired, now))
		assert.False(t, CanViewStory(rel, atBoundary, now))
	}
}

func TestAnonymousIsNeverSelf(t *testing.T) {
	rel := Relation{ViewerID: Anonymous, OwnerID: Anonymous}
	assert.False(t, rel.Self())
	assert.False(t, CanViewStory(rel, live(model.StoryFollowers), now))
}

func TestCanViewPost(t *testing.T) {
	open := Policy{}
	strict := Policy{EnforcePrivatePosts: true}
	stranger := Relation{ViewerID: "v", OwnerID: "o"}
	follower := Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true}
	owner := Relation{ViewerID: "o", OwnerID: "o"}

	assert.True(t, open.CanViewPost(stranger, Post{}))
	assert.True(t, open.CanViewPost(stranger, Post{AuthorPrivate: true}))
	assert.False(t, strict.CanViewPost(stranger, Post{AuthorPrivate: true}))
	assert.True(t, strict.CanViewPost(follower, Post{AuthorPrivate: true}))
	assert.True(t, strict.CanViewPost(owner, Post{AuthorPrivate: true}))

	assert.False(t, open.CanViewPost(owner, Post{Removed: true}))
	assert.False(t, open.CanViewPost(stranger, Post{AuthorBlocked: true}))
	assert.False(t, open.CanViewPost(Relation{ViewerID: "v", OwnerID: "o", OwnerBlockedViewer: true}, Post{}))
	assert.False(t, open.CanViewPost(Relation{ViewerID: "v", OwnerID: "o", ViewerBlockedOwner: true}, Post{}))
}

func TestCanMessageIsDirectional(t *testing.T) {
	// A blocked B: B -> A refused, A -> B allowed.
	assert.False(t, CanMessage(true, true))
	assert.True(t, CanMessage(false, true))
	assert.False(t, CanMessage(false, false))
}

func TestMutualIsSymmetric(t *testing.T) {
	ab := Relation{ViewerID: "a", OwnerID: "b", ViewerFollowsOwner: true, OwnerFollowsViewer: true}
	ba := Relation{ViewerID: "b", OwnerID: "a", ViewerFollowsOwner: ab.OwnerFollowsViewer, OwnerFollowsViewer: ab.ViewerFollowsOwner}
	assert.Equal(t, ab.Mutual(), ba.Mutual())

	ab.OwnerFollowsViewer = false
	ba.ViewerFollowsOwner = false
	assert.Equal(t, ab.Mutual(), ba.Mutual())
}

func TestCanSeeFollowLists(t *testing.T) {
	assert.True(t, CanSeeFollowLists(Relation{ViewerID: "v", OwnerID: "o"}, false))
	assert.False(t, CanSeeFollowLists(Relation{ViewerID: "v", OwnerID: "o"}, true))
	assert.True(t, CanSeeFollowLists(Relation{ViewerID: "v", OwnerID: "o", ViewerFollowsOwner: true}, true))
	assert.True(t, CanSeeFollowLists(Relation{ViewerID: "o", OwnerID: "o"}, true))
}
