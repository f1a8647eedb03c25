// Package visibility decides whether a viewer may see a piece of content.
//
// The functions here are pure: callers load the relationship snapshot between
// viewer and owner and pass it in, so the same rules back single-item reads
// and list filtering.
package visibility

import (
	"time"

	"github.com/d60-Lab/social-graph/internal/model"
)

// Anonymous is the viewer id of an unauthenticated request. It has no edges.
const Anonymous = ""

// Relation is the state between a viewer and a content owner.
type Relation struct {
	ViewerID string
	OwnerID  string

	ViewerFollowsOwner bool // active edge viewer -> owner
	OwnerFollowsViewer bool // active edge owner -> viewer
	ViewerBlockedOwner bool
	OwnerBlockedViewer bool
}

// Self reports whether the viewer owns the content.
func (r Relation) Self() bool {
	return r.ViewerID != Anonymous && r.ViewerID == r.OwnerID
}

// Mutual reports active follows in both directions.
func (r Relation) Mutual() bool {
	return r.ViewerFollowsOwner && r.OwnerFollowsViewer
}

// Blocked reports a block edge in either direction.
func (r Relation) Blocked() bool {
	return r.ViewerBlockedOwner || r.OwnerBlockedViewer
}

// Policy holds switches that change post gating.
type Policy struct {
	// EnforcePrivatePosts hides a private author's posts from everyone except
	// the author and their active followers.
	EnforcePrivatePosts bool
}

// Post is what the resolver needs to know about a post.
type Post struct {
	Removed       bool
	AuthorBlocked bool // moderation flag on the author account
	AuthorPrivate bool
}

// Story is what the resolver needs to know about a story.
type Story struct {
	Visibility model.StoryVisibility
	ExpiresAt  time.Time
}

// CanViewPost applies post rules.
func (p Policy) CanViewPost(rel Relation, post Post) bool {
	if post.Removed {
		return false
	}
	if rel.Self() {
		return true
	}
	if post.AuthorBlocked || rel.Blocked() {
		return false
	}
	if p.EnforcePrivatePosts && post.AuthorPrivate {
		return rel.ViewerFollowsOwner
	}
	return true
}

// Expired reports whether the story is past its expiry at now.
func (s Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CanViewStory applies story rules. Expiry wins over everything, including
// ownership.
func CanViewStory(rel Relation, story Story, now time.Time) bool {
	if story.Expired(now) {
		return false
	}
	if rel.Self() {
		return true
	}
	if rel.Blocked() {
		return false
	}
	switch story.Visibility {
	case model.StoryAll:
		return true
	case model.StoryFollowers:
		return rel.ViewerFollowsOwner
	case model.StoryMutual:
		return rel.Mutual()
	default:
		return false
	}
}

// CanMessage reports whether sender may deliver to receiver. Only the
// receiver's block counts: a sender who blocked the receiver can still write.
func CanMessage(receiverBlockedSender, receiverMessagesEnabled bool) bool {
	return !receiverBlockedSender && receiverMessagesEnabled
}

// CanSeeFollowLists reports whether the viewer may list a user's followers,
// followings or friends.
func CanSeeFollowLists(rel Relation, ownerPrivate bool) bool {
	if rel.Self() || !ownerPrivate {
		return true
	}
	return rel.ViewerFollowsOwner
}
