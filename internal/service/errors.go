package service

import "github.com/d60-Lab/social-graph/pkg/errs"

var (
	ErrUnauthenticated    = errs.Unauthorized("not authenticated")
	ErrInvalidCredentials = errs.Unauthorized("invalid email or password")
	ErrAccountBlocked     = errs.Forbidden("account is blocked")
	ErrUserExists         = errs.Conflict("user already exists")
	ErrUserNotFound       = errs.NotFound("user not found")
	ErrAdminOnly          = errs.Forbidden("admin rights required")

	ErrFollowSelf        = errs.InvalidArgument("cannot follow self")
	ErrFollowUnavailable = errs.Forbidden("user is unavailable")
	ErrFollowConflict    = errs.Conflict("follow changed concurrently")
	ErrRequestNotFound   = errs.NotFound("follow request not found")
	ErrRequestNotYours   = errs.Forbidden("follow request is addressed to another user")
	ErrListForbidden     = errs.Forbidden("account is private")
	ErrPendingOwnerOnly  = errs.Forbidden("only the account owner can see pending requests")
	ErrInvalidListKind   = errs.InvalidArgument("invalid list type")
	ErrBlockSelf         = errs.InvalidArgument("cannot block self")

	ErrPostNotFound    = errs.NotFound("post not found")
	ErrEmptyPost       = errs.InvalidArgument("post needs content or an image")
	ErrNoPermission    = errs.Forbidden("no permission")
	ErrEmptyComment    = errs.InvalidArgument("comment is empty")
	ErrCommentNotFound = errs.NotFound("comment not found")
	ErrLikeTarget      = errs.InvalidArgument("post_id or comment_id is required")

	ErrEmptyMessage      = errs.InvalidArgument("message is empty")
	ErrMessageSelf       = errs.InvalidArgument("cannot message self")
	ErrBlockedByReceiver = errs.Forbidden("you are blocked by this user")
	ErrMessagesDisabled  = errs.Forbidden("user has disabled messages")
	ErrMessageNotFound   = errs.NotFound("message not found")
	ErrUnknownAction     = errs.InvalidArgument("unknown action")

	ErrStoryImageRequired = errs.InvalidArgument("story needs an image")
	ErrStoryVisibility    = errs.InvalidArgument("visibility must be all, followers or mutual")

	ErrReportReason         = errs.InvalidArgument("reason is required")
	ErrReportTarget         = errs.InvalidArgument("user_id or post_id is required")
	ErrReportNotFound       = errs.NotFound("report not found")
	ErrVerificationExists   = errs.Conflict("verification request already submitted")
	ErrVerificationNotFound = errs.NotFound("verification request not found")

	ErrNoImage       = errs.InvalidArgument("image is required")
	ErrBadImage      = errs.InvalidArgument("image is not valid base64")
	ErrImageTooLarge = errs.InvalidArgument("image is too large")
)
