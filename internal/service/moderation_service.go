package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
)

// ReportRequest user_id 与 post_id 至少一项
type ReportRequest struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
	Reason string `json:"reason" binding:"required,max=1000"`
}

// AdminAction 管理员操作
type AdminAction string

const (
	AdminBlockUser     AdminAction = "block_user"
	AdminUnblockUser   AdminAction = "unblock_user"
	AdminRemovePost    AdminAction = "remove_post"
	AdminResolveReport AdminAction = "resolve_report"
)

type AdminActionRequest struct {
	Action   AdminAction `json:"action" binding:"required"`
	UserID   string      `json:"user_id"`
	PostID   string      `json:"post_id"`
	ReportID string      `json:"report_id"`
}

type ReviewVerificationRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=approve reject"`
}

// AdminQueue 待处理的举报与认证申请
type AdminQueue struct {
	Reports       []model.ReportView       `json:"reports"`
	Verifications []model.VerificationView `json:"verifications"`
}

type ModerationService interface {
	Report(ctx context.Context, reporterID string, req *ReportRequest) (*model.Report, error)
	AdminQueue(ctx context.Context, admin *model.User) (*AdminQueue, error)
	AdminAction(ctx context.Context, admin *model.User, req *AdminActionRequest) error
	RequestVerification(ctx context.Context, userID string) (*model.VerificationRequest, error)
	ReviewVerification(ctx context.Context, admin *model.User, req *ReviewVerificationRequest) error
}

type moderationService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	reportRepo  repository.ReportRepository
	invalidator CacheInvalidator
}

func NewModerationService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	reportRepo repository.ReportRepository,
	invalidator CacheInvalidator,
) ModerationService {
	return &moderationService{db: db, userRepo: userRepo, postRepo: postRepo, reportRepo: reportRepo, invalidator: orNoop(invalidator)}
}

func (s *moderationService) Report(ctx context.Context, reporterID string, req *ReportRequest) (*model.Report, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReportReason
	}
	if req.UserID == "" && req.PostID == "" {
		return nil, ErrReportTarget
	}
	rep := &model.Report{ReporterID: reporterID, Reason: reason}
	if req.UserID != "" {
		if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
			return nil, notFoundAs(err, ErrUserNotFound)
		}
		rep.ReportedUserID = &req.UserID
	}
	if req.PostID != "" {
		if _, err := s.postRepo.GetMeta(ctx, req.PostID); err != nil {
			return nil, notFoundAs(err, ErrPostNotFound)
		}
		rep.ReportedPostID = &req.PostID
	}
	if err := s.reportRepo.CreateReport(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *moderationService) AdminQueue(ctx context.Context, admin *model.User) (*AdminQueue, error) {
	if admin == nil || !admin.IsAdmin {
		return nil, ErrAdminOnly
	}
	reports, err := s.reportRepo.ListPendingReports(ctx)
	if err != nil {
		return nil, err
	}
	verifications, err := s.reportRepo.ListPendingVerifications(ctx)
	if err != nil {
		return nil, err
	}
	q := &AdminQueue{Reports: reports, Verifications: verifications}
	if q.Reports == nil {
		q.Reports = []model.ReportView{}
	}
	if q.Verifications == nil {
		q.Verifications = []model.VerificationView{}
	}
	return q, nil
}

// AdminAction 每个动作都必须命中一行，否则 NotFound
func (s *moderationService) AdminAction(ctx context.Context, admin *model.User, req *AdminActionRequest) error {
	if admin == nil || !admin.IsAdmin {
		return ErrAdminOnly
	}
	var (
		n        int64
		err      error
		notFound error
	)
	switch req.Action {
	case AdminBlockUser, AdminUnblockUser:
		n, err = s.userRepo.SetBlocked(ctx, req.UserID, req.Action == AdminBlockUser)
		notFound = ErrUserNotFound
		if err == nil && n > 0 {
			s.invalidator.ProfileChanged(req.UserID)
		}
	case AdminRemovePost:
		n, err = s.postRepo.MarkRemoved(ctx, req.PostID)
		notFound = ErrPostNotFound
	case AdminResolveReport:
		n, err = s.reportRepo.ResolveReport(ctx, req.ReportID)
		notFound = ErrReportNotFound
	default:
		return ErrUnknownAction
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (s *moderationService) RequestVerification(ctx context.Context, userID string) (*model.VerificationRequest, error) {
	pending, err := s.reportRepo.HasPendingVerification(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrVerificationExists
	}
	v := &model.VerificationRequest{UserID: userID}
	if err := s.reportRepo.CreateVerification(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ReviewVerification 通过时同时设置用户认证标记
func (s *moderationService) ReviewVerification(ctx context.Context, admin *model.User, req *ReviewVerificationRequest) error {
	if admin == nil || !admin.IsAdmin {
		return ErrAdminOnly
	}
	var verifiedUser string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reports := s.reportRepo.WithTx(tx)
		v, err := reports.GetVerification(ctx, req.RequestID)
		if err != nil {
			return notFoundAs(err, ErrVerificationNotFound)
		}
		status := model.VerificationRejected
		if req.Action == "approve" {
			status = model.VerificationApproved
		}
		n, err := reports.SetVerificationStatus(ctx, v.ID, status)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrVerificationNotFound
		}
		if status != model.VerificationApproved {
			return nil
		}
		if _, err := s.userRepo.WithTx(tx).SetVerified(ctx, v.UserID, true); err != nil {
			return err
		}
		verifiedUser = v.UserID
		return nil
	})
	if err != nil {
		return err
	}
	if verifiedUser != "" {
		s.invalidator.ProfileChanged(verifiedUser)
	}
	return nil
}
