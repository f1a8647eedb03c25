package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

// ReportRepository 举报与认证申请
type ReportRepository interface {
	CreateReport(ctx context.Context, rep *model.Report) error
	ListPendingReports(ctx context.Context) ([]model.ReportView, error)
	ResolveReport(ctx context.Context, id string) (int64, error)

	CreateVerification(ctx context.Context, v *model.VerificationRequest) error
	HasPendingVerification(ctx context.Context, userID string) (bool, error)
	GetVerification(ctx context.Context, id string) (*model.VerificationRequest, error)
	SetVerificationStatus(ctx context.Context, id, status string) (int64, error)
	ListPendingVerifications(ctx context.Context) ([]model.VerificationView, error)

	WithTx(tx *gorm.DB) ReportRepository
}

type reportRepository struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepository{db: db} }

func (r *reportRepository) WithTx(tx *gorm.DB) ReportRepository { return &reportRepository{db: tx} }

func (r *reportRepository) CreateReport(ctx context.Context, rep *model.Report) error {
	if rep.ID == "" {
		rep.ID = newID()
	}
	if rep.Status == "" {
		rep.Status = model.ReportPending
	}
	return wrapErr("create report", r.db.WithContext(ctx).Create(rep).Error)
}

func (r *reportRepository) ListPendingReports(ctx context.Context) ([]model.ReportView, error) {
	var res []model.ReportView
	err := r.db.WithContext(ctx).
		Table("reports AS r").
		Select("r.*, ru.username AS reporter_username, tu.username AS reported_username").
		Joins("LEFT JOIN users AS ru ON ru.id = r.reporter_id").
		Joins("LEFT JOIN users AS tu ON tu.id = r.reported_user_id").
		Where("r.status = ?", model.ReportPending).
		Order("r.created_at DESC").
		Scan(&res).Error
	return res, wrapErr("list reports", err)
}

func (r *reportRepository) ResolveReport(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Report{}).Where("id = ?", id).Update("status", model.ReportResolved)
	return res.RowsAffected, wrapErr("resolve report", res.Error)
}

func (r *reportRepository) CreateVerification(ctx context.Context, v *model.VerificationRequest) error {
	if v.ID == "" {
		v.ID = newID()
	}
	if v.Status == "" {
		v.Status = model.VerificationPending
	}
	return wrapErr("create verification request", r.db.WithContext(ctx).Create(v).Error)
}

func (r *reportRepository) HasPendingVerification(ctx context.Context, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, model.VerificationPending).Count(&cnt).Error
	return cnt > 0, wrapErr("check verification request", err)
}

func (r *reportRepository) GetVerification(ctx context.Context, id string) (*model.VerificationRequest, error) {
	var v model.VerificationRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&v).Error; err != nil {
		return nil, wrapErr("get verification request", err)
	}
	return &v, nil
}

func (r *reportRepository) SetVerificationStatus(ctx context.Context, id, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.VerificationRequest{}).
		Where("id = ? AND status = ?", id, model.VerificationPending).
		Update("status", status)
	return res.RowsAffected, wrapErr("update verification request", res.Error)
}

func (r *reportRepository) ListPendingVerifications(ctx context.Context) ([]model.VerificationView, error) {
	var res []model.VerificationView
	err := r.db.WithContext(ctx).
		Table("verification_requests AS v").
		Select("v.*, u.username").
		Joins("JOIN users AS u ON u.id = v.user_id").
		Where("v.status = ?", model.VerificationPending).
		Order("v.created_at DESC").
		Scan(&res).Error
	return res, wrapErr("list verification requests", err)
}
