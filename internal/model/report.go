package model

import "time"

const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
)

type Report struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReporterID     string    `gorm:"type:varchar(36);not null;index" json:"reporter_id"`
	ReportedUserID *string   `gorm:"type:varchar(36)" json:"reported_user_id"`
	ReportedPostID *string   `gorm:"type:varchar(36)" json:"reported_post_id"`
	Reason         string    `gorm:"type:text;not null" json:"reason"`
	Status         string    `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Report) TableName() string { return "reports" }

// ReportView 附带双方用户名
type ReportView struct {
	Report
	ReporterUsername string `json:"reporter_username"`
	ReportedUsername string `json:"reported_username"`
}

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// VerificationRequest 认证申请
type VerificationRequest struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Status    string    `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (VerificationRequest) TableName() string { return "verification_requests" }

type VerificationView struct {
	VerificationRequest
	Username string `json:"username"`
}
