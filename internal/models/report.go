package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report target types.
const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
	ReportTargetUser    = "user"
)

// Report statuses. Transitions happen only through moderator action.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewing = "reviewing"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

var postReportReasons = []string{
	"spam", "harassment", "hate_speech", "violence",
	"inappropriate_content", "misinformation", "copyright", "other",
}

var commentReportReasons = []string{
	"spam", "harassment", "hate_speech", "violence",
	"inappropriate_content", "misinformation", "other",
}

var userReportReasons = []string{
	"spam", "harassment", "impersonation", "inappropriate_profile",
	"suspicious_activity", "other",
}

// ValidReportReason reports whether reason is accepted for the target type.
func ValidReportReason(targetType, reason string) bool {
	var reasons []string
	switch targetType {
	case ReportTargetPost:
		reasons = postReportReasons
	case ReportTargetComment:
		reasons = commentReportReasons
	case ReportTargetUser:
		reasons = userReportReasons
	default:
		return false
	}
	for _, r := range reasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ValidReportStatus reports whether status is a known report status.
func ValidReportStatus(status string) bool {
	switch status {
	case ReportStatusPending, ReportStatusReviewing, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Report records a user flagging a post, comment or user. At most one
// report exists per (reporter, target) pair; the unique index backs the
// duplicate rejection.
type Report struct {
	ID         string `gorm:"primaryKey" json:"id"`
	TargetType string `gorm:"not null;uniqueIndex:idx_reporter_target" json:"targetType"`
	TargetID   string `gorm:"not null;uniqueIndex:idx_reporter_target" json:"targetId"`
	ReporterID string `gorm:"not null;uniqueIndex:idx_reporter_target" json:"reporterId"`

	// PostID locates the parent post for comment reports.
	PostID         string `json:"postId,omitempty"`
	TargetAuthorID string `json:"targetAuthorId,omitempty"`
	ReporterName   string `json:"reporterName"`

	Reason      string `gorm:"not null" json:"reason"`
	Description string `json:"description"`
	Status      string `gorm:"not null;default:pending;index" json:"status"`

	// Moderation outcome.
	Action     string     `json:"action,omitempty"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the server-side opaque key.
func (r *Report) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
