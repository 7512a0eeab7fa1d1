package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidReportReason(t *testing.T) {
	assert.True(t, ValidReportReason(ReportTargetPost, "copyright"))
	assert.True(t, ValidReportReason(ReportTargetComment, "spam"))
	assert.True(t, ValidReportReason(ReportTargetUser, "impersonation"))

	// Reason lists differ per target.
	assert.False(t, ValidReportReason(ReportTargetComment, "copyright"))
	assert.False(t, ValidReportReason(ReportTargetPost, "impersonation"))
	assert.False(t, ValidReportReason(ReportTargetUser, "copyright"))

	assert.False(t, ValidReportReason("playlist", "spam"))
	assert.False(t, ValidReportReason(ReportTargetPost, ""))
}

func TestValidReportStatus(t *testing.T) {
	for _, s := range []string{ReportStatusPending, ReportStatusReviewing, ReportStatusResolved, ReportStatusDismissed} {
		assert.True(t, ValidReportStatus(s), s)
	}
	assert.False(t, ValidReportStatus("escalated"))
	assert.False(t, ValidReportStatus(""))
}

func TestCommentIsReply(t *testing.T) {
	parent := "c1"
	empty := ""
	assert.True(t, (&Comment{ParentID: &parent}).IsReply())
	assert.False(t, (&Comment{}).IsReply())
	assert.False(t, (&Comment{ParentID: &empty}).IsReply())
}
