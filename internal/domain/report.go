package domain

import "time"

// ReportStatus represents the review state of an allegation report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusRejected ReportStatus = "rejected"
)

// Report represents a citizen-submitted allegation against an official.
type Report struct {
	ID             int64        `json:"id" db:"id"`
	UserID         int64        `json:"user_id" db:"user_id"`
	OfficialID     *int64       `json:"official_id,omitempty" db:"official_id"`
	AllegationType string       `json:"allegation_type" db:"allegation_type"`
	Title          string       `json:"title" db:"title"`
	Description    string       `json:"description" db:"description"`
	Evidence       *string      `json:"evidence,omitempty" db:"evidence"`
	Status         ReportStatus `json:"status" db:"status"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}
