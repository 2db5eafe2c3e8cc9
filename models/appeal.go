package models

import "time"

// Appeal statuses and decisions.
const (
	AppealStatusPending     = "pending"
	AppealStatusUnderReview = "under_review"
	AppealStatusResolved    = "resolved"

	AppealDecisionApproved = "approved"
	AppealDecisionRejected = "rejected"
)

// Appeal represents the application_appeals table: an applicant's request to
// reconsider a rejected application.
type Appeal struct {
	AppealID           int        `gorm:"primaryKey;column:appeal_id" json:"appeal_id"`
	AppealNumber       string     `gorm:"column:appeal_number;unique" json:"appeal_number"`
	ApplicationID      int        `gorm:"column:application_id" json:"application_id"`
	Reason             string     `gorm:"column:reason" json:"reason"`
	Status             string     `gorm:"column:status" json:"status"`
	AssignedReviewerID *int       `gorm:"column:assigned_reviewer_id" json:"assigned_reviewer_id,omitempty"`
	Decision           *string    `gorm:"column:decision" json:"decision,omitempty"`
	RevisedAmount      *float64   `gorm:"column:revised_amount" json:"revised_amount,omitempty"`
	SubmittedAt        time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	ResolvedAt         *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy         *int       `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	CreateAt           time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at"`

	Application      *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	AssignedReviewer *User        `gorm:"foreignKey:AssignedReviewerID" json:"assigned_reviewer,omitempty"`
}

// TableName specifies the table for Appeal.
func (Appeal) TableName() string {
	return "application_appeals"
}

// IsResolved reports whether the appeal lifecycle has ended.
func (a *Appeal) IsResolved() bool {
	return a.Status == AppealStatusResolved
}

// IsOpen reports whether the appeal is still awaiting a resolution.
func (a *Appeal) IsOpen() bool {
	return a.Status == AppealStatusPending || a.Status == AppealStatusUnderReview
}
