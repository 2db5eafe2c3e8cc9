package models

import "time"

// CommitteeMember represents the ssc_committee_members table. Membership and
// stage assignments are owned by the identity/admin side of the system; the
// review core only reads them.
type CommitteeMember struct {
	MemberID      int        `gorm:"primaryKey;column:member_id" json:"member_id"`
	UserID        int        `gorm:"column:user_id" json:"user_id"`
	IsChairperson bool       `gorm:"column:is_chairperson" json:"is_chairperson"`
	AppointedAt   time.Time  `gorm:"column:appointed_at" json:"appointed_at"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// StageAssignment represents the ssc_stage_assignments table: one row per
// review stage a committee member may decide on.
type StageAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	UserID       int        `gorm:"column:user_id" json:"user_id"`
	Stage        string     `gorm:"column:stage" json:"stage"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (CommitteeMember) TableName() string {
	return "ssc_committee_members"
}

func (StageAssignment) TableName() string {
	return "ssc_stage_assignments"
}
