package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"scholarship-portal-api/models"
)

// MemberRoles describes what a committee member may do: the stages they hold
// a capability for and whether they carry the chairperson flag.
type MemberRoles struct {
	Stages        map[Stage]bool
	IsChairperson bool
}

// CanDecide reports whether the member may record a decision for the stage.
// Chairpersons have implicit access to final approval.
func (r MemberRoles) CanDecide(stage Stage) bool {
	if r.Stages[stage] {
		return true
	}
	return r.IsChairperson && stage == StageFinalApproval
}

// Roles resolves a user's committee capabilities. The assignment data is
// owned by the admin side; this interface only interprets it.
type Roles interface {
	Resolve(userID int) (MemberRoles, error)
}

// RoleResolver is the database-backed Roles implementation reading
// ssc_committee_members and ssc_stage_assignments.
type RoleResolver struct {
	db *gorm.DB
}

func NewRoleResolver(db *gorm.DB) *RoleResolver {
	return &RoleResolver{db: db}
}

// Resolve implements Roles. It fails with ErrUnknownUser when the user has
// no committee membership; callers treat that as "no permissions".
func (r *RoleResolver) Resolve(userID int) (MemberRoles, error) {
	var member models.CommitteeMember
	err := r.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberRoles{}, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
		}
		return MemberRoles{}, err
	}

	var assignments []models.StageAssignment
	if err := r.db.Where("user_id = ? AND delete_at IS NULL", userID).Find(&assignments).Error; err != nil {
		return MemberRoles{}, err
	}

	roles := MemberRoles{
		Stages:        make(map[Stage]bool, len(assignments)),
		IsChairperson: member.IsChairperson,
	}
	for _, a := range assignments {
		stage, err := ParseStage(a.Stage)
		if err != nil {
			// Stale assignment rows must not block the member's valid ones.
			continue
		}
		roles.Stages[stage] = true
	}
	if roles.IsChairperson {
		roles.Stages[StageFinalApproval] = true
	}
	return roles, nil
}

// StaticRoles is a fixed in-memory Roles implementation used by tests and
// local development seeding.
type StaticRoles map[int]MemberRoles

// Resolve implements Roles.
func (s StaticRoles) Resolve(userID int) (MemberRoles, error) {
	roles, ok := s[userID]
	if !ok {
		return MemberRoles{}, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
	}
	return roles, nil
}
