package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestRoleResolverResolvesStagesAndChairFlag(t *testing.T) {
	now := time.Now()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `ssc_committee_members`"),
			args:    []driver.Value{int64(42)},
			columns: []string{"member_id", "user_id", "is_chairperson", "appointed_at", "create_at", "update_at", "delete_at"},
			rows: [][]driver.Value{
				{int64(7), int64(42), int64(1), now, now, nil, nil},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `ssc_stage_assignments`"),
			args:    []driver.Value{int64(42)},
			columns: []string{"assignment_id", "user_id", "stage", "create_at", "delete_at"},
			rows: [][]driver.Value{
				{int64(1), int64(42), "financial_review", now, nil},
				{int64(2), int64(42), "legacy_interview_stage", now, nil},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	roles, err := NewRoleResolver(db).Resolve(42)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if !roles.IsChairperson {
		t.Error("expected chairperson flag")
	}
	if !roles.Stages[StageFinancialReview] {
		t.Error("expected financial_review capability")
	}
	if !roles.CanDecide(StageFinalApproval) {
		t.Error("chairperson must be able to decide final approval")
	}
	if len(roles.Stages) != 2 {
		// financial_review plus the implicit final_approval; the stale
		// assignment row must be ignored.
		t.Errorf("expected 2 stages, got %v", roles.Stages)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestRoleResolverUnknownUser(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `ssc_committee_members`"),
			args:    []driver.Value{int64(13)},
			columns: []string{"member_id", "user_id", "is_chairperson", "appointed_at", "create_at", "update_at", "delete_at"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewRoleResolver(db).Resolve(13)
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}
