package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"scholarship-portal-api/models"
)

func TestGormDecisionStoreMapsDuplicateKeyToStageAlreadyFinalized(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `stage_decisions`"),
			err:     errors.New("Error 1062 (23000): Duplicate entry '9-document_verification-1' for key 'uq_stage_decision_active'"),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormDecisionStore(db)
	_, err := store.RecordDecision(DecisionRecord{
		ApplicationID: 9,
		Stage:         StageDocumentVerification,
		Outcome:       models.OutcomeApproved,
		ActorID:       docsReviewerID,
	})
	if !errors.Is(err, ErrStageAlreadyFinalized) {
		t.Fatalf("expected ErrStageAlreadyFinalized, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestGormDecisionStoreInsertsActiveRow(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `stage_decisions`"),
			result:  scriptedResult{lastInsertID: 17, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormDecisionStore(db)
	decision, err := store.RecordDecision(DecisionRecord{
		ApplicationID: 9,
		Stage:         StageFinancialReview,
		Outcome:       models.OutcomeApproved,
		Payload:       models.JSONMap{"recommended_amount": 12000.0},
		ActorID:       financeReviewerID,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if decision.DecisionID != 17 {
		t.Errorf("expected id from insert, got %d", decision.DecisionID)
	}
	if !decision.IsActive() {
		t.Error("new decision must be active")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestGormDecisionStoreOverrideSupersedesPriorBeforeInsert(t *testing.T) {
	// The prior active row must lose its active flag before the replacement
	// row is inserted. Inserting first trips uq_stage_decision_active. The
	// scripted steps are order-strict, so a reordered sequence fails here.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `stage_decisions` .*FOR UPDATE"),
			columns: []string{"decision_id", "application_id", "stage", "outcome", "decided_by", "active"},
			rows: [][]driver.Value{
				{int64(41), int64(9), "document_verification", "rejected", int64(docsReviewerID), int64(1)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `stage_decisions` SET .*`superseded_at`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `stage_decisions`"),
			result:  scriptedResult{lastInsertID: 42, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `stage_decisions` SET .*`superseded_by`"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormDecisionStore(db)
	decision, err := store.RecordDecision(DecisionRecord{
		ApplicationID: 9,
		Stage:         StageDocumentVerification,
		Outcome:       models.OutcomeApproved,
		Notes:         "documents re-checked on appeal",
		ActorID:       chairpersonID,
		Override:      true,
	})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if decision.DecisionID != 42 {
		t.Errorf("expected id from insert, got %d", decision.DecisionID)
	}
	if !decision.IsActive() {
		t.Error("replacement decision must be active")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestGormDecisionStoreRejectsInvalidPayloadBeforeSQL(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewGormDecisionStore(db)
	_, err := store.RecordDecision(DecisionRecord{
		ApplicationID: 9,
		Stage:         StageFinancialReview,
		Outcome:       models.OutcomeApproved,
		ActorID:       financeReviewerID,
	})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}

	// No statement may reach the database on a validation failure.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected queries were issued: %v", err)
	}
}
