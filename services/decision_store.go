package services

import (
	"fmt"
	"strings"

	"scholarship-portal-api/models"
)

// DecisionRecord carries everything needed to persist one stage decision.
type DecisionRecord struct {
	ApplicationID int
	Stage         Stage
	Outcome       string
	Payload       models.JSONMap
	Notes         string
	ActorID       int

	// Override supersedes an existing active decision instead of failing
	// with ErrStageAlreadyFinalized. The workflow engine sets it only for
	// chairperson overrides and approved appeal resolutions.
	Override bool
}

// DecisionStore is the source of truth for which stages of an application
// have been completed and how. Implementations must enforce at most one
// active decision per (application, stage) as an atomic check-and-write,
// since two reviewers holding the same capability can submit concurrently.
type DecisionStore interface {
	// RecordDecision appends a decision. Without Override it fails with
	// ErrStageAlreadyFinalized when an active decision already exists; with
	// Override it marks the prior decision superseded and writes the new
	// one in the same transaction. Superseded rows are retained for audit.
	RecordDecision(rec DecisionRecord) (*models.StageDecision, error)

	// ActiveDecision returns the current decision for the stage, or nil
	// when the stage is undecided.
	ActiveDecision(applicationID int, stage Stage) (*models.StageDecision, error)

	// ActiveDecisions returns the current decision per stage.
	ActiveDecisions(applicationID int) (map[Stage]*models.StageDecision, error)

	// Decisions returns every decision ever recorded for the application,
	// superseded ones included, newest first.
	Decisions(applicationID int) ([]models.StageDecision, error)
}

// ApplicationStore gives the workflow read access to application rows plus
// the single write the engine performs: stamping the approved amount when an
// application reaches final approval.
type ApplicationStore interface {
	Application(applicationID int) (*models.Application, error)
	Applications() ([]models.Application, error)
	SetApprovedAmount(applicationID int, amount float64) error
}

// AppealStore persists the appeal lifecycle.
type AppealStore interface {
	CreateAppeal(appeal *models.Appeal) error
	Appeal(appealID int) (*models.Appeal, error)
	AppealsFor(applicationID int) ([]models.Appeal, error)
	UpdateAppeal(appeal *models.Appeal) error
}

// validateDecision checks outcome and the stage-specific payload fields
// before anything is written.
func validateDecision(rec DecisionRecord) error {
	if rec.Outcome != models.OutcomeApproved && rec.Outcome != models.OutcomeRejected {
		return fmt.Errorf("%w: outcome must be 'approved' or 'rejected'", ErrInvalidPayload)
	}
	if !ValidStage(rec.Stage) {
		return fmt.Errorf("%w: unknown stage '%s'", ErrInvalidPayload, rec.Stage)
	}

	// The committee records a reason with every rejection; appeals quote it.
	if rec.Outcome == models.OutcomeRejected && strings.TrimSpace(rec.Notes) == "" {
		return fmt.Errorf("%w: a rejection requires notes explaining the decision", ErrInvalidPayload)
	}

	if rec.Outcome != models.OutcomeApproved {
		return nil
	}

	switch rec.Stage {
	case StageFinancialReview:
		amount, err := models.AmountFromPayload(rec.Payload, "recommended_amount")
		if err != nil {
			return fmt.Errorf("%w: financial review approval requires recommended_amount (%v)", ErrInvalidPayload, err)
		}
		if amount <= 0 {
			return fmt.Errorf("%w: recommended_amount must be positive", ErrInvalidPayload)
		}
	case StageFinalApproval:
		amount, err := models.AmountFromPayload(rec.Payload, "approved_amount")
		if err != nil {
			return fmt.Errorf("%w: final approval requires approved_amount (%v)", ErrInvalidPayload, err)
		}
		if amount <= 0 {
			return fmt.Errorf("%w: approved_amount must be positive", ErrInvalidPayload)
		}
	}
	return nil
}
