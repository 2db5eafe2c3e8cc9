package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scholarship-portal-api/models"
)

// AppealService handles an applicant's request to reconsider a rejected
// application. An approved resolution re-injects an approved decision at the
// stage whose rejection made the application terminal, through the decision
// store's override path, and lets the engine recompute from there.
type AppealService struct {
	engine  *WorkflowEngine
	appeals AppealStore
	roles   Roles
}

func NewAppealService(engine *WorkflowEngine, appeals AppealStore, roles Roles) *AppealService {
	return &AppealService{engine: engine, appeals: appeals, roles: roles}
}

// FileAppeal opens an appeal for a rejected application. Only one appeal
// may be open at a time; a second reconsideration requires the first to be
// resolved.
func (s *AppealService) FileAppeal(applicationID int, reason string) (*models.Appeal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: an appeal requires a reason", ErrInvalidPayload)
	}

	status, err := s.engine.StatusOf(applicationID)
	if err != nil {
		return nil, err
	}
	if status != StatusRejected {
		return nil, fmt.Errorf("%w: status is %s, appeals require a rejected application", ErrAppealNotAllowed, status)
	}

	existing, err := s.appeals.AppealsFor(applicationID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].IsOpen() {
			return nil, fmt.Errorf("%w: appeal %s is still open", ErrAppealNotAllowed, existing[i].AppealNumber)
		}
	}

	now := time.Now()
	appeal := &models.Appeal{
		AppealNumber:  fmt.Sprintf("APL-%d-%s", now.Year(), strings.ToUpper(uuid.NewString()[:8])),
		ApplicationID: applicationID,
		Reason:        strings.TrimSpace(reason),
		Status:        models.AppealStatusPending,
		SubmittedAt:   now,
		CreateAt:      now,
	}
	if err := s.appeals.CreateAppeal(appeal); err != nil {
		return nil, err
	}
	return appeal, nil
}

// AssignAppeal moves a pending appeal to under_review with a named
// reviewer. Assignment is a chairperson action.
func (s *AppealService) AssignAppeal(appealID, reviewerID, actorID int) (*models.Appeal, error) {
	roles, err := s.roles.Resolve(actorID)
	if err != nil {
		if isNoPermission(err) {
			return nil, fmt.Errorf("%w: user %d holds no chairperson authority", ErrUnauthorized, actorID)
		}
		return nil, err
	}
	if !roles.IsChairperson {
		return nil, fmt.Errorf("%w: assigning an appeal requires the chairperson", ErrUnauthorized)
	}

	appeal, err := s.appeals.Appeal(appealID)
	if err != nil {
		return nil, err
	}
	if appeal.IsResolved() {
		return nil, fmt.Errorf("%w: %s", ErrAppealAlreadyResolved, appeal.AppealNumber)
	}

	now := time.Now()
	appeal.Status = models.AppealStatusUnderReview
	appeal.AssignedReviewerID = &reviewerID
	appeal.UpdateAt = &now
	if err := s.appeals.UpdateAppeal(appeal); err != nil {
		return nil, err
	}
	return appeal, nil
}

// ResolveAppeal closes the appeal. With an approved outcome the rejecting
// stage's decision is superseded by an approved one carrying the revised
// payload and the application re-enters evaluation; with a rejected outcome
// the application is left untouched. Either way the appeal ends resolved
// and cannot be resolved again.
//
// The chairperson or the assigned reviewer may resolve.
func (s *AppealService) ResolveAppeal(appealID int, outcome string, payload models.JSONMap, notes string, actorID int) (*models.Appeal, *WorkflowState, error) {
	if outcome != models.AppealDecisionApproved && outcome != models.AppealDecisionRejected {
		return nil, nil, fmt.Errorf("%w: appeal outcome must be 'approved' or 'rejected'", ErrInvalidPayload)
	}

	roles, err := s.roles.Resolve(actorID)
	if err != nil {
		if isNoPermission(err) {
			return nil, nil, fmt.Errorf("%w: user %d holds no committee role", ErrUnauthorized, actorID)
		}
		return nil, nil, err
	}

	appeal, err := s.appeals.Appeal(appealID)
	if err != nil {
		return nil, nil, err
	}
	if appeal.IsResolved() {
		return nil, nil, fmt.Errorf("%w: %s", ErrAppealAlreadyResolved, appeal.AppealNumber)
	}

	assigned := appeal.AssignedReviewerID != nil && *appeal.AssignedReviewerID == actorID
	if !roles.IsChairperson && !assigned {
		return nil, nil, fmt.Errorf("%w: only the chairperson or the assigned reviewer may resolve", ErrUnauthorized)
	}

	var state *WorkflowState
	if outcome == models.AppealDecisionApproved {
		appealNotes := notes
		if strings.TrimSpace(appealNotes) == "" {
			appealNotes = fmt.Sprintf("Approved on appeal %s", appeal.AppealNumber)
		}
		state, err = s.engine.reinstateOnAppeal(appeal.ApplicationID, payload, appealNotes, actorID)
		if err != nil {
			return nil, nil, err
		}
		if amount, amountErr := models.AmountFromPayload(payload, "recommended_amount"); amountErr == nil {
			appeal.RevisedAmount = &amount
		}
	} else {
		current, err := s.engine.State(appeal.ApplicationID)
		if err != nil {
			return nil, nil, err
		}
		state = current
	}

	now := time.Now()
	decision := outcome
	appeal.Status = models.AppealStatusResolved
	appeal.Decision = &decision
	appeal.ResolvedAt = &now
	appeal.ResolvedBy = &actorID
	appeal.UpdateAt = &now
	if err := s.appeals.UpdateAppeal(appeal); err != nil {
		return nil, nil, err
	}
	return appeal, state, nil
}
