package services

import (
	"errors"
	"fmt"

	"scholarship-portal-api/models"
)

// ApplicationStatus is the aggregate review status of an application. It is
// always computed from the active stage decisions, never stored, so it can
// never disagree with the decision log.
type ApplicationStatus string

const (
	StatusInReview ApplicationStatus = "in_review"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// IsTerminal reports whether the status ends the review.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// WorkflowState is the engine's full view of one application: its aggregate
// status and, while in review, the stages that may currently be decided.
type WorkflowState struct {
	Status           ApplicationStatus `json:"status"`
	ActionableStages []Stage           `json:"actionable_stages"`
}

// WorkflowEngine validates and records stage decisions for Scholarship
// Screening Committee review. The three parallel stages may be decided in
// any order by different reviewers; final approval only becomes actionable
// once all of them hold an approved decision.
type WorkflowEngine struct {
	roles     Roles
	decisions DecisionStore
	apps      ApplicationStore
	notifier  Notifier
}

func NewWorkflowEngine(roles Roles, decisions DecisionStore, apps ApplicationStore, notifier Notifier) *WorkflowEngine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &WorkflowEngine{roles: roles, decisions: decisions, apps: apps, notifier: notifier}
}

// statusOf derives the aggregate status from the active decision per stage.
//
// Rules, in order:
//  1. any parallel stage rejected            -> rejected
//  2. all parallel approved + final approved -> approved
//  3. all parallel approved + final rejected -> rejected
//  4. otherwise                              -> in_review
func statusOf(active map[Stage]*models.StageDecision) ApplicationStatus {
	allParallelApproved := true
	for _, stage := range OrderedStages() {
		if !IsParallel(stage) {
			continue
		}
		decision := active[stage]
		if decision == nil {
			allParallelApproved = false
			continue
		}
		if decision.Outcome == models.OutcomeRejected {
			return StatusRejected
		}
	}

	if allParallelApproved {
		if final := active[StageFinalApproval]; final != nil {
			if final.Outcome == models.OutcomeApproved {
				return StatusApproved
			}
			return StatusRejected
		}
	}
	return StatusInReview
}

// actionableStages returns the stages a reviewer could decide right now:
// every undecided parallel stage, plus final approval once its
// prerequisites all hold an approved decision. Empty for terminal statuses.
func actionableStages(active map[Stage]*models.StageDecision) []Stage {
	if statusOf(active).IsTerminal() {
		return nil
	}

	var out []Stage
	for _, stage := range OrderedStages() {
		if IsParallel(stage) {
			if active[stage] == nil {
				out = append(out, stage)
			}
			continue
		}
		ready := true
		for _, prereq := range PrerequisitesFor(stage) {
			decision := active[prereq]
			if decision == nil || decision.Outcome != models.OutcomeApproved {
				ready = false
				break
			}
		}
		if ready && active[stage] == nil {
			out = append(out, stage)
		}
	}
	return out
}

// State computes the application's aggregate status and actionable stages.
func (e *WorkflowEngine) State(applicationID int) (*WorkflowState, error) {
	if _, err := e.apps.Application(applicationID); err != nil {
		return nil, err
	}
	active, err := e.decisions.ActiveDecisions(applicationID)
	if err != nil {
		return nil, err
	}
	return &WorkflowState{
		Status:           statusOf(active),
		ActionableStages: actionableStages(active),
	}, nil
}

// StatusOf returns only the aggregate status.
func (e *WorkflowEngine) StatusOf(applicationID int) (ApplicationStatus, error) {
	state, err := e.State(applicationID)
	if err != nil {
		return "", err
	}
	return state.Status, nil
}

// SubmitDecision records a reviewer's decision for one stage.
//
// The order of checks matters for the caller-facing error: authorization
// first, then actionability, then the store's atomic single-active guard.
// Nothing is written until every check has passed, so a failed call leaves
// all prior state untouched.
func (e *WorkflowEngine) SubmitDecision(applicationID int, stage Stage, outcome string, payload models.JSONMap, notes string, actorID int) (*WorkflowState, error) {
	roles, err := e.roles.Resolve(actorID)
	if err != nil {
		if isNoPermission(err) {
			return nil, fmt.Errorf("%w: user %d holds no stage capability", ErrUnauthorized, actorID)
		}
		return nil, err
	}
	if !roles.CanDecide(stage) {
		return nil, fmt.Errorf("%w: user %d cannot decide %s", ErrUnauthorized, actorID, stage)
	}

	app, err := e.apps.Application(applicationID)
	if err != nil {
		return nil, err
	}

	active, err := e.decisions.ActiveDecisions(applicationID)
	if err != nil {
		return nil, err
	}
	if statusOf(active).IsTerminal() {
		return nil, fmt.Errorf("%w: application %s is already %s", ErrStageNotActionable, app.ApplicationNumber, statusOf(active))
	}
	if !stageIn(actionableStages(active), stage) {
		return nil, fmt.Errorf("%w: %s prerequisites are incomplete or the stage is decided", ErrStageNotActionable, stage)
	}

	decision, err := e.decisions.RecordDecision(DecisionRecord{
		ApplicationID: applicationID,
		Stage:         stage,
		Outcome:       outcome,
		Payload:       payload,
		Notes:         notes,
		ActorID:       actorID,
	})
	if err != nil {
		return nil, err
	}

	return e.afterWrite(app, decision)
}

// OverrideDecision lets the chairperson supersede any stage decision. The
// prior decision stays in the audit trail marked superseded; the aggregate
// status is recomputed from the new set of active decisions, which can pull
// a rejected application back into review.
func (e *WorkflowEngine) OverrideDecision(applicationID int, stage Stage, outcome string, payload models.JSONMap, notes string, chairpersonID int) (*WorkflowState, error) {
	roles, err := e.roles.Resolve(chairpersonID)
	if err != nil {
		if isNoPermission(err) {
			return nil, fmt.Errorf("%w: user %d holds no chairperson authority", ErrUnauthorized, chairpersonID)
		}
		return nil, err
	}
	if !roles.IsChairperson {
		return nil, fmt.Errorf("%w: override requires the chairperson", ErrUnauthorized)
	}

	app, err := e.apps.Application(applicationID)
	if err != nil {
		return nil, err
	}

	decision, err := e.decisions.RecordDecision(DecisionRecord{
		ApplicationID: applicationID,
		Stage:         stage,
		Outcome:       outcome,
		Payload:       payload,
		Notes:         notes,
		ActorID:       chairpersonID,
		Override:      true,
	})
	if err != nil {
		return nil, err
	}

	return e.afterWrite(app, decision)
}

// reinstateOnAppeal supersedes the active rejection that made the
// application terminal with an approved decision recorded in the resolver's
// name. When more than one parallel stage holds a rejection the earliest
// stage in registry order is targeted; the remaining rejections keep the
// application terminal and need their own appeal or a chairperson override.
//
// Authorization is the caller's concern: appeal resolution is granted to
// the assigned reviewer as well as the chairperson, so this skips the chair
// check that OverrideDecision applies.
func (e *WorkflowEngine) reinstateOnAppeal(applicationID int, payload models.JSONMap, notes string, actorID int) (*WorkflowState, error) {
	app, err := e.apps.Application(applicationID)
	if err != nil {
		return nil, err
	}

	active, err := e.decisions.ActiveDecisions(applicationID)
	if err != nil {
		return nil, err
	}
	var stage Stage
	for _, candidate := range OrderedStages() {
		if decision := active[candidate]; decision != nil && decision.Outcome == models.OutcomeRejected {
			stage = candidate
			break
		}
	}
	if stage == "" {
		return nil, fmt.Errorf("%w: no rejecting stage on record", ErrAppealNotAllowed)
	}

	decision, err := e.decisions.RecordDecision(DecisionRecord{
		ApplicationID: applicationID,
		Stage:         stage,
		Outcome:       models.OutcomeApproved,
		Payload:       payload,
		Notes:         notes,
		ActorID:       actorID,
		Override:      true,
	})
	if err != nil {
		return nil, err
	}

	return e.afterWrite(app, decision)
}

// afterWrite recomputes the aggregate status, stamps the approved amount on
// a newly approved application and emits notification events. Notification
// delivery is best-effort and never fails the transition.
func (e *WorkflowEngine) afterWrite(app *models.Application, decision *models.StageDecision) (*WorkflowState, error) {
	active, err := e.decisions.ActiveDecisions(app.ApplicationID)
	if err != nil {
		return nil, err
	}
	state := &WorkflowState{
		Status:           statusOf(active),
		ActionableStages: actionableStages(active),
	}

	if state.Status == StatusApproved {
		if final := active[StageFinalApproval]; final != nil {
			if amount, err := models.AmountFromPayload(final.Payload, "approved_amount"); err == nil {
				if err := e.apps.SetApprovedAmount(app.ApplicationID, amount); err != nil {
					return nil, err
				}
			}
		}
	}

	e.notifier.StageDecided(app, decision)
	if state.Status.IsTerminal() {
		e.notifier.ApplicationTerminal(app, string(state.Status))
	}
	return state, nil
}

func stageIn(stages []Stage, stage Stage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

func isNoPermission(err error) bool {
	return errors.Is(err, ErrUnknownUser)
}
