package services

import (
	"scholarship-portal-api/models"
)

// QueueEntry pairs an application with the stages a given view cares about.
type QueueEntry struct {
	Application models.Application `json:"application"`
	Stages      []Stage            `json:"actionable_stages"`
}

// ApplicationHistory is the full audit view of one application: every
// decision ever recorded (superseded ones included) plus its appeals.
type ApplicationHistory struct {
	Application models.Application     `json:"application"`
	Status      ApplicationStatus      `json:"status"`
	Decisions   []models.StageDecision `json:"decisions"`
	Appeals     []models.Appeal        `json:"appeals"`
}

// QueueProjector derives reviewer worklists from the decision log. It holds
// no state of its own; every call recomputes from the stores, so a queue is
// always consistent with whatever has been committed.
type QueueProjector struct {
	roles     Roles
	decisions DecisionStore
	apps      ApplicationStore
	appeals   AppealStore
}

func NewQueueProjector(roles Roles, decisions DecisionStore, apps ApplicationStore, appeals AppealStore) *QueueProjector {
	return &QueueProjector{roles: roles, decisions: decisions, apps: apps, appeals: appeals}
}

// MyQueue lists the applications whose actionable stages intersect the
// user's assigned stages. Terminal applications never appear.
func (p *QueueProjector) MyQueue(userID int) ([]QueueEntry, error) {
	roles, err := p.roles.Resolve(userID)
	if err != nil {
		return nil, err
	}

	apps, err := p.apps.Applications()
	if err != nil {
		return nil, err
	}

	var out []QueueEntry
	for _, app := range apps {
		active, err := p.decisions.ActiveDecisions(app.ApplicationID)
		if err != nil {
			return nil, err
		}
		var mine []Stage
		for _, stage := range actionableStages(active) {
			if roles.CanDecide(stage) {
				mine = append(mine, stage)
			}
		}
		if len(mine) > 0 {
			out = append(out, QueueEntry{Application: app, Stages: mine})
		}
	}
	return out, nil
}

// StageQueue lists the applications where the stage is currently
// actionable.
func (p *QueueProjector) StageQueue(stage Stage) ([]QueueEntry, error) {
	apps, err := p.apps.Applications()
	if err != nil {
		return nil, err
	}

	var out []QueueEntry
	for _, app := range apps {
		active, err := p.decisions.ActiveDecisions(app.ApplicationID)
		if err != nil {
			return nil, err
		}
		if stageIn(actionableStages(active), stage) {
			out = append(out, QueueEntry{Application: app, Stages: []Stage{stage}})
		}
	}
	return out, nil
}

// History returns the ordered decision log and appeals for display.
func (p *QueueProjector) History(applicationID int) (*ApplicationHistory, error) {
	app, err := p.apps.Application(applicationID)
	if err != nil {
		return nil, err
	}
	decisions, err := p.decisions.Decisions(applicationID)
	if err != nil {
		return nil, err
	}
	appeals, err := p.appeals.AppealsFor(applicationID)
	if err != nil {
		return nil, err
	}
	active, err := p.decisions.ActiveDecisions(applicationID)
	if err != nil {
		return nil, err
	}
	return &ApplicationHistory{
		Application: *app,
		Status:      statusOf(active),
		Decisions:   decisions,
		Appeals:     appeals,
	}, nil
}
