package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"scholarship-portal-api/models"
)

// MemoryDecisionStore keeps the decision log in memory behind a mutex. It
// enforces the same single-active invariant as the MySQL store and backs the
// workflow tests and local development mode.
type MemoryDecisionStore struct {
	mu     sync.Mutex
	nextID int
	rows   []*models.StageDecision
}

func NewMemoryDecisionStore() *MemoryDecisionStore {
	return &MemoryDecisionStore{nextID: 1}
}

// RecordDecision implements DecisionStore. The check-and-write runs under
// one lock acquisition, so two racing submissions serialize here exactly as
// they would on the database's unique index.
func (s *MemoryDecisionStore) RecordDecision(rec DecisionRecord) (*models.StageDecision, error) {
	if err := validateDecision(rec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prior *models.StageDecision
	for _, row := range s.rows {
		if row.ApplicationID == rec.ApplicationID && row.Stage == string(rec.Stage) && row.IsActive() {
			prior = row
			break
		}
	}
	if prior != nil && !rec.Override {
		return nil, fmt.Errorf("%w: %s for application %d", ErrStageAlreadyFinalized, rec.Stage, rec.ApplicationID)
	}

	active := true
	decision := &models.StageDecision{
		DecisionID:    s.nextID,
		ApplicationID: rec.ApplicationID,
		Stage:         string(rec.Stage),
		Outcome:       rec.Outcome,
		Payload:       rec.Payload,
		DecidedBy:     rec.ActorID,
		DecidedAt:     time.Now(),
		Active:        &active,
	}
	if rec.Notes != "" {
		notes := rec.Notes
		decision.Notes = &notes
	}
	s.nextID++

	if prior != nil {
		now := time.Now()
		prior.Active = nil
		prior.SupersededAt = &now
		prior.SupersededBy = &decision.DecisionID
	}
	s.rows = append(s.rows, decision)

	copied := *decision
	return &copied, nil
}

// ActiveDecision implements DecisionStore.
func (s *MemoryDecisionStore) ActiveDecision(applicationID int, stage Stage) (*models.StageDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ApplicationID == applicationID && row.Stage == string(stage) && row.IsActive() {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

// ActiveDecisions implements DecisionStore.
func (s *MemoryDecisionStore) ActiveDecisions(applicationID int) (map[Stage]*models.StageDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Stage]*models.StageDecision)
	for _, row := range s.rows {
		if row.ApplicationID == applicationID && row.IsActive() {
			copied := *row
			out[Stage(row.Stage)] = &copied
		}
	}
	return out, nil
}

// Decisions implements DecisionStore.
func (s *MemoryDecisionStore) Decisions(applicationID int) ([]models.StageDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StageDecision
	for _, row := range s.rows {
		if row.ApplicationID == applicationID {
			out = append(out, *row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DecidedAt.Equal(out[j].DecidedAt) {
			return out[i].DecisionID > out[j].DecisionID
		}
		return out[i].DecidedAt.After(out[j].DecidedAt)
	})
	return out, nil
}

// MemoryApplicationStore is the in-memory counterpart of
// GormApplicationStore.
type MemoryApplicationStore struct {
	mu     sync.Mutex
	nextID int
	apps   map[int]*models.Application
}

func NewMemoryApplicationStore() *MemoryApplicationStore {
	return &MemoryApplicationStore{nextID: 1, apps: make(map[int]*models.Application)}
}

// Add registers an application and assigns it an id.
func (s *MemoryApplicationStore) Add(app models.Application) *models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ApplicationID == 0 {
		app.ApplicationID = s.nextID
	}
	if app.ApplicationID >= s.nextID {
		s.nextID = app.ApplicationID + 1
	}
	stored := app
	s.apps[stored.ApplicationID] = &stored
	copied := stored
	return &copied
}

// Application implements ApplicationStore.
func (s *MemoryApplicationStore) Application(applicationID int) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[applicationID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownApplication, applicationID)
	}
	copied := *app
	return &copied, nil
}

// Applications implements ApplicationStore.
func (s *MemoryApplicationStore) Applications() ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return out, nil
}

// SetApprovedAmount implements ApplicationStore.
func (s *MemoryApplicationStore) SetApprovedAmount(applicationID int, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[applicationID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownApplication, applicationID)
	}
	app.ApprovedAmount = &amount
	return nil
}

// MemoryAppealStore is the in-memory counterpart of GormAppealStore.
type MemoryAppealStore struct {
	mu      sync.Mutex
	nextID  int
	appeals map[int]*models.Appeal
}

func NewMemoryAppealStore() *MemoryAppealStore {
	return &MemoryAppealStore{nextID: 1, appeals: make(map[int]*models.Appeal)}
}

// CreateAppeal implements AppealStore.
func (s *MemoryAppealStore) CreateAppeal(appeal *models.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appeal.AppealID == 0 {
		appeal.AppealID = s.nextID
	}
	if appeal.AppealID >= s.nextID {
		s.nextID = appeal.AppealID + 1
	}
	copied := *appeal
	s.appeals[copied.AppealID] = &copied
	return nil
}

// Appeal implements AppealStore.
func (s *MemoryAppealStore) Appeal(appealID int) (*models.Appeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appeal, ok := s.appeals[appealID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAppeal, appealID)
	}
	copied := *appeal
	return &copied, nil
}

// AppealsFor implements AppealStore.
func (s *MemoryAppealStore) AppealsFor(applicationID int) ([]models.Appeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appeal
	for _, appeal := range s.appeals {
		if appeal.ApplicationID == applicationID {
			out = append(out, *appeal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// UpdateAppeal implements AppealStore.
func (s *MemoryAppealStore) UpdateAppeal(appeal *models.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appeals[appeal.AppealID]; !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownAppeal, appeal.AppealID)
	}
	copied := *appeal
	s.appeals[appeal.AppealID] = &copied
	return nil
}
