package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scholarship-portal-api/models"
)

// GormDecisionStore persists stage decisions in MySQL. The single-active
// invariant rides on uq_stage_decision_active (application_id, stage,
// active): active rows store 1, superseded rows NULL, and MySQL unique
// indexes skip NULLs, so the database itself rejects the second of two
// racing inserts.
type GormDecisionStore struct {
	db *gorm.DB
}

// NewGormDecisionStore returns a store bound to the given database handle.
func NewGormDecisionStore(db *gorm.DB) *GormDecisionStore {
	return &GormDecisionStore{db: db}
}

// RecordDecision implements DecisionStore.
func (s *GormDecisionStore) RecordDecision(rec DecisionRecord) (*models.StageDecision, error) {
	if err := validateDecision(rec); err != nil {
		return nil, err
	}

	active := true
	decision := &models.StageDecision{
		ApplicationID: rec.ApplicationID,
		Stage:         string(rec.Stage),
		Outcome:       rec.Outcome,
		Payload:       rec.Payload,
		DecidedBy:     rec.ActorID,
		DecidedAt:     time.Now(),
		Active:        &active,
	}
	if notes := strings.TrimSpace(rec.Notes); notes != "" {
		decision.Notes = &notes
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if rec.Override {
			var prior models.StageDecision
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("application_id = ? AND stage = ? AND active = 1", rec.ApplicationID, string(rec.Stage)).
				First(&prior).Error
			switch {
			case err == nil:
				// Clear the prior row's active flag before inserting, or the
				// new row collides with uq_stage_decision_active. The
				// superseded_by backfill has to wait until the insert has
				// assigned the new id.
				now := time.Now()
				if err := tx.Model(&models.StageDecision{}).
					Where("decision_id = ?", prior.DecisionID).
					Updates(map[string]interface{}{
						"active":        nil,
						"superseded_at": now,
					}).Error; err != nil {
					return err
				}
				if err := tx.Create(decision).Error; err != nil {
					return err
				}
				return tx.Model(&models.StageDecision{}).
					Where("decision_id = ?", prior.DecisionID).
					Update("superseded_by", decision.DecisionID).Error
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Nothing to supersede; the override degrades to a plain write.
				return tx.Create(decision).Error
			default:
				return err
			}
		}

		if err := tx.Create(decision).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: %s for application %d", ErrStageAlreadyFinalized, rec.Stage, rec.ApplicationID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// ActiveDecision implements DecisionStore.
func (s *GormDecisionStore) ActiveDecision(applicationID int, stage Stage) (*models.StageDecision, error) {
	var decision models.StageDecision
	err := s.db.Where("application_id = ? AND stage = ? AND active = 1", applicationID, string(stage)).
		First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// ActiveDecisions implements DecisionStore.
func (s *GormDecisionStore) ActiveDecisions(applicationID int) (map[Stage]*models.StageDecision, error) {
	var rows []models.StageDecision
	if err := s.db.Where("application_id = ? AND active = 1", applicationID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[Stage]*models.StageDecision, len(rows))
	for i := range rows {
		out[Stage(rows[i].Stage)] = &rows[i]
	}
	return out, nil
}

// Decisions implements DecisionStore.
func (s *GormDecisionStore) Decisions(applicationID int) ([]models.StageDecision, error) {
	var rows []models.StageDecision
	err := s.db.Where("application_id = ?", applicationID).
		Order("decided_at DESC, decision_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL error 1062 when the dialector does not translate errors.
	return strings.Contains(err.Error(), "Duplicate entry")
}

// GormApplicationStore reads application rows and stamps the approved
// amount when the workflow reaches final approval.
type GormApplicationStore struct {
	db *gorm.DB
}

func NewGormApplicationStore(db *gorm.DB) *GormApplicationStore {
	return &GormApplicationStore{db: db}
}

// Application implements ApplicationStore.
func (s *GormApplicationStore) Application(applicationID int) (*models.Application, error) {
	var app models.Application
	err := s.db.Preload("Applicant").
		Where("application_id = ? AND delete_at IS NULL", applicationID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownApplication, applicationID)
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Applications implements ApplicationStore.
func (s *GormApplicationStore) Applications() ([]models.Application, error) {
	var apps []models.Application
	err := s.db.Preload("Applicant").
		Where("delete_at IS NULL").
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// SetApprovedAmount implements ApplicationStore.
func (s *GormApplicationStore) SetApprovedAmount(applicationID int, amount float64) error {
	now := time.Now()
	return s.db.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"approved_amount": amount,
			"update_at":       now,
		}).Error
}

// GormAppealStore persists the appeal lifecycle.
type GormAppealStore struct {
	db *gorm.DB
}

func NewGormAppealStore(db *gorm.DB) *GormAppealStore {
	return &GormAppealStore{db: db}
}

// CreateAppeal implements AppealStore.
func (s *GormAppealStore) CreateAppeal(appeal *models.Appeal) error {
	return s.db.Create(appeal).Error
}

// Appeal implements AppealStore.
func (s *GormAppealStore) Appeal(appealID int) (*models.Appeal, error) {
	var appeal models.Appeal
	err := s.db.Where("appeal_id = ?", appealID).First(&appeal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAppeal, appealID)
	}
	if err != nil {
		return nil, err
	}
	return &appeal, nil
}

// AppealsFor implements AppealStore.
func (s *GormAppealStore) AppealsFor(applicationID int) ([]models.Appeal, error) {
	var appeals []models.Appeal
	err := s.db.Where("application_id = ?", applicationID).
		Order("submitted_at DESC").
		Find(&appeals).Error
	if err != nil {
		return nil, err
	}
	return appeals, nil
}

// UpdateAppeal implements AppealStore.
func (s *GormAppealStore) UpdateAppeal(appeal *models.Appeal) error {
	return s.db.Save(appeal).Error
}
