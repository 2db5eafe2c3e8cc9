package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONMap stores stage-specific decision payloads (e.g. recommended_amount
// for financial review) as a JSON column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported payload type %T", value)
	}
}

// Decision outcomes recorded for a stage.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
)

// StageDecision represents the stage_decisions table: one row per recorded
// committee decision. Rows are never updated or deleted; an override writes
// a new row and clears the Active flag on the superseded one.
//
// Active is 1 for the current decision and NULL once superseded. MySQL
// unique indexes ignore NULLs, so uq_stage_decision_active admits any number
// of superseded rows while the database rejects a second active decision for
// the same (application, stage) at write time.
type StageDecision struct {
	DecisionID    int        `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ApplicationID int        `gorm:"column:application_id;uniqueIndex:uq_stage_decision_active" json:"application_id"`
	Stage         string     `gorm:"column:stage;uniqueIndex:uq_stage_decision_active" json:"stage"`
	Outcome       string     `gorm:"column:outcome" json:"outcome"`
	Payload       JSONMap    `gorm:"column:payload;type:json" json:"payload,omitempty"`
	Notes         *string    `gorm:"column:notes" json:"notes,omitempty"`
	DecidedBy     int        `gorm:"column:decided_by" json:"decided_by"`
	DecidedAt     time.Time  `gorm:"column:decided_at" json:"decided_at"`
	Active        *bool      `gorm:"column:active;uniqueIndex:uq_stage_decision_active" json:"-"`
	SupersededAt  *time.Time `gorm:"column:superseded_at" json:"superseded_at,omitempty"`
	SupersededBy  *int       `gorm:"column:superseded_by" json:"superseded_by,omitempty"`

	Reviewer *User `gorm:"foreignKey:DecidedBy" json:"reviewer,omitempty"`
}

// TableName specifies the table name for StageDecision.
func (StageDecision) TableName() string {
	return "stage_decisions"
}

// IsActive reports whether this is the current decision for its stage.
func (d *StageDecision) IsActive() bool {
	return d.Active != nil && *d.Active
}

// IsSuperseded reports whether an override has replaced this decision.
func (d *StageDecision) IsSuperseded() bool {
	return !d.IsActive()
}

// AmountFromPayload extracts a numeric payload field such as
// recommended_amount. JSON decoding yields float64; callers building
// payloads in Go may use ints.
func AmountFromPayload(payload JSONMap, key string) (float64, error) {
	raw, ok := payload[key]
	if !ok {
		return 0, errors.New(key + " is missing")
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s is not numeric", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s is not numeric", key)
	}
}
