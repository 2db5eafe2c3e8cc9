package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
)

// Notifier receives workflow events after each successful transition.
// Delivery is the implementation's responsibility; the engine never waits
// on it and a delivery failure never fails the transition.
type Notifier interface {
	StageDecided(app *models.Application, decision *models.StageDecision)
	ApplicationTerminal(app *models.Application, status string)
}

// NopNotifier discards events. Used by tests.
type NopNotifier struct{}

func (NopNotifier) StageDecided(*models.Application, *models.StageDecision) {}
func (NopNotifier) ApplicationTerminal(*models.Application, string)         {}

// MailNotifier writes an in-app notification row and sends the applicant an
// email through the shared SMTP dialer. Failures are logged and swallowed;
// mail is best-effort.
type MailNotifier struct {
	db *gorm.DB
}

func NewMailNotifier(db *gorm.DB) *MailNotifier {
	return &MailNotifier{db: db}
}

// StageDecided implements Notifier.
func (n *MailNotifier) StageDecided(app *models.Application, decision *models.StageDecision) {
	stage := Stage(decision.Stage)
	title := fmt.Sprintf("%s decided for %s", StageLabel(stage), app.ApplicationNumber)
	message := fmt.Sprintf("The committee recorded '%s' for %s on application %s.",
		decision.Outcome, StageLabel(stage), app.ApplicationNumber)
	n.persist(app, title, message, "info")
}

// ApplicationTerminal implements Notifier.
func (n *MailNotifier) ApplicationTerminal(app *models.Application, status string) {
	noteType := "success"
	if status == string(StatusRejected) {
		noteType = "warning"
	}
	title := fmt.Sprintf("Application %s %s", app.ApplicationNumber, status)
	message := fmt.Sprintf("Your scholarship application %s has been %s.", app.ApplicationNumber, status)
	n.persist(app, title, message, noteType)

	if app.Applicant.Email != "" {
		html := fmt.Sprintf("<p>Dear %s,</p><p>%s</p><p>You can review the decision trail in the scholarship portal.</p>",
			app.Applicant.FullName(), message)
		if err := config.SendMail([]string{app.Applicant.Email}, title, html); err != nil {
			log.Printf("Warning: failed to send decision mail for %s: %v", app.ApplicationNumber, err)
		}
	}
}

func (n *MailNotifier) persist(app *models.Application, title, message, noteType string) {
	appID := uint(app.ApplicationID)
	notification := models.Notification{
		UserID:               uint(app.UserID),
		Title:                title,
		Message:              message,
		Type:                 noteType,
		RelatedApplicationID: &appID,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to record notification for %s: %v", app.ApplicationNumber, err)
	}
}
