package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scholarship-portal-api/services"
)

var (
	workflowEngine *services.WorkflowEngine
	appealService  *services.AppealService
	queueProjector *services.QueueProjector
)

// InitWorkflow wires the review core onto the shared database handle. Must
// run once before the routes are served.
func InitWorkflow(db *gorm.DB) {
	roles := services.NewRoleResolver(db)
	decisions := services.NewGormDecisionStore(db)
	apps := services.NewGormApplicationStore(db)
	appeals := services.NewGormAppealStore(db)
	notifier := services.NewMailNotifier(db)

	workflowEngine = services.NewWorkflowEngine(roles, decisions, apps, notifier)
	appealService = services.NewAppealService(workflowEngine, appeals, roles)
	queueProjector = services.NewQueueProjector(roles, decisions, apps, appeals)
}

// respondWorkflowError maps the core's error taxonomy onto HTTP statuses.
// The error text is surfaced verbatim; the core owns the wording.
func respondWorkflowError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrUnknownUser):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrUnknownApplication), errors.Is(err, services.ErrUnknownAppeal):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidPayload):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrStageNotActionable),
		errors.Is(err, services.ErrStageAlreadyFinalized),
		errors.Is(err, services.ErrAppealAlreadyResolved),
		errors.Is(err, services.ErrAppealNotAllowed):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, false
	}
	userID, ok := value.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return 0, false
	}
	return userID, true
}
