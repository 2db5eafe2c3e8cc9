package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scholarship-portal-api/models"
	"scholarship-portal-api/services"
)

type StageDecisionRequest struct {
	Stage   string         `json:"stage" binding:"required"`
	Outcome string         `json:"outcome" binding:"required"`
	Payload models.JSONMap `json:"payload"`
	Notes   string         `json:"notes"`
}

// SubmitStageDecision records a committee member's decision for one review
// stage of an application.
func SubmitStageDecision(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req StageDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	stage, err := services.ParseStage(req.Stage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, err := workflowEngine.SubmitDecision(applicationID, stage, req.Outcome, req.Payload, req.Notes, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Decision recorded",
		"workflow": state,
	})
}

// OverrideStageDecision supersedes a prior stage decision. Chairperson
// only; the original decision stays in the audit trail.
func OverrideStageDecision(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req StageDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	stage, err := services.ParseStage(req.Stage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, err := workflowEngine.OverrideDecision(applicationID, stage, req.Outcome, req.Payload, req.Notes, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Decision overridden",
		"workflow": state,
	})
}
