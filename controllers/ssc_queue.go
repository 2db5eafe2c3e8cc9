package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scholarship-portal-api/services"
)

// GetMyQueue lists the applications the authenticated committee member can
// act on right now.
func GetMyQueue(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := queueProjector.MyQueue(userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"queue":   entries,
		"total":   len(entries),
	})
}

// GetStageQueue lists the applications where the named stage is currently
// actionable.
func GetStageQueue(c *gin.Context) {
	stage, err := services.ParseStage(c.Param("stage"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := queueProjector.StageQueue(stage)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stage":   stage,
		"queue":   entries,
		"total":   len(entries),
	})
}

// GetApplicationHistory returns the full decision log and appeals for one
// application.
func GetApplicationHistory(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	history, err := queueProjector.History(applicationID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
	})
}
