package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scholarship-portal-api/models"
)

type FileAppealRequest struct {
	ApplicationID int    `json:"application_id" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
}

// FileAppeal opens an appeal for a rejected application.
func FileAppeal(c *gin.Context) {
	var req FileAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	appeal, err := appealService.FileAppeal(req.ApplicationID, req.Reason)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"appeal":  appeal,
	})
}

type AssignAppealRequest struct {
	ReviewerID int `json:"reviewer_id" binding:"required"`
}

// AssignAppeal moves a pending appeal to under_review with a reviewer.
func AssignAppeal(c *gin.Context) {
	appealID, err := strconv.Atoi(c.Param("id"))
	if err != nil || appealID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appeal ID"})
		return
	}

	var req AssignAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	appeal, err := appealService.AssignAppeal(appealID, req.ReviewerID, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"appeal":  appeal,
	})
}

type ResolveAppealRequest struct {
	Outcome string         `json:"outcome" binding:"required"`
	Payload models.JSONMap `json:"payload"`
	Notes   string         `json:"notes"`
}

// ResolveAppeal records the committee's decision on an appeal. An approved
// outcome re-injects an approved decision at the rejecting stage and the
// application re-enters evaluation.
func ResolveAppeal(c *gin.Context) {
	appealID, err := strconv.Atoi(c.Param("id"))
	if err != nil || appealID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appeal ID"})
		return
	}

	var req ResolveAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	appeal, state, err := appealService.ResolveAppeal(appealID, req.Outcome, req.Payload, req.Notes, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"appeal":   appeal,
		"workflow": state,
	})
}
