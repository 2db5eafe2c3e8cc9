package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
)

type CreateApplicationRequest struct {
	CategoryID      *int    `json:"category_id"`
	SubcategoryID   *int    `json:"subcategory_id"`
	RequestedAmount float64 `json:"requested_amount" binding:"required,gt=0"`
}

// CreateApplication registers a submitted scholarship application. Review
// begins immediately: every parallel stage is actionable from this moment.
func CreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	app := models.Application{
		ApplicationNumber: fmt.Sprintf("APP-%d-%s", now.Year(), strings.ToUpper(uuid.NewString()[:8])),
		UserID:            userID,
		CategoryID:        req.CategoryID,
		SubcategoryID:     req.SubcategoryID,
		RequestedAmount:   req.RequestedAmount,
		SubmittedAt:       now,
		CreateAt:          now,
	}

	if err := config.DB.Create(&app).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"application": app,
	})
}

// GetApplication returns one application together with its derived review
// state.
func GetApplication(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var app models.Application
	if err := config.DB.Preload("Applicant").
		Preload("Category").
		Preload("Subcategory").
		Where("application_id = ? AND delete_at IS NULL", applicationID).
		First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	state, err := workflowEngine.State(applicationID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"application": app,
		"workflow":    state,
	})
}

// GetApplicationStatus returns only the derived aggregate status and the
// currently actionable stages.
func GetApplicationStatus(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	state, err := workflowEngine.State(applicationID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  state.Status,
		"stages":  state.ActionableStages,
	})
}

// ListApplications lists applications, optionally filtered by derived
// status. The filter recomputes per application, so the listing can never
// drift from the decision log.
func ListApplications(c *gin.Context) {
	statusFilter := strings.ToLower(strings.TrimSpace(c.Query("status")))

	var apps []models.Application
	if err := config.DB.Preload("Applicant").
		Preload("Category").
		Where("delete_at IS NULL").
		Order("submitted_at DESC").
		Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	type row struct {
		models.Application
		Status string `json:"status"`
	}
	rows := make([]row, 0, len(apps))
	for _, app := range apps {
		state, err := workflowEngine.State(app.ApplicationID)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		if statusFilter != "" && statusFilter != string(state.Status) {
			continue
		}
		rows = append(rows, row{Application: app, Status: string(state.Status)})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": rows,
		"total":        len(rows),
	})
}
