package handlers

import (
	"net/http"

	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Get statistics about background jobs (active, completed, failed, queue length, last runs)
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	status := h.jobService.GetStatus()
	c.JSON(http.StatusOK, status)
}

// Sweep starts a proof retention sweep
// @Summary Trigger retention sweep
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /jobs/sweep [post]
func (h *JobHandler) Sweep(c *gin.Context) {
	if !h.jobService.TriggerSweep() {
		c.JSON(http.StatusConflict, gin.H{"error": "A sweep is already running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Sweep started"})
}
