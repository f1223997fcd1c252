// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/services"
	"laundromat-backend/utils"
)

const defaultReminderLimit = 50

// ReminderController exposes the pick-up reminder log. reminders is nil
// when SMS is not configured.
type ReminderController struct {
	reminders *services.ReminderService
	log       *logrus.Entry
}

func NewReminderController(reminders *services.ReminderService, log *logrus.Entry) *ReminderController {
	return &ReminderController{reminders: reminders, log: log.WithField("component", "reminders")}
}

// GetReminders lists recent reminder attempts, newest first
func (rc *ReminderController) GetReminders(c *gin.Context) {
	if rc.reminders == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Pick-up reminders are not configured")
		return
	}

	limit := defaultReminderLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	logs, err := rc.reminders.RecentReminders(c.Request.Context(), limit)
	if err != nil {
		utils.RespondWithServiceError(c, rc.log, err, "Failed to fetch reminders")
		return
	}

	c.JSON(http.StatusOK, logs)
}

// RunReminders sends due pick-up reminders now instead of waiting for the schedule
func (rc *ReminderController) RunReminders(c *gin.Context) {
	if rc.reminders == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Pick-up reminders are not configured")
		return
	}

	sent, err := rc.reminders.SendPickupReminders(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, rc.log, err, "Failed to send reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
