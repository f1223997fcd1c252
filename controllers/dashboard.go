package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundromat-backend/utils"
)

// GetDashboardOverview serves the landing page totals
func (lc *LaundryController) GetDashboardOverview(c *gin.Context) {
	overview, err := lc.service.Overview(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, lc.log, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, overview)
}
