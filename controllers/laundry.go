package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/services"
	"laundromat-backend/utils"
)

// LaundryController handles laundry order routes.
type LaundryController struct {
	service *services.LaundryService
	log     *logrus.Entry
}

func NewLaundryController(service *services.LaundryService, log *logrus.Entry) *LaundryController {
	return &LaundryController{service: service, log: log.WithField("component", "laundries")}
}

// GetLaundries lists every order with its customer's name and phone
func (lc *LaundryController) GetLaundries(c *gin.Context) {
	orders, err := lc.service.ListLaundryOrders(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, lc.log, err, "Failed to fetch laundries")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CreateLaundry records an order for :customerId
func (lc *LaundryController) CreateLaundry(c *gin.Context) {
	var input services.LaundryOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithServiceError(c, lc.log, invalidInput(err), "Invalid input")
		return
	}

	order, err := lc.service.CreateLaundryOrder(c.Request.Context(), c.Param("customerId"), input)
	if err != nil {
		utils.RespondWithServiceError(c, lc.log, err, "Failed to add laundry")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetCustomerLaundry returns the order history of :customerId
func (lc *LaundryController) GetCustomerLaundry(c *gin.Context) {
	orders, err := lc.service.ListLaundryOrdersForCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		utils.RespondWithServiceError(c, lc.log, err, "Failed to fetch laundry history")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ExportLaundries downloads the (optionally filtered) order list as CSV
func (lc *LaundryController) ExportLaundries(c *gin.Context) {
	var buf bytes.Buffer
	if err := lc.service.ExportLaundryOrdersCSV(c.Request.Context(), &buf, c.Query("query")); err != nil {
		utils.RespondWithServiceError(c, lc.log, err, "Failed to export laundries")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="laundries.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
