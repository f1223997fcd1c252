package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/models"
	"laundromat-backend/services"
	"laundromat-backend/utils"
)

// CustomerController handles the /api/customers routes.
type CustomerController struct {
	service *services.LaundryService
	log     *logrus.Entry
}

func NewCustomerController(service *services.LaundryService, log *logrus.Entry) *CustomerController {
	return &CustomerController{service: service, log: log.WithField("component", "customers")}
}

// CreateCustomer registers a new customer
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input services.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithServiceError(c, cc.log, invalidInput(err), "Invalid input")
		return
	}

	customer, err := cc.service.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithServiceError(c, cc.log, err, "Failed to add customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.service.ListCustomers(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, cc.log, err, "Failed to fetch customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// SearchCustomers matches ?query= against names and phone numbers
func (cc *CustomerController) SearchCustomers(c *gin.Context) {
	customers, err := cc.service.SearchCustomers(c.Request.Context(), c.Query("query"))
	if err != nil {
		utils.RespondWithServiceError(c, cc.log, err, "Failed to search for customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// invalidInput turns a body that could not be decoded into a ValidationError.
func invalidInput(err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return models.NewValidationError("", "Invalid input: "+err.Error())
}
