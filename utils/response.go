package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/models"
)

// RespondWithError aborts the request with {"error": message}.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithServiceError maps the error taxonomy onto HTTP statuses.
// Unexpected errors are logged and answered with fallback.
func RespondWithServiceError(c *gin.Context, log *logrus.Entry, err error, fallback string) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		authErr       *models.AuthError
	)
	switch {
	case errors.As(err, &validationErr):
		RespondWithError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		RespondWithError(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &authErr):
		RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
	default:
		_ = c.Error(err)
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(fallback)
		RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
