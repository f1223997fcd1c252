package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/metrics"
	"laundromat-backend/models"
	"laundromat-backend/utils"
)

type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AuthController serves login, logout and the session probe.
type AuthController struct {
	sessions *utils.SessionManager
	metrics  *metrics.Metrics
	log      *logrus.Entry
}

func NewAuthController(sessions *utils.SessionManager, m *metrics.Metrics, log *logrus.Entry) *AuthController {
	return &AuthController{
		sessions: sessions,
		metrics:  m,
		log:      log.WithField("component", "auth"),
	}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"login": "failed", "message": "Invalid input"})
		return
	}

	log := ac.log.WithField("user", input.Username)
	log.Info("attempting login")

	token, session, err := ac.sessions.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		ac.metrics.LoginAttempt(false)
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("incorrect credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"login": "failed", "message": "Incorrect password"})
			return
		}
		log.WithError(err).Error("failed to start session")
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}
	ac.metrics.LoginAttempt(true)

	utils.SetSessionCookie(c, ac.sessions, token, ac.sessions.TTL())
	log.Info("login successful")
	c.JSON(http.StatusOK, gin.H{"login": "successful", "user": session.User})
}

// Logout ends the caller's session if there is one. It never fails for
// anonymous callers.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.sessions.Logout(utils.TokenFromRequest(c, ac.sessions.CookieName()))
	utils.SetSessionCookie(c, ac.sessions, "", 0)
	c.JSON(http.StatusOK, gin.H{"logout": "successful"})
}

func (ac *AuthController) Protected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the protected route!",
		"user":    c.GetString(utils.ContextUser),
	})
}
