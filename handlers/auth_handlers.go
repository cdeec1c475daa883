package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lensfolio/api/auth"
	"lensfolio/api/middleware"
	"lensfolio/api/models"
)

const (
	AnalyticsCookie = "analytics-token"
	AdminCookie     = "admin_session"
)

var cookieMaxAge = int(auth.TokenTTL.Seconds())

type Authenticator interface {
	Authenticate(email, password string) (*models.Identity, error)
	VerifyPassword(password string) bool
	IssueToken(identity *models.Identity, audience string) (string, error)
	Validate(token, audience string) *models.Identity
}

type AuthHandlers struct {
	Auth         Authenticator
	SecureCookie bool
	log          *zap.Logger
}

func NewAuthHandlers(a Authenticator, secureCookie bool, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{Auth: a, SecureCookie: secureCookie, log: log}
}

// Login checks the dashboard credentials. The token is returned in the body for
// bearer clients and also set as a strict same-site cookie for the browser.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	identity, err := h.Auth.Authenticate(req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Error("login failed unexpectedly", zap.Error(err))
		}
		h.log.Info("login rejected", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.IssueToken(identity, auth.AudienceAnalytics)
	if err != nil {
		h.log.Error("failed to issue analytics token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AnalyticsCookie, token, cookieMaxAge, "/", "", h.SecureCookie, true)

	h.log.Info("admin logged in", zap.String("email", identity.Email))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    identity,
		"token":   token,
	})
}

// Logout only clears the cookie; tokens are not tracked server side.
func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AnalyticsCookie, "", -1, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminLogin opens the content editor with the admin password alone.
func (h *AuthHandlers) AdminLogin(c *gin.Context) {
	var req models.AdminPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if !h.Auth.VerifyPassword(req.Password) {
		h.log.Info("admin password rejected", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := h.Auth.IssueToken(&models.Identity{Role: models.RoleAdmin}, auth.AudienceEditor)
	if err != nil {
		h.log.Error("failed to issue editor session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookie, token, cookieMaxAge, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandlers) AdminLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookie, "", -1, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminStatus reports whether the editor session cookie is still good.
func (h *AuthHandlers) AdminStatus(c *gin.Context) {
	token := middleware.CookieToken(c, AdminCookie)
	c.JSON(http.StatusOK, gin.H{"authenticated": h.Auth.Validate(token, auth.AudienceEditor) != nil})
}
