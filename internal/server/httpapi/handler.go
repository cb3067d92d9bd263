package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

type credentialsRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (s *HTTPServer) handleSignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "username and password are required",
		})
		return
	}

	account, token, err := s.auth.SignUp(c.Request.Context(), identityKey(c), req.Username, req.Password)
	if err != nil {
		s.writeAuthError(c, err, s.signUpWindow)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"id":       account.ID,
		"username": account.Username,
	})
}

func (s *HTTPServer) handleSignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "username and password are required",
		})
		return
	}

	account, token, err := s.auth.SignIn(c.Request.Context(), identityKey(c), req.Username, req.Password)
	if err != nil {
		s.writeAuthError(c, err, s.signInWindow)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"id":       account.ID,
		"username": account.Username,
	})
}

// handleSignOut clears the client-held credential. There is no server-side
// session state to revoke: a previously issued token stays valid until it
// expires.
func (s *HTTPServer) handleSignOut(c *gin.Context) {
	s.clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleMe(c *gin.Context) {
	account := c.MustGet(ContextAccountKey).(*models.Account)
	c.JSON(http.StatusOK, gin.H{
		"id":       account.ID,
		"username": account.Username,
	})
}

// writeAuthError translates service errors into the small set of
// user-facing outcomes. Messages stay generic: nothing beyond the taxonomy
// below may leak to the client.
func (s *HTTPServer) writeAuthError(c *gin.Context, err error, window time.Duration) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "malformed username or password",
		})
	case errors.Is(err, common.ErrorThrottled):
		// Retry-After carries only the coarse window length, not the
		// precise reset instant.
		c.Header("Retry-After", strconv.FormatInt(int64(window.Round(time.Second).Seconds()), 10))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":    "TOO_MANY_ATTEMPTS",
			"message": "too many attempts, try again later",
		})
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "invalid username or password",
		})
	case errors.Is(err, common.ErrorAlreadyExists):
		// Usernames are not secrets, so naming the conflict is acceptable.
		c.JSON(http.StatusConflict, gin.H{
			"code":    "USERNAME_TAKEN",
			"message": "username is already taken",
		})
	case errors.Is(err, common.ErrorUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "SERVICE_UNAVAILABLE",
			"message": "service temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "internal error",
		})
	}
}

// setSessionCookie attaches the session token with protective attributes:
// not script-readable, transport-encrypted outside development, and a Lax
// cross-site default. MaxAge mirrors the token's own expiry.
func (s *HTTPServer) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, int(s.sessionValidity.Seconds()), "/", "", s.secureCookies, true)
}

func (s *HTTPServer) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.secureCookies, true)
}

// identityKey buckets the caller for rate limiting. The limiter substitutes
// a shared fallback bucket when the address cannot be determined.
func identityKey(c *gin.Context) string {
	return c.ClientIP()
}
