package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoronin/accountkeeper/internal/common"
	"github.com/avoronin/accountkeeper/internal/server/auth"
)

type createSessionRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	AvatarRef string `json:"avatar_ref"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	Account     any    `json:"account"`
}

// createSession signs the caller in, registering the account when the
// username is unknown, and issues an access token.
func (s *HTTPServer) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, err := s.accounts.SignInOrRegister(c.Request.Context(), req.Username, req.Password, req.AvatarRef)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidLoginFormat), errors.Is(err, common.ErrorInvalidPasswordFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, common.ErrorUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		default:
			s.logger.Error(c.Request.Context(), err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{AccessToken: token, Account: account.Public()})
}

// getSession returns the account behind the presented access token.
func (s *HTTPServer) getSession(c *gin.Context) {
	accountID := c.GetString(accountIDKey)

	account, err := s.accounts.GetByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, account.Public())
}

// deleteSession ends the session. Tokens are stateless, so the server has
// nothing to revoke; the client discards its token on 204.
func (s *HTTPServer) deleteSession(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
