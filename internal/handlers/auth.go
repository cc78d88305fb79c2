package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/winterhq/socialboard/internal/auth"
	"github.com/winterhq/socialboard/internal/util"
)

// Login authenticates an admin with email/password and returns a JWT
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "email and password are required")
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		// same message for unknown account and wrong password
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "invalid email or password")
			return
		}
		util.RespondInternalError(c, "login failed")
		return
	}

	util.RespondSuccess(c, resp)
}
