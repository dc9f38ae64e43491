package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aurangzeb-bilal/update-username/internal/application"
	"github.com/aurangzeb-bilal/update-username/internal/interface/middleware"
	"github.com/aurangzeb-bilal/update-username/pkg/response"
	"github.com/aurangzeb-bilal/update-username/pkg/validation"
)

type UpdateHandler struct {
	Service *application.Service
}

func NewUpdateHandler(svc *application.Service) *UpdateHandler {
	return &UpdateHandler{Service: svc}
}

// updateUsernameRequest accepts the rename payload. Email and preferred
// language are bound so clients sending them get a clean 200 instead of a
// binding error, but their values are never forwarded: the stored record
// keeps both regardless of what arrives here.
type updateUsernameRequest struct {
	TargetID          string `json:"target_id" binding:"required"`
	Username          string `json:"username" binding:"required,uname"`
	Password          string `json:"password" binding:"omitempty,pwdpolicy"`
	DisplayName       string `json:"display_name"`
	GivenName         string `json:"given_name"`
	Surname           string `json:"surname"`
	Email             string `json:"email"`
	PreferredLanguage string `json:"preferred_language"`
}

type userProfileResponse struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	DisplayName       string `json:"display_name,omitempty"`
	GivenName         string `json:"given_name,omitempty"`
	Surname           string `json:"surname,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
}

// UpdateUsername handles POST /api/username.
func (h *UpdateHandler) UpdateUsername(c *gin.Context) {
	var req updateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request payload", validation.ToDetails(err))
		return
	}

	token := c.GetString(middleware.CtxBearerTokenKey)

	result, err := h.Service.UpdateUsername(c.Request.Context(), token, application.UpdateUsernameInput{
		TargetID:    req.TargetID,
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		GivenName:   req.GivenName,
		Surname:     req.Surname,
	})
	if err != nil {
		status, msg := statusFor(err)
		response.Error[any](c, status, msg, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":       result.ID,
		"username": result.Username,
	}, "username updated", nil)
}

// GetUser handles GET /api/users/:id. Requires a valid bearer token; the
// password hash never leaves the server.
func (h *UpdateHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	token := c.GetString(middleware.CtxBearerTokenKey)
	u, err := h.Service.GetUser(c.Request.Context(), token, id)
	if err != nil {
		status, msg := statusFor(err)
		response.Error[any](c, status, msg, err.Error())
		return
	}

	response.Success(c, http.StatusOK, userProfileResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		GivenName:         u.GivenName,
		Surname:           u.Surname,
		PreferredLanguage: u.PreferredLanguage,
	}, "user fetched", nil)
}

// statusFor maps workflow error kinds onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized, "authorization failed"
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, application.ErrTargetNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, application.ErrConflict):
		return http.StatusConflict, "username already taken"
	default:
		return http.StatusInternalServerError, "update failed"
	}
}
