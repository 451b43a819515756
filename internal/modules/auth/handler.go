package auth

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages user and token endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /users and /auth/token. loginGuard runs in front of
// the login endpoint (rate limiting) and may be nil.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth, optionalAuth, loginGuard gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optionalAuth, h.ListUsers)
		users.GET("/me", auth, h.Me)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/set_password", auth, h.SetPassword)
	}

	login := []gin.HandlerFunc{h.Login}
	if loginGuard != nil {
		login = append([]gin.HandlerFunc{loginGuard}, login...)
	}
	tokens := api.Group("/auth/token")
	{
		tokens.POST("/login", login...)
		tokens.POST("/logout", auth, h.Logout)
	}
}

// Register creates an account.
// @Summary		Register a user
// @Tags		Users
// @Param		request	body	RegisterRequest	true	"email, username, first_name, last_name, password"
// @Success		201	{object}	RegisteredUser
// @Failure		400	{object}	map[string]interface{} "Validation error or email/username taken"
// @Router		/users [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// Login exchanges email and password for a token.
// @Summary		Obtain a token
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"email, password"
// @Success		200	{object}	TokenResponse
// @Failure		400	{object}	map[string]interface{} "Wrong credentials"
// @Failure		429	{object}	map[string]interface{} "Too many attempts"
// @Router		/auth/token/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, TokenResponse{AuthToken: token})
}

// Logout is a no-op for stateless tokens; clients drop the token.
// @Summary		Log out
// @Tags		Auth
// @Security	BearerAuth
// @Success		204
// @Router		/auth/token/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Me returns the current user.
// @Summary		Current user
// @Tags		Users
// @Security	BearerAuth
// @Success		200	{object}	UserResponse
// @Router		/users/me [GET]
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := h.service.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// GetUser returns one user profile.
// @Summary		User profile
// @Tags		Users
// @Param		id	path	int64	true	"User ID"
// @Success		200	{object}	UserResponse
// @Failure		404	{object}	map[string]interface{}
// @Router		/users/{id} [GET]
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// ListUsers pages through all users.
// @Summary		List users
// @Tags		Users
// @Param		limit	query	int	false	"Page size"
// @Param		offset	query	int	false	"Offset"
// @Success		200	{object}	map[string]interface{}
// @Router		/users [GET]
func (h *Handler) ListUsers(c *gin.Context) {
	p, err := pagination.FromQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	page, err := h.service.ListUsers(c.Request.Context(), middleware.UserID(c), p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// SetPassword changes the current user's password.
// @Summary		Change password
// @Tags		Users
// @Security	BearerAuth
// @Param		request	body	SetPasswordRequest	true	"current_password, new_password"
// @Success		204
// @Failure		400	{object}	map[string]interface{}
// @Router		/users/set_password [POST]
func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errs, ok := validator.As(err); ok {
		response.ValidationError(c, errs)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_CREDENTIALS", msgBadLogin,
			map[string][]string{"non_field_errors": {msgBadLogin}})
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		logging.Error().Err(err).Str("path", c.FullPath()).Str("request_id", c.GetString("request_id")).Msg("users request failed")
		response.Internal(c)
	}
}
