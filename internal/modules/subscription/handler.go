package subscription

import (
	"net/http"
	"strconv"

	"foodgram/internal/membership"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const msgUserNotFound = "User not found"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	users := api.Group("/users", auth)
	{
		users.GET("/subscriptions", h.List)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

// List returns the authors the current user follows
//
// @Summary My subscriptions
// @Tags Subscriptions
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} map[string]interface{}
// @Router /users/subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	p, err := pagination.FromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), middleware.UserID(c), p, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Subscribe follows an author
//
// @Summary Subscribe to an author
// @Tags Subscriptions
// @Security BearerAuth
// @Param id path int64 true "Author ID"
// @Param recipes_limit query int false "Recipes in the response"
// @Success 201 {object} AuthorResponse
// @Failure 400 {object} map[string]interface{} "Already subscribed or self-subscription"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, msgUserNotFound)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		writeError(c, err)
		return
	}

	author, err := h.service.Subscribe(c.Request.Context(), middleware.UserID(c), authorID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

// Unsubscribe stops following an author
//
// @Summary Unsubscribe from an author
// @Tags Subscriptions
// @Security BearerAuth
// @Param id path int64 true "Author ID"
// @Success 204
// @Failure 400 {object} map[string]interface{} "Not subscribed"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, msgUserNotFound)
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), middleware.UserID(c), authorID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func recipesLimit(c *gin.Context) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, validator.Errors{"recipes_limit": {"A non-negative integer is required."}}
	}
	return n, nil
}

func writeError(c *gin.Context, err error) {
	if errs, ok := validator.As(err); ok {
		response.ValidationError(c, errs)
		return
	}
	membership.WriteError(c, err, msgUserNotFound)
}
