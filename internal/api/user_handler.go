package api

import (
	"alcyxob/exercise-tracker/internal/metrics"
	"alcyxob/exercise-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
	metrics     *metrics.Metrics
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{userService: userService, metrics: m}
}

// CreateUserResponse is returned for both new and already existing users.
type CreateUserResponse struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// CreateUser godoc
// @Summary Create a user or return the existing one with that username
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Success 200 {object} CreateUserResponse
// @Failure 500 {object} gin.H "Store failure, including a lost duplicate username race"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, created, err := h.userService.CreateUser(c.Request.Context(), body.text("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if created {
		h.metrics.CounterUsersCreated.Inc()
	}

	c.JSON(http.StatusOK, CreateUserResponse{Username: user.Username, ID: user.ID.Hex()})
}

// ListUsers godoc
// @Summary List every stored user record
// @Produce json
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
