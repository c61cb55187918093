package api

import (
	"alcyxob/exercise-tracker/internal/domain"
	"alcyxob/exercise-tracker/internal/metrics"
	"alcyxob/exercise-tracker/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// UnknownUserMessage is sent, with a 200 status, when an exercise route
// names a user id that does not exist. Existing clients rely on both.
const UnknownUserMessage = "Specified user id does not exist"

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	metrics         *metrics.Metrics
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, m *metrics.Metrics) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, metrics: m}
}

// --- DTOs for API (Data Transfer Objects) ---

// AddExerciseResponse echoes the user id as _id, not the exercise id.
type AddExerciseResponse struct {
	ID          string         `json:"_id"`
	Username    string         `json:"username"`
	Date        string         `json:"date"`
	Duration    domain.Minutes `json:"duration"`
	Description string         `json:"description"`
}

type LogEntryResponse struct {
	Description string         `json:"description"`
	Duration    domain.Minutes `json:"duration"`
	Date        string         `json:"date"`
}

type LogResponse struct {
	ID       string             `json:"_id"`
	Username string             `json:"username"`
	Count    int                `json:"count"`
	Log      []LogEntryResponse `json:"log"`
}

// MapLogToResponse converts a service.ExerciseLog to the LogResponse DTO.
func MapLogToResponse(l *service.ExerciseLog) LogResponse {
	entries := make([]LogEntryResponse, len(l.Entries))
	for i, e := range l.Entries {
		entries[i] = LogEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		}
	}
	return LogResponse{
		ID:       l.User.ID.Hex(),
		Username: l.User.Username,
		Count:    len(entries),
		Log:      entries,
	}
}

// --- Handler Methods ---

// AddExercise godoc
// @Summary Log an exercise for a user
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param _id path string true "User ID"
// @Success 200 {object} AddExerciseResponse "Also used for an unknown user, with an error field"
// @Failure 500 {object} gin.H "Malformed user id, invalid date or store failure"
// @Router /users/{_id}/exercises [post]
func (h *ExerciseHandler) AddExercise(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	rawDuration, durationSent := body.value("duration")
	in := service.AddExerciseInput{
		Description: body.text("description"),
		Duration:    domain.ParseMinutes(rawDuration, durationSent),
		Date:        body.text("date"),
	}

	logged, err := h.exerciseService.AddExercise(c.Request.Context(), c.Param("_id"), in)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.metrics.CounterUnknownUserCalls.Inc()
		}
		respondWithError(c, err)
		return
	}
	h.metrics.CounterExercisesLogged.Inc()

	c.JSON(http.StatusOK, AddExerciseResponse{
		ID:          logged.User.ID.Hex(),
		Username:    logged.User.Username,
		Date:        logged.DisplayDate,
		Duration:    logged.Exercise.Duration,
		Description: logged.Exercise.Description,
	})
}

// GetLog godoc
// @Summary Get the exercise log of a user
// @Produce json
// @Param _id path string true "User ID"
// @Param from query string false "Inclusive lower date bound"
// @Param to query string false "Inclusive upper date bound"
// @Param limit query string false "Maximum number of entries"
// @Success 200 {object} LogResponse
// @Failure 500 {object} gin.H
// @Router /users/{_id}/logs [get]
func (h *ExerciseHandler) GetLog(c *gin.Context) {
	params := service.LogParams{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Limit: c.Query("limit"),
	}

	exerciseLog, err := h.exerciseService.GetLog(c.Request.Context(), c.Param("_id"), params)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.metrics.CounterUnknownUserCalls.Inc()
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLogToResponse(exerciseLog))
}

// respondWithError maps service errors to responses. An unknown user is
// not treated as a failure; everything else is a 500 carrying the raw
// error text.
func respondWithError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusOK, gin.H{"error": UnknownUserMessage})
		return
	}

	log.WithError(err).
		WithField("request_id", c.GetString(ContextRequestIDKey)).
		Errorf("%s %s failed", c.Request.Method, c.FullPath())
	abortWithError(c, http.StatusInternalServerError, err.Error())
}
