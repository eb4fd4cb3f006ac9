package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks a dependency. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports service health.
type HealthHandler struct {
	db      Pinger
	appEnv  string
	envVars func() map[string]string
}

// NewHealthHandler creates a health handler. envVars reports Set or Missing
// for each required variable.
func NewHealthHandler(db Pinger, appEnv string, envVars func() map[string]string) *HealthHandler {
	return &HealthHandler{db: db, appEnv: appEnv, envVars: envVars}
}

// HealthResponse is the health payload. It never contains configuration values.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	AppEnv      string            `json:"appEnv"`
	Database    string            `json:"database"`
	Environment map[string]string `json:"environment"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	res := HealthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC(),
		AppEnv:      h.appEnv,
		Database:    "up",
		Environment: h.envVars(),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		res.Status = "Error"
		res.Database = "down"
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}
