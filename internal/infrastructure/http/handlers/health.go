package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health, the liveness check.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Check pings one dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// MongoCheck runs the ping command against db.
func MongoCheck(db *mongo.Database) Check {
	return Check{
		Name: "mongodb",
		Ping: func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
	}
}

func RedisCheck(rdb redis.UniversalClient) Check {
	return Check{
		Name: "redis",
		Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
}

// ReadinessHandler handles GET /health/ready. Every check must pass for the
// service to report ready.
type ReadinessHandler struct {
	checks []Check
}

func NewReadinessHandler(checks ...Check) *ReadinessHandler {
	return &ReadinessHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[check.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[check.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
