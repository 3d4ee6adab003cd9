package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/sports-academy-go/logger"
	models "github.com/phillip/sports-academy-go/models"
)

const snapshotTimeout = 10 * time.Second

// SnapshotComputer appends a fresh dashboard snapshot.
type SnapshotComputer interface {
	ComputeSnapshot(ctx context.Context) (*models.Dashboard, error)
}

// RefreshDashboard recomputes the dashboard after every successful write
// passing through it. The recompute runs after the response and its
// failures are only logged. done, when non-nil, is called after each run.
func RefreshDashboard(dash SnapshotComputer, done func()) gin.HandlerFunc {
	log := logger.WithService("dashboard")
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}

		reqID := c.GetString("request_id")
		base := context.WithoutCancel(c.Request.Context())
		go func() {
			if done != nil {
				defer done()
			}
			ctx, cancel := context.WithTimeout(base, snapshotTimeout)
			defer cancel()
			if _, err := dash.ComputeSnapshot(ctx); err != nil {
				log.WarnContext(ctx, "dashboard refresh failed", "request_id", reqID, "error", err)
			}
		}()
	}
}
