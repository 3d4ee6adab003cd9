package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillip/sports-academy-go/logger"
	models "github.com/phillip/sports-academy-go/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingComputer struct {
	calls atomic.Int32
	err   error
}

func (c *countingComputer) ComputeSnapshot(ctx context.Context) (*models.Dashboard, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh context has no deadline")
	}
	return &models.Dashboard{}, c.err
}

func TestRequestLoggerAssignsID(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeTo(&buf, "info", "json")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	r := gin.New()
	r.Use(RequestLogger())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = c.GetString("request_id")
		c.Status(http.StatusTeapot)
	})
	r.GET("/static/app.js", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, seen)
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Empty(t, buf.String())
}

func TestRefreshDashboard(t *testing.T) {
	cases := []struct {
		name   string
		method string
		status int
		want   int32
	}{
		{"successful write", http.MethodPost, http.StatusCreated, 1},
		{"successful delete", http.MethodDelete, http.StatusOK, 1},
		{"read", http.MethodGet, http.StatusOK, 0},
		{"rejected write", http.MethodPatch, http.StatusBadRequest, 0},
		{"failed write", http.MethodPost, http.StatusInternalServerError, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dash := &countingComputer{}
			var wg sync.WaitGroup
			wg.Add(int(tc.want))

			r := gin.New()
			r.Use(RefreshDashboard(dash, wg.Done))
			r.Handle(tc.method, "/thing", func(c *gin.Context) { c.Status(tc.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, "/thing", nil))
			assert.Equal(t, tc.status, w.Code)

			waitOrFail(t, &wg)
			assert.Equal(t, tc.want, dash.calls.Load())
		})
	}
}

func TestRefreshDashboardFailureDoesNotAffectResponse(t *testing.T) {
	dash := &countingComputer{err: errors.New("store down")}
	var wg sync.WaitGroup
	wg.Add(1)

	r := gin.New()
	r.Use(RefreshDashboard(dash, wg.Done))
	r.POST("/thing", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/thing", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	waitOrFail(t, &wg)
	assert.Equal(t, int32(1), dash.calls.Load())
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}
}
