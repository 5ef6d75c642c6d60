package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func healthRequest(t *testing.T, pingErr error) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	expect := mock.ExpectPing()
	if pingErr != nil {
		expect.WillReturnError(pingErr)
	}

	r := gin.New()
	r.GET("/health", NewHealthHandler(sqlx.NewDb(raw, "postgres")).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHealth_Healthy(t *testing.T) {
	w, resp := healthRequest(t, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["database"])
	assert.Equal(t, "healthy", resp.Checks["connection_pool"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	w, resp := healthRequest(t, errors.New("connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "unhealthy", resp.Checks["database"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}
