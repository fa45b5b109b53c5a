package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MyPlants/pkg/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, h echo.HandlerFunc, method, body, name, value string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(name)
	c.SetParamValues(value)
	require.NoError(t, h(c))
	return rec
}

func TestSettingsHandlerRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	h := NewSettingsHandler(svc, zap.NewNop())

	rec := serve(t, h.Update, http.MethodPost,
		`{"smtp":{"host":"smtp.example.com","port":587,"user":"me@example.com","password":"hunter2"}}`,
		"userId", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")

	rec = serve(t, h.Get, http.MethodGet, "", "userId", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")

	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.SMTP)
	assert.True(t, view.SMTP.HasPassword)
	assert.Equal(t, "smtp.example.com", view.SMTP.Host)
}

func TestSettingsHandlerBadRequests(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	h := NewSettingsHandler(svc, zap.NewNop())

	rec := serve(t, h.Update, http.MethodPost, `{"slug":"Not Valid"}`, "userId", "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h.Update, http.MethodPost, `{"smtp":{"port":70000}}`, "userId", "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h.Update, http.MethodPost, `{"slug":"garden"}`, "userId", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, h.Update, http.MethodPost, `{"slug":"garden"}`, "userId", "user-2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")
}

func TestPublicProfileHandlerNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	h := NewSettingsHandler(svc, zap.NewNop())

	rec := serve(t, h.PublicProfile, http.MethodGet, "", "slug", "nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
