package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agro-group/contact-api/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func healthRequest(handler *handlers.HealthHandler) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/api/healthcheck", handler.Healthcheck)

	req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthcheck_NoStore(t *testing.T) {
	w := healthRequest(handlers.NewHealthHandler(nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestHealthcheck_StoreHealthy(t *testing.T) {
	ping := func(context.Context) error { return nil }
	w := healthRequest(handlers.NewHealthHandler(ping))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthcheck_StoreUnreachable(t *testing.T) {
	ping := func(context.Context) error { return errors.New("connection refused") }
	w := healthRequest(handlers.NewHealthHandler(ping))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","reason":"counter store unreachable"}`, w.Body.String())
}
