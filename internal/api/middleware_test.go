package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireCronSecret(t *testing.T) {
	invoked := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invoked = true
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireCronSecret("s3cret")(next)

	t.Run("missing header", func(t *testing.T) {
		invoked = false
		w := httptest.NewRecorder()
		gate.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cron", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, invoked, "processor must not run on auth failure")
	})

	t.Run("wrong bearer", func(t *testing.T) {
		invoked = false
		req := httptest.NewRequest(http.MethodGet, "/cron", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		w := httptest.NewRecorder()
		gate.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, invoked)
	})

	t.Run("bearer prefix required", func(t *testing.T) {
		invoked = false
		req := httptest.NewRequest(http.MethodGet, "/cron", nil)
		req.Header.Set("Authorization", "s3cret")
		w := httptest.NewRecorder()
		gate.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, invoked)
	})

	t.Run("correct secret passes through", func(t *testing.T) {
		invoked = false
		req := httptest.NewRequest(http.MethodGet, "/cron", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()
		gate.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, invoked)
	})
}

func TestRequireCronSecretEmptySecretRejectsAll(t *testing.T) {
	gate := RequireCronSecret("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a configured secret")
	}))

	req := httptest.NewRequest(http.MethodGet, "/cron", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
