package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/cache"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/config"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/notify"
)

type stubBridge struct{ calls int }

func (s *stubBridge) SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, error) {
	s.calls++
	return len(tokens), 0, nil
}

type stubNative struct{ calls int }

func (s *stubNative) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, error) {
	s.calls++
	return len(tokens) - 1, 1, nil
}

func newTestHandler(bridge notify.BridgeTransport, native notify.NativeTransport) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	disp := notify.NewDispatcher(bridge, native, logger)
	return New(nil, cache.New(false), &config.Config{}, nil, nil, disp, nil)
}

func TestSendPushRejectsEmptyTokens(t *testing.T) {
	bridge := &stubBridge{}
	native := &stubNative{}
	h := newTestHandler(bridge, native)

	body := `{"tokens": [], "title": "t", "body": "b"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/send-push", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.SendPush(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, bridge.calls, "no transport call for an empty token set")
	assert.Zero(t, native.calls)
}

func TestSendPushRejectsInvalidBody(t *testing.T) {
	h := newTestHandler(&stubBridge{}, &stubNative{})

	for name, body := range map[string]string{
		"not json":      "{",
		"missing title": `{"tokens":["fcm-1"],"body":"b"}`,
		"missing body":  `{"tokens":["fcm-1"],"title":"t"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/send-push", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.SendPush(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSendPushReturnsAggregateCounts(t *testing.T) {
	bridge := &stubBridge{}
	native := &stubNative{}
	h := newTestHandler(bridge, native)

	payload := map[string]interface{}{
		"tokens": []string{"ExponentPushToken[a]", "fcm-1", "fcm-2"},
		"title":  "t",
		"body":   "b",
		"data":   map[string]string{"link": "/home"},
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/send-push", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	h.SendPush(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success      bool `json:"success"`
		SuccessCount int  `json:"successCount"`
		FailureCount int  `json:"failureCount"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	// One relay token delivered; the native stub fails one of its two.
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailureCount)
	assert.Equal(t, 1, bridge.calls)
	assert.Equal(t, 1, native.calls)
}

func TestScheduleNotificationValidation(t *testing.T) {
	h := newTestHandler(&stubBridge{}, &stubNative{})

	for name, body := range map[string]string{
		"missing title":    `{"body":"b","scheduledTime":1700000000000,"target":{"type":"general"}}`,
		"missing body":     `{"title":"t","scheduledTime":1700000000000,"target":{"type":"general"}}`,
		"missing time":     `{"title":"t","body":"b","target":{"type":"general"}}`,
		"unknown target":   `{"title":"t","body":"b","scheduledTime":1,"target":{"type":"everyone"}}`,
		"group without id": `{"title":"t","body":"b","scheduledTime":1,"target":{"type":"group"}}`,
		"user without id":  `{"title":"t","body":"b","scheduledTime":1,"target":{"type":"user"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule-notification", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.ScheduleNotification(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
