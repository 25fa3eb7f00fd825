package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpoSendBatchCountsTickets(t *testing.T) {
	var received []expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"status": "ok"},
				{"status": "error", "message": "DeviceNotRegistered"},
				{"status": "ok"},
			},
		})
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, time.Second, discardLogger())
	tokens := []string{"ExponentPushToken[a]", "ExponentPushToken[b]", "ExponentPushToken[c]"}
	success, failed, err := c.SendBatch(context.Background(), tokens, "title", "body", map[string]string{"link": "/x"})

	require.NoError(t, err)
	assert.Equal(t, 2, success)
	assert.Equal(t, 1, failed)

	require.Len(t, received, 3)
	assert.Equal(t, "ExponentPushToken[a]", received[0].To)
	assert.Equal(t, "default", received[0].Sound)
	assert.Equal(t, "title", received[0].Title)
	assert.Equal(t, map[string]string{"link": "/x"}, received[0].Data)
}

func TestExpoSendBatchMissingTicketsCountAsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Relay answered with fewer tickets than messages.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"status": "ok"}},
		})
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, time.Second, discardLogger())
	success, failed, err := c.SendBatch(context.Background(),
		[]string{"ExponentPushToken[a]", "ExponentPushToken[b]"}, "t", "b", nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, failed)
}

func TestExpoSendBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewExpoClient(srv.URL, time.Second, discardLogger())
	_, _, err := c.SendBatch(context.Background(), []string{"ExponentPushToken[a]"}, "t", "b", nil)
	assert.Error(t, err)
}

func TestExpoSendBatchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewExpoClient(srv.URL, time.Second, discardLogger())
	_, _, err := c.SendBatch(context.Background(), []string{"ExponentPushToken[a]"}, "t", "b", nil)
	assert.Error(t, err)
}
