package events

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/testutil"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{"single line", "signs-resolved", `{"a":1}`, "event: signs-resolved\ndata: {\"a\":1}\n\n"},
		{"multi line", "x", "one\ntwo", "event: x\ndata: one\ndata: two\n\n"},
		{"carriage returns", "x", "one\r\ntwo", "event: x\ndata: one\ndata: two\n\n"},
		{"trailing newline", "x", "one\n", "event: x\ndata: one\n\n"},
		{"empty", "ping", "", "event: ping\ndata: \n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatMessage(tt.eventName, tt.data)))
		})
	}
}

func TestPublishReachesRegisteredClients(t *testing.T) {
	hub := startHub(t)
	first, second := NewClient("a"), NewClient("b")
	require.True(t, hub.Register(context.Background(), first))
	require.True(t, hub.Register(context.Background(), second))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Publish(model.Event{Type: model.EventBatchFailed, Payload: model.BatchFailedPayload{Names: 3}})

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.True(t, strings.HasPrefix(string(msg), "event: batch-failed\n"))
			assert.Contains(t, string(msg), `"names":3`)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestUnregisterClosesClient(t *testing.T) {
	hub := startHub(t)
	client := NewClient("a")
	require.True(t, hub.Register(context.Background(), client))

	hub.Unregister(client)

	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestRegisterAfterStopFails(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hub.Run(ctx))

	assert.False(t, hub.Register(context.Background(), NewClient("a")))
	// Must not block once the hub is gone
	hub.Unregister(NewClient("a"))
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	for range 300 {
		hub.Publish(model.Event{Type: model.EventBatchFailed})
	}
}

func TestServeSSE(t *testing.T) {
	hub := startHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	_, _ = reader.ReadString('\n')
	_, _ = reader.ReadString('\n')

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(model.Event{
		Type:         model.EventSignsResolved,
		ProtectionID: "world:1:64:1",
		Payload:      model.SignsResolvedPayload{SignsSaved: 1, Resolved: []string{"Notch"}},
	})

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: signs-resolved\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)

	var event struct {
		Type         string `json:"type"`
		ProtectionID string `json:"protection_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &event))
	assert.Equal(t, "signs-resolved", event.Type)
	assert.Equal(t, "world:1:64:1", event.ProtectionID)
}
