package directory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/testutil"
)

// fakeDirectory serves a name → id table and records request bodies
type fakeDirectory struct {
	mu       sync.Mutex
	players  map[string]profileResponse
	requests [][]string
}

func newFakeDirectory(players ...profileResponse) *fakeDirectory {
	d := &fakeDirectory{players: make(map[string]profileResponse)}
	for _, p := range players {
		d.players[p.Name] = p
	}
	return d
}

func (d *fakeDirectory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var names []string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.requests = append(d.requests, names)

	found := []profileResponse{}
	for _, name := range names {
		for canonical, p := range d.players {
			if strings.EqualFold(canonical, name) {
				found = append(found, p)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(found)
}

func newTestClient(t *testing.T, handler http.Handler, batchSize int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{URL: server.URL, Timeout: time.Second, BatchSize: batchSize}, server.Client(), testutil.NopLogger())
}

func TestResolveNames(t *testing.T) {
	dir := newFakeDirectory(
		profileResponse{ID: "069a79f444e94726a5befca90e38aaf5", Name: "Notch"},
		profileResponse{ID: "853c80ef3c3749fdaa49938b674adae6", Name: "Jeb"},
	)
	client := newTestClient(t, dir, 10)

	got, err := client.ResolveNames(t.Context(), []string{"notch", "jeb", "nobody"})
	require.NoError(t, err)

	assert.Equal(t, map[string]model.NameAndID{
		"notch": {Name: "Notch", ID: uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")},
		"jeb":   {Name: "Jeb", ID: uuid.MustParse("853c80ef-3c37-49fd-aa49-938b674adae6")},
	}, got)
}

func TestResolveNamesChunksRequests(t *testing.T) {
	dir := newFakeDirectory()
	client := newTestClient(t, dir, 2)

	_, err := client.ResolveNames(t.Context(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, dir.requests)
}

func TestResolveNamesEmptyInputSkipsRequest(t *testing.T) {
	dir := newFakeDirectory()
	client := newTestClient(t, dir, 10)

	got, err := client.ResolveNames(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, dir.requests)
}

func TestResolveNamesNoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), 10)

	got, err := client.ResolveNames(t.Context(), []string{"nobody"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveNamesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, 10)

			_, err := client.ResolveNames(t.Context(), []string{"notch"})
			assert.ErrorIs(t, err, model.ErrLookupFailed)
		})
	}
}

func TestResolveNamesSkipsEntryWithBadID(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "xyz", "name": "Broken"}, {"id": "069a79f444e94726a5befca90e38aaf5", "name": "Notch"}]`))
	}))
	t.Cleanup(server.Close)
	client := New(Config{URL: server.URL, Timeout: time.Second}, server.Client(), logger)

	got, err := client.ResolveNames(t.Context(), []string{"broken", "notch"})
	require.NoError(t, err)

	assert.Equal(t, map[string]model.NameAndID{
		"notch": {Name: "Notch", ID: uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")},
	}, got)
	assert.True(t, logs.Contains("skipping directory entry with bad id"))
}

func TestResolveNamesFailsWholeCallOnLaterChunk(t *testing.T) {
	dir := newFakeDirectory(profileResponse{ID: "069a79f444e94726a5befca90e38aaf5", Name: "a"})
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		dir.ServeHTTP(w, r)
	}), 1)

	got, err := client.ResolveNames(t.Context(), []string{"a", "b"})
	assert.ErrorIs(t, err, model.ErrLookupFailed)
	assert.Nil(t, got)
}

func TestResolveNamesUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Config{URL: url, Timeout: time.Second}, nil, testutil.NopLogger())
	_, err := client.ResolveNames(t.Context(), []string{"notch"})
	assert.ErrorIs(t, err, model.ErrLookupFailed)
}
