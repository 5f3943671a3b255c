package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimen6931/BlockLocker/internal/api/response"
	"github.com/Kimen6931/BlockLocker/internal/model"
)

func TestPrintProtectionText(t *testing.T) {
	var buf bytes.Buffer
	owner := "Notch"

	NewOutput("text", &buf).Print(response.Protection{
		ID:            "chest-1",
		Owner:         &owner,
		PendingLookup: true,
		Signs: []response.Sign{{
			Location: model.Location{World: "world", X: 1, Y: 64, Z: 2},
			Type:     "private",
			Profiles: []response.Profile{
				{Kind: "player", DisplayName: "Notch", ID: "069a79f4-44e9-4726-a5be-fca90e38aaf5", Resolved: true},
				{Kind: "player", DisplayName: "jeb_"},
				{Kind: "everyone", DisplayName: "[Everyone]", Resolved: true},
			},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Protection: chest-1")
	assert.Contains(t, out, "Owner: Notch")
	assert.Contains(t, out, "Pending lookup: yes")
	assert.Contains(t, out, "Sign world:1,64,2 [private]")
	assert.Contains(t, out, "  - Notch (069a79f4-44e9-4726-a5be-fca90e38aaf5)")
	assert.Contains(t, out, "  - jeb_ (unresolved)")
	assert.Contains(t, out, "  - [Everyone]\n")
}

func TestPrintResolverStatsText(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(response.ResolverStats{Queued: 2, Batches: 5, FailedBatches: 1})
	assert.Contains(t, buf.String(), "Queued: 2")
	assert.Contains(t, buf.String(), "Batches: 5 (1 failed)")
	assert.Contains(t, buf.String(), "Last drain: never")

	buf.Reset()
	drained := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	NewOutput("text", &buf).Print(response.ResolverStats{LastDrain: &drained})
	assert.Contains(t, buf.String(), "Last drain: 2024-01-01 12:00:00Z")
}

func TestPrintFlushText(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(response.FlushResponse{})
	assert.Equal(t, "Queue was empty\n", buf.String())

	buf.Reset()
	NewOutput("text", &buf).Print(response.FlushResponse{Protections: 2, Names: 3, Resolved: 2})
	assert.Equal(t, "Flushed 2 protections: 2 of 3 names resolved\n", buf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).Print(response.Health{Status: "ok", MainPending: 3})

	var got response.Health
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, response.Health{Status: "ok", MainPending: 3}, got)
}
