package handler

import (
	"context"
	"net/http"

	"github.com/Kimen6931/BlockLocker/internal/api/response"
	"github.com/Kimen6931/BlockLocker/internal/services/resolver"
)

// Resolver is the name resolver used by ResolverHandler
type Resolver interface {
	Stats() resolver.Stats
	ProcessQueue(ctx context.Context) (resolver.BatchResult, error)
}

// ResolverHandler handles resolver status endpoints
type ResolverHandler struct {
	resolver Resolver
}

// NewResolverHandler creates a new resolver handler
func NewResolverHandler(r Resolver) *ResolverHandler {
	return &ResolverHandler{resolver: r}
}

// Status handles GET /api/v1/resolver
func (h *ResolverHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ResolverStatsFromModel(h.resolver.Stats()))
}

// Flush handles POST /api/v1/resolver/flush. The drain runs on the request
// goroutine, never on the main loop. A caller that goes away does not cancel
// the lookup.
func (h *ResolverHandler) Flush(w http.ResponseWriter, r *http.Request) {
	result, err := h.resolver.ProcessQueue(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FlushResponseFromModel(result))
}
