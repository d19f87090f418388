package handlers

import (
	"context"

	"github.com/serroba/fraglink/internal/analytics/store"
)

// StatsResponse reports aggregated analytics counters.
type StatsResponse struct {
	Body store.Stats
}

// StatsHandler exposes counters collected by an in-process analytics consumer.
type StatsHandler struct {
	snapshot func() store.Stats
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(snapshot func() store.Stats) *StatsHandler {
	return &StatsHandler{snapshot: snapshot}
}

func (h *StatsHandler) Stats(_ context.Context, _ *struct{}) (*StatsResponse, error) {
	return &StatsResponse{Body: h.snapshot()}, nil
}
