package worker

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/satiscrm/crm-api/internal/entity"
)

// StaleLeadWorker periodically flags open leads without movement for two
// weeks so they surface in follow-up views.
type StaleLeadWorker struct {
	leads        entity.LeadRepositoryInterface
	logger       *log.Logger
	staleWindow  time.Duration
	tickInterval time.Duration
}

func NewStaleLeadWorker(leads entity.LeadRepositoryInterface, logger *log.Logger) *StaleLeadWorker {
	return &StaleLeadWorker{
		leads:        leads,
		logger:       logger,
		staleWindow:  14 * 24 * time.Hour,
		tickInterval: 1 * time.Hour,
	}
}

func (w *StaleLeadWorker) Start(ctx context.Context) {
	w.logger.Info("stale lead worker started", "window", w.staleWindow)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stale lead worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleLeadWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleWindow)

	count, err := w.leads.MarkStale(ctx, cutoff)
	if err != nil {
		w.logger.Error("stale lead sweep failed", "err", err)
		return
	}
	if count > 0 {
		w.logger.Info("leads marked stale", "count", count)
	}
}
