package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/robfig/cron/v3"
)

// reconcileBatchSize caps how many stranded assets one run picks up.
const reconcileBatchSize = 50

// ReconcileFallback re-uploads assets that were stranded on the local
// fallback store to the primary store and flips them to live. Returns how
// many assets were promoted.
func (s *Service) ReconcileFallback(ctx context.Context) (int, error) {
	if s.store == nil || s.fallback == nil {
		return 0, nil
	}

	assets, err := s.logic.ListFallbackAssets(ctx, reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for i := range assets {
		asset := &assets[i]

		reader, err := s.fallback.GetObject(ctx, asset.Path)
		if err != nil {
			hlog.CtxWarnf(ctx, "reconcile: fallback payload missing for %s: %v", asset.FileID, err)
			continue
		}
		err = s.store.PutObject(ctx, asset.Path, reader, asset.ContentType, asset.SizeBytes)
		reader.Close()
		if err != nil {
			// Store still unreachable; the next run retries.
			return promoted, fmt.Errorf("put %s: %w", asset.FileID, err)
		}

		originURL, err := s.store.OriginURL(ctx, asset.Path, asset.FileName)
		if err != nil {
			return promoted, fmt.Errorf("origin url %s: %w", asset.FileID, err)
		}
		if err := s.logic.MarkAssetReconciled(ctx, asset.FileID, originURL); err != nil {
			return promoted, fmt.Errorf("mark reconciled %s: %w", asset.FileID, err)
		}

		s.variantCache.Remove(asset.OriginURL)
		_ = s.fallback.DeleteObject(ctx, asset.Path)
		promoted++
		hlog.CtxInfof(ctx, "reconcile: promoted %s to primary store", asset.FileID)
	}
	return promoted, nil
}

// Reconciler periodically runs fallback reconciliation on a cron schedule.
type Reconciler struct {
	svc  *Service
	cron *cron.Cron
}

// NewReconciler schedules ReconcileFallback with a standard 5-field cron
// spec (e.g. "*/5 * * * *").
func NewReconciler(svc *Service, schedule string) (*Reconciler, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		n, err := svc.ReconcileFallback(ctx)
		if err != nil {
			hlog.CtxErrorf(ctx, "reconcile run failed after %d promotions: %v", n, err)
			return
		}
		if n > 0 {
			hlog.CtxInfof(ctx, "reconcile run promoted %d assets", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reconciler: %w", err)
	}
	return &Reconciler{svc: svc, cron: c}, nil
}

// Start begins running scheduled reconciliation in the background.
func (r *Reconciler) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
}
