package analytics

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/siteweaverhq/siteweaver/internal/pkg/cache"
	"github.com/siteweaverhq/siteweaver/internal/pkg/pricing"
)

const (
	purchasesKey = "checkout:counters:purchases"
	revenueKey   = "checkout:counters:revenue_cents"
)

// Tracker records checkout events as daily Redis counters. It implements the
// checkout Observer; every call is fire-and-forget and never blocks or fails
// the checkout itself.
type Tracker struct{}

// NewTracker creates a tracker backed by the shared cache client.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RefreshStarted is a no-op; refresh volume is visible in request logs.
func (t *Tracker) RefreshStarted(seq uint64, key string, verifyOnly bool) {}

// RefreshSettled logs failed refreshes for debugging.
func (t *Tracker) RefreshSettled(seq uint64, key string, err error) {
	if err != nil {
		log.Debugf("[Analytics] refresh %d (%s) settled with: %v", seq, key, err)
	}
}

// PurchaseCompleted bumps the daily purchase and revenue counters.
func (t *Tracker) PurchaseCompleted(summary pricing.Summary) {
	go func() {
		ctx := context.Background()
		day := time.Now().UTC().Format("2006-01-02")
		rdb := cache.GetClient()

		if err := rdb.HIncrBy(ctx, purchasesKey, day, 1).Err(); err != nil {
			log.Warnf("[Analytics] purchase counter failed: %v", err)
			return
		}
		cents := summary.Total.Shift(2).Round(0).IntPart()
		if err := rdb.HIncrBy(ctx, revenueKey, day, cents).Err(); err != nil {
			log.Warnf("[Analytics] revenue counter failed: %v", err)
		}
	}()
}
