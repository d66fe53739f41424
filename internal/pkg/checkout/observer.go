package checkout

import "github.com/siteweaverhq/siteweaver/internal/pkg/pricing"

// Observer receives checkout lifecycle events. It replaces ad-hoc global
// debug state with an injectable hook; production wires the analytics
// tracker, tests wire recorders.
type Observer interface {
	RefreshStarted(seq uint64, key string, verifyOnly bool)
	RefreshSettled(seq uint64, key string, err error)
	PurchaseCompleted(summary pricing.Summary)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) RefreshStarted(uint64, string, bool) {}
func (NopObserver) RefreshSettled(uint64, string, error) {}
func (NopObserver) PurchaseCompleted(pricing.Summary) {}
