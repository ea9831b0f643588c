package services

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

type checkoutSession struct {
	flow   *DonationFlow
	opened time.Time
}

// CheckoutRegistry tracks donation flows whose checkout is open in a
// browser, keyed by attempt id, until the widget reports back.
type CheckoutRegistry struct {
	mu       sync.Mutex
	sessions map[string]checkoutSession
	ttl      time.Duration
	now      func() time.Time
}

// NewCheckoutRegistry creates a registry. A zero ttl keeps sessions until
// they are resolved.
func NewCheckoutRegistry(ttl time.Duration) *CheckoutRegistry {
	return &CheckoutRegistry{
		sessions: make(map[string]checkoutSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

var checkoutRegistry = NewCheckoutRegistry(0)

// InitCheckoutRegistry reads CHECKOUT_SESSION_TTL (a Go duration such as
// "24h") and starts sweeping abandoned sessions when it is set.
func InitCheckoutRegistry(ctx context.Context) {
	var ttl time.Duration
	if raw := os.Getenv("CHECKOUT_SESSION_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Invalid CHECKOUT_SESSION_TTL %q: %v", raw, err)
		} else {
			ttl = parsed
		}
	}

	checkoutRegistry = NewCheckoutRegistry(ttl)
	if ttl > 0 {
		go checkoutRegistry.sweepEvery(ctx, ttl/4)
		log.Printf("Abandoned checkout sessions expire after %s", ttl)
	}
}

func GetCheckoutRegistry() *CheckoutRegistry {
	return checkoutRegistry
}

func SetCheckoutRegistry(registry *CheckoutRegistry) *CheckoutRegistry {
	previous := checkoutRegistry
	checkoutRegistry = registry
	return previous
}

func (r *CheckoutRegistry) Register(attemptID string, flow *DonationFlow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[attemptID] = checkoutSession{flow: flow, opened: r.now()}
}

func (r *CheckoutRegistry) Lookup(attemptID string) (*DonationFlow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[attemptID]
	return session.flow, ok
}

func (r *CheckoutRegistry) Remove(attemptID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, attemptID)
}

func (r *CheckoutRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions opened longer than ttl ago and returns how many were
// dropped. Dropping a session does not touch the gateway.
func (r *CheckoutRegistry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	dropped := 0
	for id, session := range r.sessions {
		if session.opened.Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (r *CheckoutRegistry) sweepEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := r.Sweep(); dropped > 0 {
				log.Printf("Dropped %d abandoned checkout sessions", dropped)
			}
		}
	}
}
