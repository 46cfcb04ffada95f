package ui

import (
	"sync"
	"time"
)

// DefaultBannerTTL is how long a banner stays visible when nothing else clears it.
const DefaultBannerTTL = 3 * time.Second

// BannerKind distinguishes success and failure banners.
type BannerKind int

const (
	BannerSuccess BannerKind = iota
	BannerFailure
)

// Banner is a transient message. Showing a message starts a timer that resets the
// banner; Clear or a newer message cancels it.
type Banner struct {
	ttl time.Duration

	mu      sync.Mutex
	message string
	kind    BannerKind
	timer   *time.Timer
	gen     uint64
}

// NewBanner creates a banner that auto-dismisses after ttl.
func NewBanner(ttl time.Duration) *Banner {
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	return &Banner{ttl: ttl}
}

// Success shows a success message.
func (b *Banner) Success(message string) {
	b.show(message, BannerSuccess)
}

// Failure shows an error message.
func (b *Banner) Failure(message string) {
	b.show(message, BannerFailure)
}

// Clear removes the current message and stops its timer.
func (b *Banner) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked()
}

// Current returns the visible message, if any.
func (b *Banner) Current() (string, BannerKind, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message, b.kind, b.message != ""
}

// String renders the banner for the terminal, or "" when nothing is shown.
func (b *Banner) String() string {
	message, kind, ok := b.Current()
	if !ok {
		return ""
	}
	if kind == BannerFailure {
		return "[error] " + message
	}
	return "[ok] " + message
}

func (b *Banner) show(message string, kind BannerKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetLocked()
	b.message = message
	b.kind = kind
	gen := b.gen
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen == gen {
			b.message = ""
			b.timer = nil
		}
	})
}

func (b *Banner) resetLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.message = ""
}
