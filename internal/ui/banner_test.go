package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerExpires(t *testing.T) {
	b := NewBanner(20 * time.Millisecond)
	b.Success("Lead Jane enriched successfully!")

	message, kind, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "Lead Jane enriched successfully!", message)
	assert.Equal(t, BannerSuccess, kind)
	assert.Equal(t, "[ok] Lead Jane enriched successfully!", b.String())

	require.Eventually(t, func() bool {
		_, _, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, b.String())
}

func TestBannerClearedByNextAction(t *testing.T) {
	b := NewBanner(time.Minute)
	b.Failure("Failed to delete lead")
	assert.Equal(t, "[error] Failed to delete lead", b.String())

	b.Clear()
	_, _, ok := b.Current()
	assert.False(t, ok)
}

func TestBannerNewMessageRestartsTimer(t *testing.T) {
	b := NewBanner(100 * time.Millisecond)
	b.Failure("first")
	time.Sleep(60 * time.Millisecond)
	b.Success("second")
	time.Sleep(60 * time.Millisecond)

	message, kind, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "second", message)
	assert.Equal(t, BannerSuccess, kind)
}

func TestBannerDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultBannerTTL, NewBanner(0).ttl)
}
