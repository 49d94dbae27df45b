package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignSpec(t *testing.T, percent int64) DiscountSpec {
	t.Helper()
	now := time.Now()
	start := now.Add(-time.Hour)
	end := now.Add(24 * time.Hour)
	spec, err := NewPercentageDiscount(percent, &start, &end)
	require.NoError(t, err)
	return spec
}

func TestDiscountState_ApplyOverlay(t *testing.T) {
	t.Run("snapshots the standalone discount on first entry", func(t *testing.T) {
		standalone, _ := NewPercentageDiscount(10, nil, nil)
		state := NewDiscountState(DiscountPresenceExplicitValue, standalone)

		overlay := campaignSpec(t, 25)
		state.ApplyOverlay("camp-1", overlay)

		assert.True(t, state.CampaignActive())
		assert.Equal(t, "camp-1", state.CampaignID())
		assert.True(t, state.Live().Equal(overlay), "overlay borrows the live fields")

		original, ok := state.Original()
		require.True(t, ok)
		assert.True(t, original.Equal(standalone))
		assert.Equal(t, DiscountPresenceExplicitValue, state.OriginalPresence())
	})

	t.Run("re-apply refreshes the overlay without clobbering the snapshot", func(t *testing.T) {
		standalone, _ := NewPercentageDiscount(10, nil, nil)
		state := NewDiscountState(DiscountPresenceExplicitValue, standalone)

		state.ApplyOverlay("camp-1", campaignSpec(t, 25))
		refreshed := campaignSpec(t, 40)
		state.ApplyOverlay("camp-1", refreshed)

		assert.True(t, state.Live().Equal(refreshed))

		original, ok := state.Original()
		require.True(t, ok)
		assert.True(t, original.Equal(standalone), "snapshot still holds the pre-campaign discount")
	})
}

func TestDiscountState_RemoveOverlay(t *testing.T) {
	t.Run("restores the standalone discount from the snapshot", func(t *testing.T) {
		standalone, _ := NewPercentageDiscount(10, nil, nil)
		state := NewDiscountState(DiscountPresenceExplicitValue, standalone)

		state.ApplyOverlay("camp-1", campaignSpec(t, 25))
		state.RemoveOverlay()

		assert.False(t, state.CampaignActive())
		assert.Empty(t, state.CampaignID())
		assert.True(t, state.Live().Equal(standalone))
		assert.Equal(t, DiscountPresenceExplicitValue, state.Presence())
	})

	t.Run("second remove is a no-op", func(t *testing.T) {
		standalone, _ := NewPercentageDiscount(10, nil, nil)
		state := NewDiscountState(DiscountPresenceExplicitValue, standalone)

		state.ApplyOverlay("camp-1", campaignSpec(t, 25))
		state.RemoveOverlay()
		state.RemoveOverlay()

		assert.True(t, state.Live().Equal(standalone))
	})

	t.Run("without a snapshot the live fields reset to zero", func(t *testing.T) {
		state := NewDiscountState(DiscountPresenceInherit, ZeroDiscount())

		state.RemoveOverlay()

		assert.False(t, state.CampaignActive())
		assert.False(t, state.Live().HasValue())
	})
}

func TestDiscountState_SetStandalone(t *testing.T) {
	t.Run("without an overlay the edit takes effect immediately", func(t *testing.T) {
		state := NewDiscountState(DiscountPresenceExplicitZero, ZeroDiscount())

		edit, _ := NewPercentageDiscount(15, nil, nil)
		state.SetStandalone(edit, DiscountPresenceExplicitValue)

		assert.True(t, state.Live().Equal(edit))
		assert.Equal(t, DiscountPresenceExplicitValue, state.Presence())
	})

	t.Run("during an overlay the edit lands in the snapshot", func(t *testing.T) {
		standalone, _ := NewPercentageDiscount(10, nil, nil)
		state := NewDiscountState(DiscountPresenceExplicitValue, standalone)

		overlay := campaignSpec(t, 25)
		state.ApplyOverlay("camp-1", overlay)

		edit, _ := NewPercentageDiscount(30, nil, nil)
		state.SetStandalone(edit, DiscountPresenceExplicitValue)

		assert.True(t, state.Live().Equal(overlay), "the live price still shows the campaign")

		state.RemoveOverlay()
		assert.True(t, state.Live().Equal(edit), "the edit re-emerges after the campaign")
	})
}

func TestDiscountState_StandaloneSpec(t *testing.T) {
	standalone, _ := NewPercentageDiscount(10, nil, nil)
	state := NewDiscountState(DiscountPresenceExplicitValue, standalone)

	assert.True(t, state.StandaloneSpec().Equal(standalone), "no overlay: standalone is the live spec")

	state.ApplyOverlay("camp-1", campaignSpec(t, 25))
	assert.True(t, state.StandaloneSpec().Equal(standalone), "overlay active: standalone is the snapshot")

	fresh := NewDiscountState(DiscountPresenceInherit, ZeroDiscount())
	fresh.ApplyOverlay("camp-1", campaignSpec(t, 25))
	assert.False(t, fresh.StandaloneSpec().HasValue())
}
