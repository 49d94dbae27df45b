package domain

// DiscountState holds the full discount bookkeeping for a single item
// (product or variant): the live discount fields used for price computation,
// the campaign overlay, and the snapshot of the standalone discount taken
// when the overlay first became active.
//
// Invariant: while the overlay is active the live fields mirror the campaign
// fields (the overlay borrows the mutable fields), and the snapshot holds
// what the standalone discount should re-become when the overlay ends.
type DiscountState struct {
	presence DiscountPresence
	live     DiscountSpec

	campaignActive bool
	campaignID     string
	campaign       DiscountSpec

	original         DiscountSpec
	originalPresence DiscountPresence
	originalSet      bool
}

// NewDiscountState creates the state for an item with the given standalone
// discount.
func NewDiscountState(presence DiscountPresence, live DiscountSpec) DiscountState {
	return DiscountState{
		presence: presence,
		live:     live,
		campaign: ZeroDiscount(),
		original: ZeroDiscount(),
	}
}

// ReconstructDiscountState rebuilds a DiscountState from persisted columns.
func ReconstructDiscountState(
	presence DiscountPresence,
	live DiscountSpec,
	campaignActive bool,
	campaignID string,
	campaign DiscountSpec,
	original DiscountSpec,
	originalPresence DiscountPresence,
	originalSet bool,
) DiscountState {
	return DiscountState{
		presence:         presence,
		live:             live,
		campaignActive:   campaignActive,
		campaignID:       campaignID,
		campaign:         campaign,
		original:         original,
		originalPresence: originalPresence,
		originalSet:      originalSet,
	}
}

// Presence returns the standalone discount intent.
func (s DiscountState) Presence() DiscountPresence {
	return s.presence
}

// Live returns the live discount fields used for price computation.
func (s DiscountState) Live() DiscountSpec {
	return s.live
}

// CampaignActive reports whether a campaign overlay is in effect.
func (s DiscountState) CampaignActive() bool {
	return s.campaignActive
}

// CampaignID returns the id of the overlaying campaign, or "".
func (s DiscountState) CampaignID() string {
	return s.campaignID
}

// CampaignSpec returns the overlay discount fields.
func (s DiscountState) CampaignSpec() DiscountSpec {
	return s.campaign
}

// Original returns the snapshot spec and whether one has been taken.
func (s DiscountState) Original() (DiscountSpec, bool) {
	return s.original, s.originalSet
}

// OriginalPresence returns the presence recorded with the snapshot.
func (s DiscountState) OriginalPresence() DiscountPresence {
	return s.originalPresence
}

// StandaloneSpec re-derives what the standalone discount currently is, absent
// any overlay. While an overlay borrows the live fields this is the snapshot;
// otherwise it is the live fields themselves.
func (s DiscountState) StandaloneSpec() DiscountSpec {
	if s.campaignActive {
		if s.originalSet {
			return s.original
		}
		return ZeroDiscount()
	}
	return s.live
}

// ApplyOverlay enters or refreshes a campaign overlay. The snapshot is taken
// only on first entry (guarded by campaignActive), so re-applying an active
// campaign refreshes the overlay values without clobbering the snapshot.
func (s *DiscountState) ApplyOverlay(campaignID string, spec DiscountSpec) {
	if !s.campaignActive {
		s.original = s.live
		s.originalPresence = s.presence
		s.originalSet = true
	}
	s.campaignActive = true
	s.campaignID = campaignID
	s.campaign = spec
	s.live = spec
}

// RemoveOverlay ends the campaign overlay and reinstates the standalone
// discount from the snapshot. When no snapshot exists the live fields reset
// to the zero-discount default. The snapshot itself is kept, which makes a
// second remove a no-op rather than an error.
func (s *DiscountState) RemoveOverlay() {
	if s.originalSet {
		s.live = s.original
		s.presence = s.originalPresence
	} else {
		s.live = ZeroDiscount()
	}
	s.campaignActive = false
	s.campaignID = ""
	s.campaign = ZeroDiscount()
}

// SetStandalone records a merchant edit of the standalone discount. While an
// overlay is active the edit lands in the snapshot, so the new value is what
// re-emerges when the campaign ends; otherwise it takes effect immediately.
func (s *DiscountState) SetStandalone(spec DiscountSpec, presence DiscountPresence) {
	if s.campaignActive {
		s.original = spec
		s.originalPresence = presence
		s.originalSet = true
		return
	}
	s.live = spec
	s.presence = presence
}
