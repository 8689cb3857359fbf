package estimator

import "math"

// Session is the interactive recalculation engine for one displayed
// estimate. It owns the mutable checklist and re-derives the price range on
// every transition under the same blending rules as the initial estimate.
// Sessions are single-goroutine state machines; each transition runs to
// completion before the next.
type Session struct {
	Items         []DetectedItem `json:"items"`
	Original      EstimateResult `json:"original_estimate"`
	AITotalVolume float64        `json:"ai_total_volume"`
	UserAdjusted  bool           `json:"user_adjusted"`

	diag Diagnostics
}

// Itemized tolerance before the overcount warning fires.
const itemizedOvercountTolerance = 1.1

// NewSession seeds a session from the initial estimate. The item list is
// copied so the caller's slice stays untouched.
func NewSession(items []DetectedItem, original EstimateResult, aiTotalVolume float64, diag Diagnostics) *Session {
	owned := make([]DetectedItem, len(items))
	copy(owned, items)

	return &Session{
		Items:         owned,
		Original:      original,
		AITotalVolume: aiTotalVolume,
		diag:          diag,
	}
}

// SetDiagnostics attaches the warning sink, for sessions rebuilt from
// serialized state.
func (s *Session) SetDiagnostics(diag Diagnostics) {
	s.diag = diag
}

// Toggle flips the inclusion of the item at index and recalculates.
// Out-of-range indexes are ignored.
func (s *Session) Toggle(index int) RecalcResult {
	if index >= 0 && index < len(s.Items) {
		s.Items[index].Included = !s.Items[index].Included
		s.UserAdjusted = true
	}
	return s.Recalculate()
}

// Increment raises the item's quantity by one, capped at its catalog
// maximum. Excluded items are not editable.
func (s *Session) Increment(index int) RecalcResult {
	if index >= 0 && index < len(s.Items) {
		item := &s.Items[index]
		if item.Included && item.Quantity < item.MaxQty {
			item.Quantity++
			s.UserAdjusted = true
		}
	}
	return s.Recalculate()
}

// Decrement lowers the item's quantity by one, floored at its catalog
// minimum. Excluded items are not editable.
func (s *Session) Decrement(index int) RecalcResult {
	if index >= 0 && index < len(s.Items) {
		item := &s.Items[index]
		if item.Included && item.Quantity > item.MinQty {
			item.Quantity--
			s.UserAdjusted = true
		}
	}
	return s.Recalculate()
}

// RecalcResult is the re-derived price range after a checklist change.
type RecalcResult struct {
	MinPrice       int     `json:"min_price"`
	MaxPrice       int     `json:"max_price"`
	ItemizedVolume float64 `json:"itemized_volume"`
	FinalVolume    float64 `json:"final_volume"`
	VolumeRatio    float64 `json:"volume_ratio"`
}

// ItemizedVolume sums the volume of the included items.
func (s *Session) ItemizedVolume() float64 {
	total := 0.0
	for _, item := range s.Items {
		if item.Included {
			total += item.Volume()
		}
	}
	return total
}

// Recalculate re-derives the displayed range from the current checklist.
// Before the first manual adjustment the AI volume acts as a discounted
// floor, so an untouched checklist cannot zero out the price. After the
// first edit the itemized total is trusted directly: the user has taken
// responsibility for the inventory, and the total may go below the AI floor
// as well as above it. Price scales as a linear ratio against the original
// authoritative volume, floored at 50%.
func (s *Session) Recalculate() RecalcResult {
	itemized := s.ItemizedVolume()

	finalVolume := itemized
	if !s.UserAdjusted {
		finalVolume = math.Max(s.AITotalVolume*blendDiscount, itemized)
	}

	if s.diag != nil && itemized > s.AITotalVolume*itemizedOvercountTolerance {
		s.diag.InvariantViolation("itemized_exceeds_ai_volume",
			"itemized", itemized, "ai", s.AITotalVolume)
	}

	originalVolume := s.Original.CubicYardsAdjusted
	if originalVolume <= 0 {
		originalVolume = s.AITotalVolume
	}
	if originalVolume <= 0 {
		originalVolume = 2
	}

	ratio := math.Max(recalcRatioFloor, finalVolume/originalVolume)

	newMin := int(math.Max(AbsoluteMinPrice, math.Round(float64(s.Original.MinPrice)*ratio)))
	newMax := int(math.Max(float64(newMin+recalcMinSpread), math.Round(float64(s.Original.MaxPrice)*ratio)))

	if s.diag != nil {
		included := 0
		for _, item := range s.Items {
			if item.Included {
				included++
			}
		}
		if included < len(s.Items) && newMin > s.Original.MinPrice {
			s.diag.InvariantViolation("price_increase_after_removal",
				"original_min", s.Original.MinPrice, "new_min", newMin)
		}
	}

	return RecalcResult{
		MinPrice:       newMin,
		MaxPrice:       newMax,
		ItemizedVolume: itemized,
		FinalVolume:    finalVolume,
		VolumeRatio:    ratio,
	}
}
