package estimator

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// DetectedItem is one normalized line of the estimate checklist. Quantity
// never leaves the catalog bounds of its canonical key; mutation happens only
// through the Session transition methods.
type DetectedItem struct {
	ID           string  `json:"id"`
	CanonicalKey string  `json:"canonical_key"`
	DisplayName  string  `json:"display_name"`
	Quantity     int     `json:"quantity"`
	MinQty       int     `json:"min_qty"`
	MaxQty       int     `json:"max_qty"`
	YardsPerUnit float64 `json:"yards_per_unit"`
	Confidence   float64 `json:"confidence"`
	Included     bool    `json:"included"`
}

// Volume returns the item's contribution in cubic yards.
func (d DetectedItem) Volume() float64 {
	return float64(d.Quantity) * d.YardsPerUnit
}

// RawItem is an unnormalized item description as produced by the vision
// collaborator or a client payload. All fields are untrusted.
type RawItem struct {
	Name       string  `json:"item_name"`
	Quantity   float64 `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

const defaultItemConfidence = 0.7

var itemNameSeparators = regexp.MustCompile(`[\s-]+`)

// itemAliases maps common free-form names onto canonical catalog keys.
var itemAliases = map[string]string{
	"couch":              "sofa_3_seat",
	"sofa":               "sofa_3_seat",
	"3_seat_sofa":        "sofa_3_seat",
	"2_seat_sofa":        "loveseat_2_seat",
	"loveseat":           "loveseat_2_seat",
	"sectional":          "sectional_small",
	"fridge":             "refrigerator",
	"frig":               "refrigerator",
	"washing_machine":    "washer",
	"clothes_dryer":      "dryer",
	"oven":               "stove",
	"range":              "stove",
	"television":         "tv_large",
	"tv":                 "tv_large",
	"flat_screen":        "tv_large",
	"mattress":           "mattress_queen",
	"bed":                "bed_frame_queen",
	"queen_bed":          "bed_frame_queen",
	"king_bed":           "bed_frame_king",
	"twin_bed":           "bed_frame_twin",
	"chair":              "dining_chair",
	"table":              "dining_table",
	"garbage_bag":        "trash_bag",
	"bag":                "trash_bag",
	"boxes":              "box_medium",
	"cardboard":          "box_medium",
	"branches":           "tree_branches",
	"debris":             "construction_debris",
	"yard_waste":         "yard_debris_pile",
	"exercise_equipment": "treadmill",
	"gym_equipment":      "treadmill",
}

// substringFallbacks resolves names that contain a known fragment. Order
// matters: the first matching fragment wins, so "sofa bed" classifies as a
// sofa, not a bed.
var substringFallbacks = []struct {
	fragments []string
	key       string
}{
	{[]string{"sofa", "couch"}, "sofa_3_seat"},
	{[]string{"chair"}, "dining_chair"},
	{[]string{"table"}, "dining_table"},
	{[]string{"mattress"}, "mattress_queen"},
	{[]string{"bed"}, "bed_frame_queen"},
	{[]string{"refrigerator", "fridge"}, "refrigerator"},
	{[]string{"washer"}, "washer"},
	{[]string{"dryer"}, "dryer"},
	{[]string{"tv", "television"}, "tv_large"},
	{[]string{"box"}, "box_medium"},
	{[]string{"bag"}, "trash_bag"},
	{[]string{"desk"}, "desk"},
	{[]string{"dresser"}, "dresser"},
	{[]string{"bookshelf", "shelf"}, "bookshelf"},
}

// CanonicalKey resolves a free-form item name to a catalog key. Resolution
// order is exact match, alias, substring, category fallback, then the
// generic misc entry; the first match wins.
func CanonicalKey(itemName string) string {
	if itemName == "" {
		return genericItemKey
	}

	normalized := itemNameSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(itemName)), "_")

	if _, ok := itemBaselines[normalized]; ok {
		return normalized
	}

	if alias, ok := itemAliases[normalized]; ok {
		return alias
	}

	for _, fallback := range substringFallbacks {
		for _, fragment := range fallback.fragments {
			if strings.Contains(normalized, fragment) {
				return fallback.key
			}
		}
	}

	if strings.Contains(normalized, "furniture") {
		return "misc_furniture"
	}
	if strings.Contains(normalized, "appliance") {
		return "misc_appliance"
	}

	return genericItemKey
}

// NormalizeItems converts raw item descriptions into checklist items.
// Quantities are rounded and clamped to catalog bounds, confidence defaults
// to 0.7 when absent or out of range, and every item starts included.
func NormalizeItems(rawItems []RawItem) []DetectedItem {
	items := make([]DetectedItem, 0, len(rawItems))

	for _, raw := range rawItems {
		if raw.Name == "" {
			continue
		}

		key := CanonicalKey(raw.Name)
		baseline := Baseline(key)

		qty := int(math.Round(raw.Quantity))
		if qty < baseline.MinQty {
			qty = baseline.MinQty
		}
		if qty > baseline.MaxQty {
			qty = baseline.MaxQty
		}

		confidence := raw.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = defaultItemConfidence
		}

		items = append(items, DetectedItem{
			ID:           fmt.Sprintf("item_%d", len(items)+1),
			CanonicalKey: key,
			DisplayName:  baseline.Label,
			Quantity:     qty,
			MinQty:       baseline.MinQty,
			MaxQty:       baseline.MaxQty,
			YardsPerUnit: baseline.YardsPerUnit,
			Confidence:   confidence,
			Included:     true,
		})
	}

	return items
}
