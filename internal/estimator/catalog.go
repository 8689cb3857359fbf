// Package estimator implements the price estimation and adjustment engine:
// the canonical item catalog, free-form item normalization, heavy-material
// and access classification, volume blending, the multi-stage pricing
// pipeline, and the interactive recalculation session. All computation is
// pure and synchronous; the package performs no I/O.
package estimator

// CatalogEntry describes one canonical item type: its volume contribution
// per unit and the quantity bounds a single estimate may carry.
type CatalogEntry struct {
	YardsPerUnit float64
	Label        string
	MinQty       int
	MaxQty       int
}

// CouchSize identifies a couch sizing tier. Ordering is by volume:
// 2-seat < 3-seat < 4-seat < small sectional < large sectional.
type CouchSize string

const (
	CouchTwoSeat        CouchSize = "2_seat"
	CouchThreeSeat      CouchSize = "3_seat"
	CouchFourSeat       CouchSize = "4_seat"
	CouchSmallSectional CouchSize = "small_sectional"
	CouchLargeSectional CouchSize = "large_sectional"
)

// couchSizeOrder lists couch sizes from smallest to largest volume.
var couchSizeOrder = []CouchSize{
	CouchTwoSeat,
	CouchThreeSeat,
	CouchFourSeat,
	CouchSmallSectional,
	CouchLargeSectional,
}

// couchSizes maps each sizing tier to its baseline volume in cubic yards.
var couchSizes = map[CouchSize]CatalogEntry{
	CouchTwoSeat:        {YardsPerUnit: 1.0, Label: "2-seat loveseat"},
	CouchThreeSeat:      {YardsPerUnit: 1.5, Label: "3-seat sofa"},
	CouchFourSeat:       {YardsPerUnit: 2.0, Label: "4-seat sofa"},
	CouchSmallSectional: {YardsPerUnit: 2.5, Label: "Small sectional"},
	CouchLargeSectional: {YardsPerUnit: 3.25, Label: "Large sectional"},
}

// itemBaselines is the canonical item table. Volumes are estimator-internal
// cubic-yard equivalents and are never shown to users directly.
var itemBaselines = map[string]CatalogEntry{
	// Furniture
	"loveseat_2_seat":  {YardsPerUnit: 1.0, Label: "2-seat loveseat", MinQty: 1, MaxQty: 5},
	"sofa_3_seat":      {YardsPerUnit: 1.5, Label: "3-seat sofa", MinQty: 1, MaxQty: 5},
	"sofa_4_seat":      {YardsPerUnit: 2.0, Label: "4-seat sofa", MinQty: 1, MaxQty: 3},
	"sectional_small":  {YardsPerUnit: 2.5, Label: "Sectional (small)", MinQty: 1, MaxQty: 2},
	"sectional_large":  {YardsPerUnit: 3.25, Label: "Sectional (large)", MinQty: 1, MaxQty: 2},
	"recliner":         {YardsPerUnit: 0.75, Label: "Recliner", MinQty: 1, MaxQty: 6},
	"dining_chair":     {YardsPerUnit: 0.25, Label: "Dining chair", MinQty: 1, MaxQty: 12},
	"dining_table":     {YardsPerUnit: 1.0, Label: "Dining table", MinQty: 1, MaxQty: 3},
	"coffee_table":     {YardsPerUnit: 0.5, Label: "Coffee table", MinQty: 1, MaxQty: 4},
	"end_table":        {YardsPerUnit: 0.25, Label: "End table", MinQty: 1, MaxQty: 6},
	"desk":             {YardsPerUnit: 0.75, Label: "Desk", MinQty: 1, MaxQty: 4},
	"office_chair":     {YardsPerUnit: 0.35, Label: "Office chair", MinQty: 1, MaxQty: 8},
	"bookshelf":        {YardsPerUnit: 0.75, Label: "Bookshelf", MinQty: 1, MaxQty: 6},
	"dresser":          {YardsPerUnit: 1.0, Label: "Dresser", MinQty: 1, MaxQty: 4},
	"nightstand":       {YardsPerUnit: 0.25, Label: "Nightstand", MinQty: 1, MaxQty: 6},
	"bed_frame_twin":   {YardsPerUnit: 0.5, Label: "Bed frame (twin)", MinQty: 1, MaxQty: 4},
	"bed_frame_full":   {YardsPerUnit: 0.75, Label: "Bed frame (full)", MinQty: 1, MaxQty: 3},
	"bed_frame_queen":  {YardsPerUnit: 1.0, Label: "Bed frame (queen)", MinQty: 1, MaxQty: 3},
	"bed_frame_king":   {YardsPerUnit: 1.25, Label: "Bed frame (king)", MinQty: 1, MaxQty: 2},

	// Mattresses
	"mattress_twin":      {YardsPerUnit: 0.5, Label: "Mattress (twin)", MinQty: 1, MaxQty: 6},
	"mattress_full":      {YardsPerUnit: 0.75, Label: "Mattress (full)", MinQty: 1, MaxQty: 4},
	"mattress_queen":     {YardsPerUnit: 1.0, Label: "Mattress (queen)", MinQty: 1, MaxQty: 4},
	"mattress_king":      {YardsPerUnit: 1.25, Label: "Mattress (king)", MinQty: 1, MaxQty: 3},
	"mattress_boxspring": {YardsPerUnit: 1.0, Label: "Mattress + box spring", MinQty: 1, MaxQty: 4},

	// Appliances
	"refrigerator":      {YardsPerUnit: 1.75, Label: "Refrigerator", MinQty: 1, MaxQty: 3},
	"washer":            {YardsPerUnit: 0.75, Label: "Washer", MinQty: 1, MaxQty: 3},
	"dryer":             {YardsPerUnit: 0.75, Label: "Dryer", MinQty: 1, MaxQty: 3},
	"washer_dryer_pair": {YardsPerUnit: 1.5, Label: "Washer & dryer", MinQty: 1, MaxQty: 2},
	"dishwasher":        {YardsPerUnit: 0.5, Label: "Dishwasher", MinQty: 1, MaxQty: 3},
	"stove":             {YardsPerUnit: 0.75, Label: "Stove/range", MinQty: 1, MaxQty: 3},
	"microwave":         {YardsPerUnit: 0.15, Label: "Microwave", MinQty: 1, MaxQty: 5},
	"window_ac":         {YardsPerUnit: 0.25, Label: "Window AC unit", MinQty: 1, MaxQty: 6},
	"water_heater":      {YardsPerUnit: 0.75, Label: "Water heater", MinQty: 1, MaxQty: 2},

	// Electronics
	"tv_small":         {YardsPerUnit: 0.15, Label: "TV (small)", MinQty: 1, MaxQty: 8},
	"tv_large":         {YardsPerUnit: 0.35, Label: "TV (large/flat)", MinQty: 1, MaxQty: 6},
	"computer_desktop": {YardsPerUnit: 0.15, Label: "Desktop computer", MinQty: 1, MaxQty: 8},
	"computer_monitor": {YardsPerUnit: 0.1, Label: "Monitor", MinQty: 1, MaxQty: 10},
	"printer":          {YardsPerUnit: 0.15, Label: "Printer", MinQty: 1, MaxQty: 6},

	// Misc household
	"trash_bag":  {YardsPerUnit: 0.125, Label: "Trash bag", MinQty: 1, MaxQty: 40},
	"box_small":  {YardsPerUnit: 0.1, Label: "Box (small)", MinQty: 1, MaxQty: 30},
	"box_medium": {YardsPerUnit: 0.2, Label: "Box (medium)", MinQty: 1, MaxQty: 25},
	"box_large":  {YardsPerUnit: 0.35, Label: "Box (large)", MinQty: 1, MaxQty: 20},
	"bin_95_gal": {YardsPerUnit: 0.5, Label: "95-gal bin", MinQty: 1, MaxQty: 10},

	// Yard waste
	"yard_debris_pile": {YardsPerUnit: 1.0, Label: "Yard debris pile", MinQty: 1, MaxQty: 10},
	"tree_branches":    {YardsPerUnit: 0.5, Label: "Tree branches (bundle)", MinQty: 1, MaxQty: 15},

	// Construction
	"construction_debris": {YardsPerUnit: 1.0, Label: "Construction debris", MinQty: 1, MaxQty: 15},
	"drywall_sheet":       {YardsPerUnit: 0.1, Label: "Drywall sheet", MinQty: 1, MaxQty: 30},
	"lumber_bundle":       {YardsPerUnit: 0.5, Label: "Lumber bundle", MinQty: 1, MaxQty: 10},

	// Special
	"hot_tub":       {YardsPerUnit: 4.0, Label: "Hot tub", MinQty: 1, MaxQty: 2},
	"piano_upright": {YardsPerUnit: 2.0, Label: "Piano (upright)", MinQty: 1, MaxQty: 2},
	"piano_grand":   {YardsPerUnit: 4.0, Label: "Piano (grand)", MinQty: 1, MaxQty: 1},
	"treadmill":     {YardsPerUnit: 1.0, Label: "Treadmill", MinQty: 1, MaxQty: 3},
	"elliptical":    {YardsPerUnit: 1.0, Label: "Elliptical", MinQty: 1, MaxQty: 3},

	// Generic fallbacks
	"misc_furniture": {YardsPerUnit: 0.75, Label: "Misc furniture", MinQty: 1, MaxQty: 10},
	"misc_appliance": {YardsPerUnit: 0.5, Label: "Misc appliance", MinQty: 1, MaxQty: 10},
	"misc_items":     {YardsPerUnit: 0.25, Label: "Misc items", MinQty: 1, MaxQty: 20},
}

// genericItemKey is the catch-all catalog entry for unrecognized items.
const genericItemKey = "misc_items"

// Baseline returns the catalog entry for a canonical item key, falling back
// to the generic misc entry for unknown keys.
func Baseline(canonicalKey string) CatalogEntry {
	if entry, ok := itemBaselines[canonicalKey]; ok {
		return entry
	}
	return itemBaselines[genericItemKey]
}

// CouchBaseline returns the baseline volume for a couch size. Unknown sizes
// fall back to the 3-seat default.
func CouchBaseline(size CouchSize) float64 {
	if entry, ok := couchSizes[size]; ok {
		return entry.YardsPerUnit
	}
	return couchSizes[CouchThreeSeat].YardsPerUnit
}

// CouchLabel returns the display label for a couch size.
func CouchLabel(size CouchSize) string {
	if entry, ok := couchSizes[size]; ok {
		return entry.Label
	}
	return couchSizes[CouchThreeSeat].Label
}

// IsValidCouchSize reports whether the size is a known tier.
func IsValidCouchSize(size CouchSize) bool {
	_, ok := couchSizes[size]
	return ok
}

// couchSizeIndex returns the position of a size in the volume ordering,
// or -1 for unknown sizes.
func couchSizeIndex(size CouchSize) int {
	for i, s := range couchSizeOrder {
		if s == size {
			return i
		}
	}
	return -1
}

// DefaultCouchSize maps an AI-detected cushion count and sectional flag to a
// couch size. Five or more cushions, or an L-shape, reads as a sectional;
// uncertain counts default to the 3-seat sofa.
func DefaultCouchSize(cushionCount int, isSectional bool) CouchSize {
	if isSectional || cushionCount >= 5 {
		return CouchSmallSectional
	}
	switch cushionCount {
	case 2:
		return CouchTwoSeat
	case 4:
		return CouchFourSeat
	default:
		return CouchThreeSeat
	}
}

// CouchSizeAtLeast reports whether sizeA has at least the baseline volume of
// sizeB. Used to verify sectionals never price below a standard sofa.
func CouchSizeAtLeast(sizeA, sizeB CouchSize) bool {
	return CouchBaseline(sizeA) >= CouchBaseline(sizeB)
}
