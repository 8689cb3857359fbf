package estimator

// ServiceType is the billing classification driving the base rate.
type ServiceType string

const (
	ServiceCurbside    ServiceType = "curbside"
	ServiceFullService ServiceType = "full_service"
)

// ServiceTypeSource records how the billed service type was resolved.
type ServiceTypeSource string

const (
	SourceUserConfirmed  ServiceTypeSource = "user_confirmed"
	SourceAIInferred     ServiceTypeSource = "ai_inferred"
	SourceDefault        ServiceTypeSource = "default"
	SourceLegacyFallback ServiceTypeSource = "legacy_fallback"
)

// Confidence is the estimate confidence tier driving range width.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// AccessType is the physical difficulty of reaching the items.
type AccessType string

const (
	AccessCurbside     AccessType = "curbside"
	AccessGroundGarage AccessType = "ground_garage"
	AccessInsideHome   AccessType = "inside_home"
	AccessUpstairs     AccessType = "upstairs"
)

// ServiceTypeConfig holds the per-service billing parameters.
type ServiceTypeConfig struct {
	RatePerYard   float64
	MinCharge     float64
	MinCubicYards float64
	DisplayName   string
}

// HeavyMaterialConfig holds the surcharge parameters for one heavy-material
// group and the substrings that trigger it.
type HeavyMaterialConfig struct {
	RateMultiplier float64
	AddOnMin       float64
	AddOnMax       float64
	Triggers       []string
}

// AddOnMidpoint returns the midpoint of the add-on fee range, used for the
// base price calculation.
func (c HeavyMaterialConfig) AddOnMidpoint() float64 {
	return (c.AddOnMin + c.AddOnMax) / 2
}

// Pricing parameters, anchored to competitor rates. Tuning lives here so
// rates can change without touching the pipeline.
var (
	serviceTypes = map[ServiceType]ServiceTypeConfig{
		ServiceCurbside: {
			RatePerYard:   30,
			MinCharge:     79,
			MinCubicYards: 2,
			DisplayName:   "Curbside Pickup",
		},
		ServiceFullService: {
			RatePerYard:   40,
			MinCharge:     119,
			MinCubicYards: 2,
			DisplayName:   "Full Service (garage/home)",
		},
	}

	// heavyMaterialOrder fixes the iteration order so ties between equal
	// multipliers resolve deterministically to the first declared group.
	heavyMaterialOrder = []string{"construction", "yard_debris", "appliances_heavy", "special_items"}

	heavyMaterials = map[string]HeavyMaterialConfig{
		"construction": {
			RateMultiplier: 1.5,
			AddOnMin:       50,
			AddOnMax:       150,
			Triggers:       []string{"construction", "concrete", "drywall", "lumber"},
		},
		"yard_debris": {
			RateMultiplier: 1.2,
			AddOnMin:       0,
			AddOnMax:       75,
			Triggers:       []string{"yard_waste", "branches", "tree"},
		},
		"appliances_heavy": {
			RateMultiplier: 1.0,
			AddOnMin:       30,
			AddOnMax:       100,
			Triggers:       []string{"appliances", "refrigerator", "washer", "dryer", "stove"},
		},
		"special_items": {
			RateMultiplier: 1.3,
			AddOnMin:       75,
			AddOnMax:       200,
			Triggers:       []string{"hot_tub", "piano", "safe"},
		},
	}

	accessMultipliers = map[AccessType]float64{
		AccessCurbside:     1.0,
		AccessGroundGarage: 1.0,
		AccessInsideHome:   1.2,
		AccessUpstairs:     1.35,
	}
)

// Confidence-tiered range width plus additive bonuses.
const (
	rangeWidthHigh   = 0.15
	rangeWidthMedium = 0.25
	rangeWidthLow    = 0.40

	rangeBonusHeavyMaterials     = 0.10
	rangeBonusServiceUnconfirmed = 0.15
)

// Absolute safety bounds. No quote ever leaves this band.
const (
	AbsoluteMinPrice = 59
	AbsoluteMaxPrice = 1500
)

// Volume blending tuning parameters. Both are conventions rather than
// measurements: couches are assumed to be roughly 40% of detected furniture
// volume, and AI-derived portions are discounted 10% before blending.
const (
	couchPortionOfVolume = 0.4
	blendDiscount        = 0.9
)

// Recalculation parameters: price scales linearly with the volume ratio,
// floored at 50% of the original, and the displayed range keeps a minimum
// spread.
const (
	recalcRatioFloor = 0.5
	recalcMinSpread  = 20
)

// Legacy (no-vision) pricing constants.
const (
	legacyPricePerPhotoMin = 65
	legacyPricePerPhotoMax = 110
	legacyAbsoluteMin      = 120
	legacyAbsoluteMax      = 1200
)

// legacyItemTypeMultipliers weights the legacy photo-count proxy by the
// declared item categories.
var legacyItemTypeMultipliers = map[string]float64{
	"furniture":    1.0,
	"appliances":   1.2,
	"yard_waste":   0.9,
	"hot_tub":      1.5,
	"construction": 1.3,
	"electronics":  1.1,
	"other":        1.0,
}

// ServiceConfig returns the billing parameters for a normalized service type.
func ServiceConfig(serviceType ServiceType) ServiceTypeConfig {
	if cfg, ok := serviceTypes[serviceType]; ok {
		return cfg
	}
	return serviceTypes[ServiceFullService]
}

// rangeWidthFactor computes the total half-width of the price range from the
// confidence tier plus additive bonuses for heavy materials and an
// unconfirmed service type.
func rangeWidthFactor(confidence Confidence, hasHeavyMaterials bool, source ServiceTypeSource) float64 {
	width := rangeWidthMedium
	switch confidence {
	case ConfidenceHigh:
		width = rangeWidthHigh
	case ConfidenceLow:
		width = rangeWidthLow
	}

	if hasHeavyMaterials {
		width += rangeBonusHeavyMaterials
	}
	if source != SourceUserConfirmed {
		width += rangeBonusServiceUnconfirmed
	}
	return width
}
