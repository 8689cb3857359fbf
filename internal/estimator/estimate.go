package estimator

import (
	"fmt"
	"math"
	"strings"
)

// Diagnostics receives non-fatal invariant violation signals. Violations are
// calibration warnings, never user-facing errors; a nil Diagnostics silences
// them.
type Diagnostics interface {
	InvariantViolation(check string, args ...any)
}

// EstimateRequest carries the user-asserted inputs for one estimate. User
// fields, when present, take precedence over vision inference. PhotoCount
// and ItemTypes feed the legacy path when no vision volume is available.
type EstimateRequest struct {
	Vision          *VisionAnalysis
	UserServiceType string
	UserAccessType  string
	UserCouchSize   string
	PhotoCount      int
	ItemTypes       []string
	ZipCode         string
	Notes           string
}

// PricingBreakdown exposes every factor of the price calculation for
// auditability and for the client recalculation to replay consistently.
type PricingBreakdown struct {
	BaseRate                float64 `json:"base_rate"`
	AdjustedVolume          float64 `json:"adjusted_volume"`
	ServiceType             string  `json:"service_type"`
	HeavyMaterialMultiplier float64 `json:"heavy_material_multiplier"`
	HeavyMaterialAddOn      float64 `json:"heavy_material_addon"`
	AccessMultiplier        float64 `json:"access_multiplier"`
	ZoneMultiplier          float64 `json:"zone_multiplier"`
	RangeWidthPercent       int     `json:"range_width_percent"`
}

// EstimateResult is the bounded, explainable price range for one request.
// MinPrice <= MaxPrice and MinPrice >= AbsoluteMinPrice hold by construction.
type EstimateResult struct {
	MinPrice               int               `json:"min_price"`
	MaxPrice               int               `json:"max_price"`
	Confidence             Confidence        `json:"confidence"`
	Assumptions            string            `json:"assumptions"`
	Zone                   string            `json:"zone"`
	Method                 string            `json:"method"`
	ServiceTypeUsed        ServiceType       `json:"service_type_used"`
	ServiceTypeSource      ServiceTypeSource `json:"service_type_source"`
	CubicYardsRaw          float64           `json:"cubic_yards_raw,omitempty"`
	CubicYardsAdjusted     float64           `json:"cubic_yards_adjusted,omitempty"`
	HeavyMaterialsDetected bool              `json:"heavy_materials_detected"`
	HeavyMaterialType      string            `json:"heavy_material_type,omitempty"`
	AccessType             AccessType        `json:"access_type,omitempty"`
	CouchSizeUsed          CouchSize         `json:"couch_size_used,omitempty"`
	Breakdown              PricingBreakdown  `json:"pricing_breakdown"`
}

// EstimatePrice converts a request into a price range. With a usable vision
// volume it runs the full multi-stage pipeline; otherwise it falls back to
// the legacy photo-count method. It always returns a structurally valid
// result; malformed input is clamped, never rejected.
func EstimatePrice(req EstimateRequest, diag Diagnostics) EstimateResult {
	if req.Vision.HasVolume() {
		return estimateWithVision(req, diag)
	}
	return estimateLegacy(req)
}

func estimateWithVision(req EstimateRequest, diag Diagnostics) EstimateResult {
	vision := req.Vision

	// Service type: user confirmation beats inference beats the costlier
	// full-service default.
	serviceType := req.UserServiceType
	if serviceType == "" {
		serviceType = vision.InferredServiceType
	}
	if serviceType == "" {
		serviceType = string(ServiceFullService)
	}

	source := SourceDefault
	switch {
	case req.UserServiceType != "":
		source = SourceUserConfirmed
	case vision.InferredServiceType != "" && vision.InferredServiceType != "unknown":
		source = SourceAIInferred
	}

	billedType := NormalizeServiceType(serviceType)
	serviceCfg := ServiceConfig(billedType)

	// Couch blending: replace the AI's implicit couch portion with the
	// blended size-aware volume.
	volumeAdjustment, couchSizeUsed := blendCouchVolume(vision, CouchSize(req.UserCouchSize), diag)

	adjustedVolume := math.Max(vision.VolumeCubicYards+volumeAdjustment, serviceCfg.MinCubicYards)

	heavy := DetectHeavyMaterials(vision.ItemCategories, vision.SpecialConcerns)

	basePrice := adjustedVolume * serviceCfg.RatePerYard
	if heavy.Detected {
		basePrice *= heavy.Config.RateMultiplier
		basePrice += heavy.Config.AddOnMidpoint()
	}

	// Access defaults follow the billed service type when the user did not
	// choose one.
	accessType := AccessType(req.UserAccessType)
	if accessType == "" {
		if billedType == ServiceCurbside {
			accessType = AccessCurbside
		} else {
			accessType = AccessGroundGarage
		}
	}
	accessMultiplier := AccessMultiplierFor(accessType)
	basePrice *= accessMultiplier

	zone := ResolveZone(req.ZipCode)
	basePrice *= zone.Multiplier

	width := rangeWidthFactor(vision.Confidence, heavy.Detected, source)

	calculatedMin := basePrice * (1 - width)
	calculatedMax := basePrice * (1 + width)

	finalMin := int(math.Max(serviceCfg.MinCharge, math.Max(AbsoluteMinPrice, math.Round(calculatedMin))))
	finalMax := int(math.Min(AbsoluteMaxPrice, math.Round(calculatedMax)))

	safeMin, safeMax := finalMin, finalMax
	if safeMin > safeMax {
		safeMin, safeMax = safeMax, safeMin
	}

	if diag != nil {
		if safeMin < AbsoluteMinPrice {
			diag.InvariantViolation("price_below_absolute_min", "min", safeMin)
		}
		if strings.Contains(string(couchSizeUsed), "sectional") && !CouchSizeAtLeast(couchSizeUsed, CouchThreeSeat) {
			diag.InvariantViolation("sectional_below_standard_sofa", "size", string(couchSizeUsed))
		}
	}

	breakdown := PricingBreakdown{
		BaseRate:                serviceCfg.RatePerYard,
		AdjustedVolume:          adjustedVolume,
		ServiceType:             string(billedType),
		HeavyMaterialMultiplier: heavy.Multiplier(),
		HeavyMaterialAddOn:      heavyAddOn(heavy),
		AccessMultiplier:        accessMultiplier,
		ZoneMultiplier:          zone.Multiplier,
		RangeWidthPercent:       int(math.Round(width * 100)),
	}

	assumptions := visionAssumptions(assumptionInputs{
		adjustedVolume: adjustedVolume,
		rawVolume:      vision.VolumeCubicYards,
		serviceType:    billedType,
		source:         source,
		categories:     vision.ItemCategories,
		accessType:     accessType,
		heavy:          heavy,
		zone:           zone,
		confidence:     vision.Confidence,
		couchSizeUsed:  couchSizeUsed,
		visionNotes:    vision.Notes,
	})

	return EstimateResult{
		MinPrice:               safeMin,
		MaxPrice:               safeMax,
		Confidence:             vision.Confidence,
		Assumptions:            assumptions,
		Zone:                   zone.ZoneID,
		Method:                 "vision",
		ServiceTypeUsed:        billedType,
		ServiceTypeSource:      source,
		CubicYardsRaw:          vision.VolumeCubicYards,
		CubicYardsAdjusted:     adjustedVolume,
		HeavyMaterialsDetected: heavy.Detected,
		HeavyMaterialType:      heavy.Type,
		AccessType:             accessType,
		CouchSizeUsed:          couchSizeUsed,
		Breakdown:              breakdown,
	}
}

// blendCouchVolume reconciles the AI's implicit couch volume with the
// detected or user-selected couch size. Returns the signed adjustment to the
// total volume and the size used; both zero values when no couch applies.
func blendCouchVolume(vision *VisionAnalysis, userSize CouchSize, diag Diagnostics) (float64, CouchSize) {
	if !vision.hasCategory("furniture") || (vision.CouchCushionCount == 0 && userSize == "") {
		return 0, ""
	}

	detectedSize := DefaultCouchSize(vision.CouchCushionCount, vision.CouchIsSectional)
	selectedSize := detectedSize
	if userSize != "" {
		selectedSize = userSize
	}

	if !IsValidCouchSize(selectedSize) {
		if diag != nil {
			diag.InvariantViolation("invalid_couch_size", "size", string(selectedSize))
		}
		selectedSize = CouchThreeSeat
	}

	// A smaller-than-detected selection is accepted but flagged.
	if detectedIdx, selectedIdx := couchSizeIndex(detectedSize), couchSizeIndex(selectedSize); detectedIdx >= 0 && selectedIdx < detectedIdx {
		if diag != nil {
			diag.InvariantViolation("couch_smaller_than_detected",
				"selected", string(selectedSize), "detected", string(detectedSize))
		}
	}

	couchBaseline := CouchBaseline(selectedSize)

	// The couch is assumed to be a fixed portion of the detected volume; the
	// blend takes the max of the discounted AI portion and the size baseline
	// so neither signal can single-handedly undercut the price.
	aiCouchPortion := vision.VolumeCubicYards * couchPortionOfVolume
	blended := math.Max(aiCouchPortion*blendDiscount, couchBaseline)

	return blended - aiCouchPortion, selectedSize
}

func heavyAddOn(heavy HeavyMaterial) float64 {
	if !heavy.Detected {
		return 0
	}
	return heavy.Config.AddOnMidpoint()
}

// estimateLegacy prices from the photo count when vision data is missing:
// photos act as a crude volume proxy, weighted by the average item-type
// multiplier, then zoned and bounded like the vision path.
func estimateLegacy(req EstimateRequest) EstimateResult {
	baseMin := float64(req.PhotoCount) * legacyPricePerPhotoMin
	baseMax := float64(req.PhotoCount) * legacyPricePerPhotoMax

	itemMultiplier := legacyItemMultiplier(req.ItemTypes)
	baseMin *= itemMultiplier
	baseMax *= itemMultiplier

	zone := ResolveZone(req.ZipCode)
	baseMin *= zone.Multiplier
	baseMax *= zone.Multiplier

	finalMin := int(math.Max(legacyAbsoluteMin, math.Round(baseMin)))
	finalMax := int(math.Min(legacyAbsoluteMax, math.Round(baseMax)))

	safeMin, safeMax := finalMin, finalMax
	if safeMin > safeMax {
		safeMin, safeMax = safeMax, safeMin
	}

	confidence := legacyConfidence(req.PhotoCount, req.ItemTypes, req.Notes)

	return EstimateResult{
		MinPrice:          safeMin,
		MaxPrice:          safeMax,
		Confidence:        confidence,
		Assumptions:       legacyAssumptions(req, itemMultiplier, zone, confidence),
		Zone:              zone.ZoneID,
		Method:            "legacy",
		ServiceTypeUsed:   "unknown",
		ServiceTypeSource: SourceLegacyFallback,
	}
}

func legacyItemMultiplier(itemTypes []string) float64 {
	if len(itemTypes) == 0 {
		return 1.0
	}

	sum := 0.0
	for _, t := range itemTypes {
		if m, ok := legacyItemTypeMultipliers[t]; ok {
			sum += m
		} else {
			sum += 1.0
		}
	}
	return sum / float64(len(itemTypes))
}

func legacyConfidence(photoCount int, itemTypes []string, notes string) Confidence {
	score := 1
	if photoCount >= 4 {
		score = 3
	} else if photoCount >= 2 {
		score = 2
	}

	if len(itemTypes) > 0 {
		score += 2
	}
	if len(strings.TrimSpace(notes)) > 20 {
		score++
	}

	switch {
	case score <= 2:
		return ConfidenceLow
	case score <= 4:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

type assumptionInputs struct {
	adjustedVolume float64
	rawVolume      float64
	serviceType    ServiceType
	source         ServiceTypeSource
	categories     []string
	accessType     AccessType
	heavy          HeavyMaterial
	zone           ZoneResult
	confidence     Confidence
	couchSizeUsed  CouchSize
	visionNotes    string
}

var itemTypeLabels = map[string]string{
	"furniture":    "furniture",
	"appliances":   "appliances",
	"yard_waste":   "yard waste",
	"hot_tub":      "hot tub/spa",
	"construction": "construction debris",
	"electronics":  "electronics",
	"other":        "miscellaneous items",
}

var heavyMaterialLabels = map[string]string{
	"construction":     "Heavy construction debris",
	"yard_debris":      "Heavy yard waste",
	"appliances_heavy": "Heavy appliances",
	"special_items":    "Special heavy items",
}

var accessLabels = map[AccessType]string{
	AccessCurbside:     "Curbside/driveway access",
	AccessGroundGarage: "Ground-level garage",
	AccessInsideHome:   "Inside home",
	AccessUpstairs:     "Upstairs/multi-level",
}

func formatItemType(itemType string) string {
	if label, ok := itemTypeLabels[itemType]; ok {
		return label
	}
	return itemType
}

// visionAssumptions builds the human-readable explanation shown next to a
// vision-based price range.
func visionAssumptions(in assumptionInputs) string {
	var parts []string

	volumeDesc := "large load"
	switch {
	case in.adjustedVolume <= 2:
		volumeDesc = "small load"
	case in.adjustedVolume <= 5:
		volumeDesc = "moderate load"
	case in.adjustedVolume <= 10:
		volumeDesc = "substantial load"
	}

	volumeText := fmt.Sprintf("AI-analyzed volume: ~%g cubic yards (%s)", in.adjustedVolume, volumeDesc)
	if in.adjustedVolume > in.rawVolume {
		volumeText += fmt.Sprintf(" - adjusted from %g yd to meet 2 yd minimum", in.rawVolume)
	}
	parts = append(parts, volumeText)

	serviceText := "Service: " + ServiceConfig(in.serviceType).DisplayName
	switch in.source {
	case SourceUserConfirmed:
		serviceText += " (confirmed by you)"
	case SourceAIInferred:
		serviceText += " (AI detected)"
	default:
		serviceText += " (default - please confirm location)"
	}
	parts = append(parts, serviceText)

	accessLabel := accessLabels[in.accessType]
	if accessLabel == "" {
		accessLabel = "Standard"
	}
	parts = append(parts, "Access: "+accessLabel)

	if len(in.categories) > 0 {
		labels := make([]string, 0, len(in.categories))
		for _, category := range in.categories {
			if category == "furniture" && in.couchSizeUsed != "" {
				labels = append(labels, CouchLabel(in.couchSizeUsed))
				continue
			}
			labels = append(labels, formatItemType(category))
		}
		parts = append(parts, "Items detected: "+strings.Join(labels, ", "))
	}

	if in.heavy.Detected {
		label := heavyMaterialLabels[in.heavy.Type]
		if label == "" {
			label = "Heavy materials"
		}
		parts = append(parts, fmt.Sprintf("Heavy materials: %s (+%d%% rate)",
			label, int(math.Round((in.heavy.Config.RateMultiplier-1)*100))))
	}

	if in.zone.Multiplier == 1.0 {
		parts = append(parts, fmt.Sprintf("Location: %s (standard pricing)", in.zone.Label))
	} else {
		parts = append(parts, fmt.Sprintf("Location: %s (+%d%% distance fee)",
			in.zone.Label, int(math.Round((in.zone.Multiplier-1)*100))))
	}

	switch in.confidence {
	case ConfidenceHigh:
		parts = append(parts, "AI confidence: High - Clear photos, accurate estimate")
	case ConfidenceMedium:
		parts = append(parts, "AI confidence: Medium - Good estimate, on-site verification recommended")
	default:
		parts = append(parts, "AI confidence: Low - Wide range due to photo quality, on-site assessment recommended")
	}

	if in.visionNotes != "" {
		parts = append(parts, in.visionNotes)
	}

	return strings.Join(parts, ". ") + "."
}

func legacyAssumptions(req EstimateRequest, itemMultiplier float64, zone ZoneResult, confidence Confidence) string {
	var parts []string

	switch {
	case req.PhotoCount == 1:
		parts = append(parts, "Based on 1 photo showing minimal volume")
	case req.PhotoCount <= 3:
		parts = append(parts, fmt.Sprintf("Based on %d photos showing moderate volume", req.PhotoCount))
	default:
		parts = append(parts, fmt.Sprintf("Based on %d photos showing substantial volume", req.PhotoCount))
	}

	if len(req.ItemTypes) > 0 {
		labels := make([]string, 0, len(req.ItemTypes))
		for _, t := range req.ItemTypes {
			labels = append(labels, formatItemType(t))
		}
		parts = append(parts, "including "+strings.Join(labels, ", "))
	} else {
		parts = append(parts, "with unspecified item types")
	}

	if zone.Multiplier == 1.0 {
		parts = append(parts, fmt.Sprintf("in %s (standard pricing)", zone.Label))
	} else {
		parts = append(parts, fmt.Sprintf("in %s (%d%% distance surcharge)",
			zone.Label, int(math.Round((zone.Multiplier-1)*100))))
	}

	if confidence == ConfidenceLow {
		parts = append(parts, "Low confidence - recommend on-site assessment")
	} else if confidence == ConfidenceHigh {
		parts = append(parts, "High confidence estimate")
	}

	parts = append(parts, "Assumes ground-level access and standard disposal")

	return strings.Join(parts, ". ") + "."
}
