package estimator

// VisionAnalysis is the typed output contract of the photo-analysis
// collaborator. It is untrusted on arrival: callers must run Clamp once at
// the boundary, after which the rest of the engine treats it as valid.
type VisionAnalysis struct {
	VolumeCubicYards      float64     `json:"volume_cubic_yards"`
	ItemCategories        []string    `json:"item_categories"`
	DetectedItems         []RawItem   `json:"detected_items"`
	AccessDifficulty      string      `json:"access_difficulty"`
	SpecialConcerns       []string    `json:"special_concerns"`
	Confidence            Confidence  `json:"confidence"`
	Notes                 string      `json:"notes"`
	CouchCushionCount     int         `json:"couch_cushion_count"`
	CouchIsSectional      bool        `json:"couch_is_sectional"`
	InferredServiceType   string      `json:"inferred_service_type"`
	ServiceTypeConfidence float64     `json:"service_confidence"`
	ReasoningTags         []string    `json:"reasoning_tags"`
	Fallback              bool        `json:"fallback,omitempty"`
}

// Vision output bounds.
const (
	minVisionVolume     = 1
	maxVisionVolume     = 20
	defaultVisionVolume = 3
)

// Clamp normalizes the analysis in place: out-of-range numerics are clamped,
// unrecognized enums fall back to safe defaults, and nil slices become empty.
// After Clamp the value satisfies the input invariants of EstimatePrice.
func (v *VisionAnalysis) Clamp() {
	if v.VolumeCubicYards <= 0 {
		v.VolumeCubicYards = defaultVisionVolume
	}
	if v.VolumeCubicYards < minVisionVolume {
		v.VolumeCubicYards = minVisionVolume
	}
	if v.VolumeCubicYards > maxVisionVolume {
		v.VolumeCubicYards = maxVisionVolume
	}

	switch v.AccessDifficulty {
	case "easy", "medium", "hard":
	default:
		v.AccessDifficulty = "medium"
	}

	switch v.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		v.Confidence = ConfidenceMedium
	}

	switch v.InferredServiceType {
	case string(ServiceCurbside), string(ServiceFullService), "unknown":
	default:
		v.InferredServiceType = "unknown"
	}

	if v.ServiceTypeConfidence < 0 {
		v.ServiceTypeConfidence = 0
	}
	if v.ServiceTypeConfidence > 1 {
		v.ServiceTypeConfidence = 1
	}

	if v.CouchCushionCount < 0 {
		v.CouchCushionCount = 0
	}

	if v.ItemCategories == nil {
		v.ItemCategories = []string{}
	}
	if v.DetectedItems == nil {
		v.DetectedItems = []RawItem{}
	}
	if v.SpecialConcerns == nil {
		v.SpecialConcerns = []string{}
	}
	if v.ReasoningTags == nil {
		v.ReasoningTags = []string{}
	}
}

// HasVolume reports whether the analysis carries a usable volume signal.
// Without one the pipeline takes the legacy photo-count path.
func (v *VisionAnalysis) HasVolume() bool {
	return v != nil && v.VolumeCubicYards > 0
}

// hasCategory reports whether the analysis lists the given item category.
func (v *VisionAnalysis) hasCategory(category string) bool {
	for _, c := range v.ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}
