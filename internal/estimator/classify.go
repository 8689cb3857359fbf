package estimator

import "strings"

// HeavyMaterial is the result of scanning categories and concerns for
// heavy-material triggers.
type HeavyMaterial struct {
	Detected bool
	Type     string
	Config   HeavyMaterialConfig
	Triggers []string
}

// Multiplier returns the heavy-material rate multiplier, 1.0 when nothing
// was detected.
func (h HeavyMaterial) Multiplier() float64 {
	if !h.Detected {
		return 1.0
	}
	return h.Config.RateMultiplier
}

// DetectHeavyMaterials scans the combined category and concern lists for
// heavy-material trigger substrings. When multiple groups match, the group
// with the strictly larger rate multiplier wins; ties keep the group declared
// first.
func DetectHeavyMaterials(categories, concerns []string) HeavyMaterial {
	combined := make([]string, 0, len(categories)+len(concerns))
	for _, v := range categories {
		combined = append(combined, strings.ToLower(v))
	}
	for _, v := range concerns {
		combined = append(combined, strings.ToLower(v))
	}

	var result HeavyMaterial
	for _, materialType := range heavyMaterialOrder {
		cfg := heavyMaterials[materialType]

		var matched []string
		for _, trigger := range cfg.Triggers {
			for _, entry := range combined {
				if strings.Contains(entry, trigger) {
					matched = append(matched, trigger)
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		if !result.Detected || cfg.RateMultiplier > result.Config.RateMultiplier {
			result = HeavyMaterial{
				Detected: true,
				Type:     materialType,
				Config:   cfg,
				Triggers: matched,
			}
		}
	}

	return result
}

// AccessMultiplierFor returns the price multiplier for an access type.
// Unknown or missing access defaults to the interior multiplier, the
// conservative choice.
func AccessMultiplierFor(accessType AccessType) float64 {
	if m, ok := accessMultipliers[accessType]; ok {
		return m
	}
	return accessMultipliers[AccessInsideHome]
}

// NormalizeServiceType collapses access-level service descriptions onto the
// two billing types. Anything unrecognized bills as full service, the safer
// assumption.
func NormalizeServiceType(serviceType string) ServiceType {
	switch serviceType {
	case string(ServiceCurbside):
		return ServiceCurbside
	case string(AccessGroundGarage), string(AccessInsideHome), string(AccessUpstairs), string(ServiceFullService):
		return ServiceFullService
	default:
		return ServiceFullService
	}
}
