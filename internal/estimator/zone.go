package estimator

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed zones.yaml
var zonesYAML []byte

// Zone is one pricing tier: a set of postal codes sharing a multiplier.
// A zone with no ZIP list is the catch-all default.
type Zone struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label"`
	Multiplier float64  `yaml:"multiplier"`
	Zips       []string `yaml:"zips"`
}

// ZoneResult is the resolved zone for a ZIP code.
type ZoneResult struct {
	ZoneID     string  `json:"zone"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

type zoneTable struct {
	Zones []Zone `yaml:"zones"`
}

var zones []Zone

func init() {
	var table zoneTable
	if err := yaml.Unmarshal(zonesYAML, &table); err != nil {
		panic(fmt.Sprintf("estimator: invalid embedded zone table: %v", err))
	}
	if len(table.Zones) == 0 {
		panic("estimator: embedded zone table is empty")
	}
	zones = table.Zones
}

// ResolveZone maps a ZIP code to its pricing zone. The ZIP is normalized to
// its first five digits; the first zone listing it wins. Unknown ZIPs
// resolve to the final catch-all zone, which carries the highest multiplier.
func ResolveZone(zipCode string) ZoneResult {
	normalized := strings.TrimSpace(zipCode)
	if len(normalized) > 5 {
		normalized = normalized[:5]
	}

	for _, zone := range zones {
		for _, zip := range zone.Zips {
			if zip == normalized {
				return ZoneResult{ZoneID: zone.ID, Multiplier: zone.Multiplier, Label: zone.Label}
			}
		}
	}

	fallback := zones[len(zones)-1]
	return ZoneResult{ZoneID: fallback.ID, Multiplier: fallback.Multiplier, Label: fallback.Label}
}

// AllZones returns the configured zones in tier order, for reference
// endpoints and tests.
func AllZones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}
