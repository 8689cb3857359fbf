package estimator

import "testing"

func TestResolveZone(t *testing.T) {
	cases := []struct {
		name           string
		zip            string
		wantZone       string
		wantMultiplier float64
	}{
		{"core zip", "92101", "zone_1_core", 1.0},
		{"extended zip", "92131", "zone_2_extended", 1.15},
		{"county zip", "91910", "zone_3_county", 1.3},
		{"coronado", "92118", "zone_3_county", 1.3},
		{"unknown zip", "00000", "zone_4_default", 1.5},
		{"out of state", "10001", "zone_4_default", 1.5},
		{"zip+4 normalized", "92101-1234", "zone_1_core", 1.0},
		{"whitespace trimmed", " 92020 ", "zone_3_county", 1.3},
		{"empty zip", "", "zone_4_default", 1.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveZone(tc.zip)
			if got.ZoneID != tc.wantZone {
				t.Fatalf("ResolveZone(%q) zone = %q, want %q", tc.zip, got.ZoneID, tc.wantZone)
			}
			if got.Multiplier != tc.wantMultiplier {
				t.Fatalf("ResolveZone(%q) multiplier = %v, want %v", tc.zip, got.Multiplier, tc.wantMultiplier)
			}
		})
	}
}

func TestZoneTable_DefaultHasHighestMultiplier(t *testing.T) {
	all := AllZones()
	if len(all) == 0 {
		t.Fatal("expected configured zones")
	}

	fallback := all[len(all)-1]
	if len(fallback.Zips) != 0 {
		t.Fatalf("expected last zone to be the catch-all, has %d zips", len(fallback.Zips))
	}

	for _, zone := range all {
		if zone.Multiplier > fallback.Multiplier {
			t.Fatalf("zone %s multiplier %v exceeds default %v", zone.ID, zone.Multiplier, fallback.Multiplier)
		}
	}
}

func TestZoneTable_MultipliersNonDecreasing(t *testing.T) {
	all := AllZones()
	for i := 1; i < len(all); i++ {
		if all[i].Multiplier < all[i-1].Multiplier {
			t.Fatalf("zone %s multiplier %v below preceding tier %v",
				all[i].ID, all[i].Multiplier, all[i-1].Multiplier)
		}
	}
}
