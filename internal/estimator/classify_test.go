package estimator

import "testing"

func TestDetectHeavyMaterials(t *testing.T) {
	cases := []struct {
		name           string
		categories     []string
		concerns       []string
		wantDetected   bool
		wantType       string
		wantMultiplier float64
	}{
		{"nothing heavy", []string{"furniture", "electronics"}, nil, false, "", 1.0},
		{"construction category", []string{"construction"}, nil, true, "construction", 1.5},
		{"concrete in concerns", []string{"furniture"}, []string{"concrete slabs in backyard"}, true, "construction", 1.5},
		{"yard waste", []string{"yard_waste"}, nil, true, "yard_debris", 1.2},
		{"appliances", []string{"appliances"}, nil, true, "appliances_heavy", 1.0},
		{"hot tub", []string{"hot_tub"}, nil, true, "special_items", 1.3},
		{"largest multiplier wins", []string{"yard_waste", "construction"}, nil, true, "construction", 1.5},
		{"special beats appliances", []string{"appliances"}, []string{"piano needs moving"}, true, "special_items", 1.3},
		{"case insensitive", []string{"CONSTRUCTION"}, nil, true, "construction", 1.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectHeavyMaterials(tc.categories, tc.concerns)
			if got.Detected != tc.wantDetected {
				t.Fatalf("detected = %v, want %v", got.Detected, tc.wantDetected)
			}
			if got.Type != tc.wantType {
				t.Fatalf("type = %q, want %q", got.Type, tc.wantType)
			}
			if got.Multiplier() != tc.wantMultiplier {
				t.Fatalf("multiplier = %v, want %v", got.Multiplier(), tc.wantMultiplier)
			}
		})
	}
}

func TestAccessMultiplierFor(t *testing.T) {
	cases := []struct {
		access AccessType
		want   float64
	}{
		{AccessCurbside, 1.0},
		{AccessGroundGarage, 1.0},
		{AccessInsideHome, 1.2},
		{AccessUpstairs, 1.35},
		{"", 1.2},
		{"basement", 1.2},
	}

	for _, tc := range cases {
		if got := AccessMultiplierFor(tc.access); got != tc.want {
			t.Fatalf("AccessMultiplierFor(%q) = %v, want %v", tc.access, got, tc.want)
		}
	}
}

func TestNormalizeServiceType(t *testing.T) {
	cases := []struct {
		in   string
		want ServiceType
	}{
		{"curbside", ServiceCurbside},
		{"full_service", ServiceFullService},
		{"ground_garage", ServiceFullService},
		{"inside_home", ServiceFullService},
		{"upstairs", ServiceFullService},
		{"", ServiceFullService},
		{"helicopter", ServiceFullService},
	}

	for _, tc := range cases {
		if got := NormalizeServiceType(tc.in); got != tc.want {
			t.Fatalf("NormalizeServiceType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDefaultCouchSize(t *testing.T) {
	cases := []struct {
		cushions  int
		sectional bool
		want      CouchSize
	}{
		{2, false, CouchTwoSeat},
		{3, false, CouchThreeSeat},
		{4, false, CouchFourSeat},
		{5, false, CouchSmallSectional},
		{7, false, CouchSmallSectional},
		{3, true, CouchSmallSectional},
		{0, false, CouchThreeSeat},
	}

	for _, tc := range cases {
		if got := DefaultCouchSize(tc.cushions, tc.sectional); got != tc.want {
			t.Fatalf("DefaultCouchSize(%d, %v) = %q, want %q", tc.cushions, tc.sectional, got, tc.want)
		}
	}
}

func TestCouchSizeAtLeast_SectionalNeverBelowSofa(t *testing.T) {
	for _, sectional := range []CouchSize{CouchSmallSectional, CouchLargeSectional} {
		if !CouchSizeAtLeast(sectional, CouchThreeSeat) {
			t.Fatalf("sectional %s priced below standard sofa", sectional)
		}
	}
}
