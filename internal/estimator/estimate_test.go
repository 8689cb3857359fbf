package estimator

import (
	"reflect"
	"testing"
)

type recordingDiag struct {
	checks []string
}

func (r *recordingDiag) InvariantViolation(check string, args ...any) {
	r.checks = append(r.checks, check)
}

func TestEstimatePrice_VisionHighConfidenceInsideHome(t *testing.T) {
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards: 3.0,
			ItemCategories:   []string{"electronics"},
			Confidence:       ConfidenceHigh,
		},
		UserServiceType: "full_service",
		UserAccessType:  "inside_home",
		ZipCode:         "92101",
	}

	result := EstimatePrice(req, nil)

	// base = 3.0 * 40 * 1.2 = 144, ±15%
	if result.MinPrice != 122 {
		t.Fatalf("expected min 122, got %d", result.MinPrice)
	}
	if result.MaxPrice != 166 {
		t.Fatalf("expected max 166, got %d", result.MaxPrice)
	}
	if result.ServiceTypeUsed != ServiceFullService {
		t.Fatalf("expected full_service, got %s", result.ServiceTypeUsed)
	}
	if result.ServiceTypeSource != SourceUserConfirmed {
		t.Fatalf("expected user_confirmed source, got %s", result.ServiceTypeSource)
	}
	if result.CubicYardsAdjusted != 3.0 {
		t.Fatalf("expected adjusted volume 3.0, got %v", result.CubicYardsAdjusted)
	}
	if result.Method != "vision" {
		t.Fatalf("expected vision method, got %s", result.Method)
	}
}

func TestEstimatePrice_HeavyMaterialsWidenRange(t *testing.T) {
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards: 3.0,
			ItemCategories:   []string{"construction"},
			Confidence:       ConfidenceHigh,
		},
		UserServiceType: "full_service",
		UserAccessType:  "inside_home",
		ZipCode:         "92101",
	}

	result := EstimatePrice(req, nil)

	// base = (3.0*40*1.5 + 100) * 1.2 = 336, ±(15%+10%)
	if result.MinPrice != 252 {
		t.Fatalf("expected min 252, got %d", result.MinPrice)
	}
	if result.MaxPrice != 420 {
		t.Fatalf("expected max 420, got %d", result.MaxPrice)
	}
	if !result.HeavyMaterialsDetected {
		t.Fatal("expected heavy materials detected")
	}
	if result.HeavyMaterialType != "construction" {
		t.Fatalf("expected construction, got %s", result.HeavyMaterialType)
	}
	if result.Breakdown.RangeWidthPercent != 25 {
		t.Fatalf("expected 25%% range width, got %d", result.Breakdown.RangeWidthPercent)
	}
}

func TestEstimatePrice_LegacyPhotoCount(t *testing.T) {
	req := EstimateRequest{
		PhotoCount: 2,
		ItemTypes:  []string{"furniture"},
		ZipCode:    "92131",
	}

	result := EstimatePrice(req, nil)

	// min = 2*65*1.0*1.15 = 149.5 -> 150, max = 2*110*1.0*1.15 = 253
	if result.MinPrice != 150 {
		t.Fatalf("expected min 150, got %d", result.MinPrice)
	}
	if result.MaxPrice != 253 {
		t.Fatalf("expected max 253, got %d", result.MaxPrice)
	}
	if result.Method != "legacy" {
		t.Fatalf("expected legacy method, got %s", result.Method)
	}
	if result.ServiceTypeSource != SourceLegacyFallback {
		t.Fatalf("expected legacy_fallback source, got %s", result.ServiceTypeSource)
	}
}

func TestEstimatePrice_LegacyFloorsApply(t *testing.T) {
	result := EstimatePrice(EstimateRequest{PhotoCount: 1, ZipCode: "92101"}, nil)

	// 1*65 = 65 is below the legacy floor of 120
	if result.MinPrice != 120 {
		t.Fatalf("expected legacy floor 120, got %d", result.MinPrice)
	}
	if result.MinPrice > result.MaxPrice {
		t.Fatalf("range inverted: [%d,%d]", result.MinPrice, result.MaxPrice)
	}
}

func TestEstimatePrice_BoundsHoldForExtremeInputs(t *testing.T) {
	cases := []struct {
		name string
		req  EstimateRequest
	}{
		{
			name: "huge volume heavy upstairs far zone",
			req: EstimateRequest{
				Vision: &VisionAnalysis{
					VolumeCubicYards: 20,
					ItemCategories:   []string{"construction", "hot_tub"},
					Confidence:       ConfidenceLow,
				},
				UserAccessType: "upstairs",
				ZipCode:        "00000",
			},
		},
		{
			name: "tiny volume curbside",
			req: EstimateRequest{
				Vision: &VisionAnalysis{
					VolumeCubicYards: 1,
					Confidence:       ConfidenceHigh,
				},
				UserServiceType: "curbside",
				ZipCode:         "92101",
			},
		},
		{
			name: "legacy many photos",
			req:  EstimateRequest{PhotoCount: 30, ItemTypes: []string{"hot_tub"}, ZipCode: "00000"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := EstimatePrice(tc.req, nil)
			if result.MinPrice > result.MaxPrice {
				t.Fatalf("range inverted: [%d,%d]", result.MinPrice, result.MaxPrice)
			}
			if result.MinPrice < AbsoluteMinPrice {
				t.Fatalf("min %d below absolute minimum", result.MinPrice)
			}
			if result.MaxPrice > AbsoluteMaxPrice {
				t.Fatalf("max %d above absolute maximum", result.MaxPrice)
			}
		})
	}
}

func TestEstimatePrice_Idempotent(t *testing.T) {
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards:  6.5,
			ItemCategories:    []string{"furniture", "appliances"},
			Confidence:        ConfidenceMedium,
			CouchCushionCount: 3,
		},
		UserAccessType: "inside_home",
		ZipCode:        "92020",
	}

	first := EstimatePrice(req, nil)
	second := EstimatePrice(req, nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}
}

func TestEstimatePrice_ServiceTypeResolutionOrder(t *testing.T) {
	cases := []struct {
		name       string
		userType   string
		inferred   string
		wantType   ServiceType
		wantSource ServiceTypeSource
	}{
		{"user beats inference", "curbside", "full_service", ServiceCurbside, SourceUserConfirmed},
		{"inference when no user value", "", "curbside", ServiceCurbside, SourceAIInferred},
		{"unknown inference falls to default", "", "unknown", ServiceFullService, SourceDefault},
		{"nothing falls to default", "", "", ServiceFullService, SourceDefault},
		{"access-level user value normalizes", "upstairs", "", ServiceFullService, SourceUserConfirmed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := EstimateRequest{
				Vision: &VisionAnalysis{
					VolumeCubicYards:    4,
					Confidence:          ConfidenceMedium,
					InferredServiceType: tc.inferred,
				},
				UserServiceType: tc.userType,
				ZipCode:         "92101",
			}

			result := EstimatePrice(req, nil)
			if result.ServiceTypeUsed != tc.wantType {
				t.Fatalf("expected %s, got %s", tc.wantType, result.ServiceTypeUsed)
			}
			if result.ServiceTypeSource != tc.wantSource {
				t.Fatalf("expected source %s, got %s", tc.wantSource, result.ServiceTypeSource)
			}
		})
	}
}

func TestEstimatePrice_MinimumVolumeFloor(t *testing.T) {
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards: 1,
			Confidence:       ConfidenceHigh,
		},
		UserServiceType: "full_service",
		ZipCode:         "92101",
	}

	result := EstimatePrice(req, nil)
	if result.CubicYardsAdjusted != 2 {
		t.Fatalf("expected volume floored at 2, got %v", result.CubicYardsAdjusted)
	}
	if result.CubicYardsRaw != 1 {
		t.Fatalf("expected raw volume 1, got %v", result.CubicYardsRaw)
	}
}

func TestEstimatePrice_CouchBlendingAdjustsVolume(t *testing.T) {
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards:  4,
			ItemCategories:    []string{"furniture"},
			Confidence:        ConfidenceHigh,
			CouchCushionCount: 5,
		},
		UserServiceType: "full_service",
		ZipCode:         "92101",
	}

	result := EstimatePrice(req, nil)

	// aiCouchPortion = 4*0.4 = 1.6; blended = max(1.44, 2.5) = 2.5;
	// adjusted = 4 + (2.5 - 1.6) = 4.9
	if result.CouchSizeUsed != CouchSmallSectional {
		t.Fatalf("expected small_sectional, got %s", result.CouchSizeUsed)
	}
	if diff := result.CubicYardsAdjusted - 4.9; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected adjusted volume 4.9, got %v", result.CubicYardsAdjusted)
	}
}

func TestEstimatePrice_CouchSizeMonotonicity(t *testing.T) {
	sizes := []CouchSize{CouchTwoSeat, CouchThreeSeat, CouchFourSeat, CouchSmallSectional, CouchLargeSectional}

	prev := -1.0
	for _, size := range sizes {
		req := EstimateRequest{
			Vision: &VisionAnalysis{
				VolumeCubicYards:  4,
				ItemCategories:    []string{"furniture"},
				Confidence:        ConfidenceHigh,
				CouchCushionCount: 3,
			},
			UserServiceType: "full_service",
			UserCouchSize:   string(size),
			ZipCode:         "92101",
		}

		result := EstimatePrice(req, &recordingDiag{})
		if result.CubicYardsAdjusted < prev {
			t.Fatalf("larger couch %s yielded smaller volume %v (previous %v)",
				size, result.CubicYardsAdjusted, prev)
		}
		prev = result.CubicYardsAdjusted
	}
}

func TestEstimatePrice_SmallerCouchSelectionFlagged(t *testing.T) {
	diag := &recordingDiag{}
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards:  4,
			ItemCategories:    []string{"furniture"},
			Confidence:        ConfidenceHigh,
			CouchCushionCount: 5,
		},
		UserCouchSize: string(CouchTwoSeat),
		ZipCode:       "92101",
	}

	EstimatePrice(req, diag)

	found := false
	for _, check := range diag.checks {
		if check == "couch_smaller_than_detected" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected couch_smaller_than_detected warning, got %v", diag.checks)
	}
}

func TestEstimatePrice_InvalidCouchSizeFallsBack(t *testing.T) {
	req := EstimateRequest{
		Vision: &VisionAnalysis{
			VolumeCubicYards:  4,
			ItemCategories:    []string{"furniture"},
			Confidence:        ConfidenceHigh,
			CouchCushionCount: 3,
		},
		UserCouchSize: "gigantic_sectional",
		ZipCode:       "92101",
	}

	result := EstimatePrice(req, &recordingDiag{})
	if result.CouchSizeUsed != CouchThreeSeat {
		t.Fatalf("expected fallback to 3_seat, got %s", result.CouchSizeUsed)
	}
}

func TestEstimatePrice_AccessDefaultsFollowServiceType(t *testing.T) {
	curbside := EstimatePrice(EstimateRequest{
		Vision:          &VisionAnalysis{VolumeCubicYards: 3, Confidence: ConfidenceHigh},
		UserServiceType: "curbside",
		ZipCode:         "92101",
	}, nil)
	if curbside.AccessType != AccessCurbside {
		t.Fatalf("expected curbside access default, got %s", curbside.AccessType)
	}

	full := EstimatePrice(EstimateRequest{
		Vision:          &VisionAnalysis{VolumeCubicYards: 3, Confidence: ConfidenceHigh},
		UserServiceType: "full_service",
		ZipCode:         "92101",
	}, nil)
	if full.AccessType != AccessGroundGarage {
		t.Fatalf("expected ground_garage access default, got %s", full.AccessType)
	}
}

func TestLegacyConfidenceScoring(t *testing.T) {
	cases := []struct {
		name       string
		photoCount int
		itemTypes  []string
		notes      string
		want       Confidence
	}{
		{"one photo nothing else", 1, nil, "", ConfidenceLow},
		{"two photos with items", 2, []string{"furniture"}, "", ConfidenceMedium},
		{"four photos items and notes", 4, []string{"furniture"}, "old couch and two dressers in garage", ConfidenceHigh},
		{"many photos no items", 5, nil, "", ConfidenceMedium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := legacyConfidence(tc.photoCount, tc.itemTypes, tc.notes)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
