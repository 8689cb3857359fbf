package estimator

import "testing"

func TestVisionAnalysisClamp(t *testing.T) {
	cases := []struct {
		name  string
		in    VisionAnalysis
		check func(t *testing.T, v VisionAnalysis)
	}{
		{
			name: "missing volume defaults",
			in:   VisionAnalysis{},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.VolumeCubicYards != defaultVisionVolume {
					t.Fatalf("expected default volume %d, got %v", defaultVisionVolume, v.VolumeCubicYards)
				}
			},
		},
		{
			name: "volume clamped to upper bound",
			in:   VisionAnalysis{VolumeCubicYards: 55},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.VolumeCubicYards != maxVisionVolume {
					t.Fatalf("expected %d, got %v", maxVisionVolume, v.VolumeCubicYards)
				}
			},
		},
		{
			name: "volume clamped to lower bound",
			in:   VisionAnalysis{VolumeCubicYards: 0.25},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.VolumeCubicYards != minVisionVolume {
					t.Fatalf("expected %d, got %v", minVisionVolume, v.VolumeCubicYards)
				}
			},
		},
		{
			name: "bad enums fall to safe defaults",
			in: VisionAnalysis{
				VolumeCubicYards:    5,
				AccessDifficulty:    "impossible",
				Confidence:          "certain",
				InferredServiceType: "teleport",
			},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.AccessDifficulty != "medium" {
					t.Fatalf("expected medium access, got %q", v.AccessDifficulty)
				}
				if v.Confidence != ConfidenceMedium {
					t.Fatalf("expected medium confidence, got %q", v.Confidence)
				}
				if v.InferredServiceType != "unknown" {
					t.Fatalf("expected unknown service type, got %q", v.InferredServiceType)
				}
			},
		},
		{
			name: "service confidence clamped",
			in:   VisionAnalysis{VolumeCubicYards: 5, ServiceTypeConfidence: 3.5},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.ServiceTypeConfidence != 1 {
					t.Fatalf("expected 1, got %v", v.ServiceTypeConfidence)
				}
			},
		},
		{
			name: "nil slices become empty",
			in:   VisionAnalysis{VolumeCubicYards: 5},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.ItemCategories == nil || v.DetectedItems == nil || v.SpecialConcerns == nil || v.ReasoningTags == nil {
					t.Fatal("expected all slices non-nil after clamp")
				}
			},
		},
		{
			name: "valid values untouched",
			in: VisionAnalysis{
				VolumeCubicYards:    7.5,
				AccessDifficulty:    "hard",
				Confidence:          ConfidenceHigh,
				InferredServiceType: "curbside",
			},
			check: func(t *testing.T, v VisionAnalysis) {
				if v.VolumeCubicYards != 7.5 || v.AccessDifficulty != "hard" ||
					v.Confidence != ConfidenceHigh || v.InferredServiceType != "curbside" {
					t.Fatalf("valid analysis mutated: %+v", v)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.in
			v.Clamp()
			tc.check(t, v)
		})
	}
}

func TestVisionAnalysisHasVolume(t *testing.T) {
	var nilAnalysis *VisionAnalysis
	if nilAnalysis.HasVolume() {
		t.Fatal("nil analysis should report no volume")
	}
	if (&VisionAnalysis{}).HasVolume() {
		t.Fatal("zero volume should report no volume")
	}
	if !(&VisionAnalysis{VolumeCubicYards: 3}).HasVolume() {
		t.Fatal("expected volume reported")
	}
}
