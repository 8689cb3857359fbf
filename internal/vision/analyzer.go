// Package vision analyzes junk removal photos with the Gemini API and
// produces the typed analysis the estimator consumes. The package owns all
// network concerns; on any failure it returns a deterministic photo-count
// fallback so the caller always proceeds.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"junkportal_backend/internal/estimator"
	"junkportal_backend/platform/config"
	"junkportal_backend/platform/logger"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

const (
	maxPhotoBytes        = 8 << 20
	photoFetchTimeout    = 15 * time.Second
	fallbackYardsPerShot = 2.5
	fallbackMaxYards     = 15
)

// Analyzer calls the Gemini vision model. A nil-client Analyzer is valid and
// always returns the fallback analysis; this is the disabled state when no
// API key is configured.
type Analyzer struct {
	client     *genai.Client
	cfg        config.VisionConfig
	log        *logger.Logger
	httpClient *http.Client
}

// NewAnalyzer builds the vision analyzer. When vision is disabled by
// configuration the returned analyzer works in fallback-only mode.
func NewAnalyzer(ctx context.Context, cfg config.VisionConfig, log *logger.Logger) (*Analyzer, error) {
	a := &Analyzer{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: photoFetchTimeout,
		},
	}

	if !cfg.IsVisionEnabled() {
		log.Warn("vision analysis disabled; estimates use the photo-count fallback")
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	a.client = client

	return a, nil
}

// Enabled reports whether the analyzer has a live model client.
func (a *Analyzer) Enabled() bool {
	return a.client != nil
}

// Analyze inspects the given photo URLs and returns a clamped analysis.
// It never returns an error to the caller: any failure path degrades to the
// photo-count fallback so estimation stays deterministic.
func (a *Analyzer) Analyze(ctx context.Context, photoURLs []string) *estimator.VisionAnalysis {
	if len(photoURLs) > a.cfg.GetVisionMaxPhotos() {
		photoURLs = photoURLs[:a.cfg.GetVisionMaxPhotos()]
	}

	if !a.Enabled() || len(photoURLs) == 0 {
		return a.fallback(len(photoURLs))
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.GetVisionTimeout())
	defer cancel()

	photos, err := a.fetchPhotos(ctx, photoURLs)
	if err != nil {
		a.log.VisionFallback("photo fetch failed: "+err.Error(), len(photoURLs))
		return a.fallback(len(photoURLs))
	}

	parts := make([]*genai.Part, 0, len(photos)+1)
	parts = append(parts, genai.NewPartFromText(analysisPrompt))
	for _, photo := range photos {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: photo.mimeType, Data: photo.data},
		})
	}

	resp, err := a.client.Models.GenerateContent(ctx,
		a.cfg.GetVisionModel(),
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.3),
		},
	)
	if err != nil {
		a.log.VisionFallback("model call failed: "+err.Error(), len(photoURLs))
		return a.fallback(len(photoURLs))
	}

	analysis := parseResponse(resp.Text())
	if analysis == nil {
		a.log.VisionFallback("unparseable model response", len(photoURLs))
		return a.fallback(len(photoURLs))
	}

	analysis.Clamp()
	return analysis
}

type fetchedPhoto struct {
	mimeType string
	data     []byte
}

// fetchPhotos downloads the photos concurrently. One bad photo fails the
// whole batch; the caller then takes the fallback path.
func (a *Analyzer) fetchPhotos(ctx context.Context, urls []string) ([]fetchedPhoto, error) {
	photos := make([]fetchedPhoto, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, url := range urls {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return fmt.Errorf("build photo request: %w", err)
			}

			resp, err := a.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("fetch photo: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch photo: unexpected status %d", resp.StatusCode)
			}

			data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
			if err != nil {
				return fmt.Errorf("read photo body: %w", err)
			}

			mimeType := resp.Header.Get("Content-Type")
			if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
				mimeType = http.DetectContentType(data)
			}

			photos[i] = fetchedPhoto{mimeType: mimeType, data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return photos, nil
}

// rawAnalysis mirrors the JSON shape requested from the model.
type rawAnalysis struct {
	VolumeCubicYards    float64   `json:"volume_cubic_yards"`
	ItemCategories      []string  `json:"item_categories"`
	DetectedItems       []rawItem `json:"detected_items"`
	CouchCushionCount   *int      `json:"couch_cushion_count"`
	CouchIsSectional    *bool     `json:"couch_is_sectional"`
	AccessDifficulty    string    `json:"access_difficulty"`
	SpecialConcerns     []string  `json:"special_concerns"`
	Confidence          string    `json:"confidence"`
	Notes               string    `json:"notes"`
	InferredServiceType string    `json:"inferred_service_type"`
	ServiceConfidence   *float64  `json:"service_confidence"`
	ReasoningTags       []string  `json:"reasoning_tags"`
}

type rawItem struct {
	ItemName   string   `json:"item_name"`
	Quantity   *float64 `json:"quantity"`
	Confidence *float64 `json:"confidence"`
}

var volumeTextPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*cubic\s*yard`)

// parseResponse extracts the structured analysis from the model output.
// Returns nil only when nothing usable can be recovered.
func parseResponse(text string) *estimator.VisionAnalysis {
	jsonBody := extractJSON(text)
	if jsonBody == "" {
		return salvageFromText(text)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(jsonBody), &raw); err != nil {
		return salvageFromText(text)
	}

	items := make([]estimator.RawItem, 0, len(raw.DetectedItems))
	for _, item := range raw.DetectedItems {
		if item.ItemName == "" {
			continue
		}
		normalized := estimator.RawItem{Name: item.ItemName, Quantity: 1}
		if item.Quantity != nil {
			normalized.Quantity = *item.Quantity
		}
		if item.Confidence != nil {
			normalized.Confidence = *item.Confidence
		}
		items = append(items, normalized)
	}

	analysis := &estimator.VisionAnalysis{
		VolumeCubicYards:    raw.VolumeCubicYards,
		ItemCategories:      raw.ItemCategories,
		DetectedItems:       items,
		AccessDifficulty:    raw.AccessDifficulty,
		SpecialConcerns:     raw.SpecialConcerns,
		Confidence:          estimator.Confidence(raw.Confidence),
		Notes:               raw.Notes,
		InferredServiceType: raw.InferredServiceType,
		ReasoningTags:       raw.ReasoningTags,
	}
	if raw.Notes == "" {
		analysis.Notes = "AI-powered estimate based on photo analysis"
	}
	if raw.CouchCushionCount != nil {
		analysis.CouchCushionCount = *raw.CouchCushionCount
	}
	if raw.CouchIsSectional != nil {
		analysis.CouchIsSectional = *raw.CouchIsSectional
	}
	if raw.ServiceConfidence != nil {
		analysis.ServiceTypeConfidence = *raw.ServiceConfidence
	} else {
		analysis.ServiceTypeConfidence = 0.5
	}

	return analysis
}

// extractJSON pulls the outermost JSON object out of the response text,
// tolerating prose around it.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// salvageFromText recovers at least a volume figure from free-form output.
func salvageFromText(text string) *estimator.VisionAnalysis {
	match := volumeTextPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	volume, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}

	return &estimator.VisionAnalysis{
		VolumeCubicYards:      volume,
		Confidence:            estimator.ConfidenceLow,
		Notes:                 "Estimate based on partial AI analysis",
		InferredServiceType:   "unknown",
		ServiceTypeConfidence: 0.3,
	}
}

// fallback builds the deterministic no-vision analysis: photo count as a
// rough volume proxy, everything else conservative defaults. With zero
// photos the volume stays zero and the estimator takes its legacy path.
func (a *Analyzer) fallback(photoCount int) *estimator.VisionAnalysis {
	return &estimator.VisionAnalysis{
		VolumeCubicYards:      math.Min(fallbackMaxYards, float64(photoCount)*fallbackYardsPerShot),
		ItemCategories:        []string{},
		DetectedItems:         []estimator.RawItem{},
		SpecialConcerns:       []string{},
		ReasoningTags:         []string{},
		AccessDifficulty:      "medium",
		Confidence:            estimator.ConfidenceLow,
		Notes:                 "Fallback estimate - Vision AI unavailable. Based on photo count only.",
		InferredServiceType:   "unknown",
		ServiceTypeConfidence: 0,
		Fallback:              true,
	}
}
