// Package imagegen produces post illustrations via the Gemini image API.
package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	appconfig "github.com/funkydonkey/fatherhood-is/internal/config"
	"github.com/funkydonkey/fatherhood-is/internal/middleware"
	"github.com/funkydonkey/fatherhood-is/internal/observability"

	"google.golang.org/genai"
)

// Generator produces a PNG illustration for the given post text.
type Generator interface {
	Generate(ctx context.Context, userText string) ([]byte, error)
}

// GeminiGenerator calls the Gemini image model with an optional style
// reference image.
type GeminiGenerator struct {
	client         *genai.Client
	model          string
	referenceImage []byte
}

// NewGeminiGenerator builds the Gemini client and loads the style reference
// image. A missing reference image degrades to text-only prompts.
func NewGeminiGenerator(ctx context.Context, cfg *appconfig.Config) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &GeminiGenerator{
		client: client,
		model:  cfg.GeminiModel,
	}

	if cfg.ReferenceImagePath != "" {
		ref, err := os.ReadFile(cfg.ReferenceImagePath)
		if err != nil {
			middleware.Logger.Warn("Reference image not found, proceeding without style reference",
				slog.String("path", cfg.ReferenceImagePath),
				slog.String("error", err.Error()),
			)
		} else {
			g.referenceImage = ref
		}
	}

	return g, nil
}

// Generate asks the model for an illustration of userText and returns the
// raw image bytes.
func (g *GeminiGenerator) Generate(ctx context.Context, userText string) ([]byte, error) {
	start := time.Now()
	ctx, span := observability.GetTraceLayer().TraceUpstreamCall(ctx, "gemini", "generate_content")
	defer span.End()

	var parts []*genai.Part
	if len(g.referenceImage) > 0 {
		parts = append(parts,
			genai.NewPartFromBytes(g.referenceImage, "image/jpeg"),
			genai.NewPartFromText(BuildReferencePrompt(userText)),
		)
	} else {
		parts = append(parts, genai.NewPartFromText(BuildPrompt(userText)))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: "2:3",
		},
	})
	if err != nil {
		observability.ImageGenerationFailures.WithLabelValues("api").Inc()
		observability.RecordErrorInContext(ctx, err)
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		observability.ImageGenerationFailures.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("image generation returned no candidates")
	}

	candidate := resp.Candidates[0]
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			observability.ImageGenerationDuration.Observe(time.Since(start).Seconds())
			return part.InlineData.Data, nil
		}
		if part.Text != "" {
			middleware.Logger.Warn("Image model returned text instead of image",
				slog.String("text", truncate(part.Text, 200)),
			)
		}
	}

	observability.ImageGenerationFailures.WithLabelValues("blocked").Inc()
	if candidate.FinishReason != "" {
		return nil, fmt.Errorf("image generation blocked: %s", candidate.FinishReason)
	}
	return nil, fmt.Errorf("no image data in response")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
