package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const ocrPrompt = "Transcribe all readable text in this image exactly as written. " +
	"Keep the original line breaks. Output only the transcribed text."

// maxEmbedTextLength caps a single sentence sent for embedding.
const maxEmbedTextLength = 40000

type GeminiService interface {
	Embedder
	ImageTextExtractor
	EmbedModel() string
}

type GeminiOptions struct {
	APIKey            string
	EmbedModel        string
	OCRModel          string
	RequestsPerSecond float64
	Burst             int
	BatchSize         int
}

type geminiService struct {
	client     *genai.Client
	ocrModel   string
	embedModel string
	batchSize  int
	limiter    *rate.Limiter
}

// NewGeminiService creates the client once; the returned service is shared
// read-only by every request.
func NewGeminiService(opts GeminiOptions) (GeminiService, error) {
	ctx := context.Background()

	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 || batchSize > 100 {
		batchSize = 100
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &geminiService{
		client:     client,
		ocrModel:   opts.OCRModel,
		embedModel: opts.EmbedModel,
		batchSize:  batchSize,
		limiter:    rate.NewLimiter(limit, burst),
	}, nil
}

func (g *geminiService) EmbedModel() string {
	return g.embedModel
}

// EmbedSentences implements Embedder. Sentences are sent in batches; the
// returned vectors are in input order.
func (g *geminiService) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(sentences))

	for start := 0; start < len(sentences); start += g.batchSize {
		end := min(start+g.batchSize, len(sentences))

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		contents := make([]*genai.Content, 0, end-start)
		for _, sentence := range sentences[start:end] {
			contents = append(contents, genai.NewContentFromText(truncateText(sentence, maxEmbedTextLength), genai.RoleUser))
		}

		result, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, &genai.EmbedContentConfig{
			TaskType: "SEMANTIC_SIMILARITY",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if result == nil || len(result.Embeddings) != end-start {
			got := 0
			if result != nil {
				got = len(result.Embeddings)
			}
			return nil, fmt.Errorf("expected %d embeddings, got %d", end-start, got)
		}

		for _, embedding := range result.Embeddings {
			vectors = append(vectors, embedding.Values)
		}
	}

	return vectors, nil
}

// ExtractImageText implements ImageTextExtractor using the multimodal model.
func (g *geminiService) ExtractImageText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	temperature := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 8192,
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(ocrPrompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.ocrModel, contents, config)
	if err != nil {
		log.Printf("❌ Gemini OCR error: %v\n", err)
		return "", fmt.Errorf("failed to extract image text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	return strings.TrimSpace(resp.Text()), nil
}

// truncateText cuts s to at most limit bytes without splitting a rune.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
