package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

// Usage: go run ./scripts -jd job.pdf resume1.pdf resume2.docx
func main() {
	jdPath := flag.String("jd", "", "path to the job description file")
	flag.Parse()

	resumePaths := flag.Args()
	if *jdPath == "" || len(resumePaths) == 0 {
		log.Fatalf("❌ Usage: compare_files -jd <job description> <resume> [resume...]")
	}

	log.Println("🚀 Starting resume comparison...")

	if err := run(*jdPath, resumePaths, os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(jdPath string, resumePaths []string, out io.Writer) error {
	// Load configuration
	cfg := config.Load()

	vocab, strategy, err := textproc.ResolveVocabulary(
		cfg.Matching.VocabularyPath,
		textproc.ParseTokenizerStrategy(cfg.Matching.Tokenizer),
	)
	if err != nil {
		log.Printf("⚠️  Failed to load vocabulary, using simple tokenizer: %v\n", err)
	}

	// Initialize services
	geminiService, err := services.NewGeminiService(services.GeminiOptions{
		APIKey:            cfg.Gemini.APIKey,
		EmbedModel:        cfg.Gemini.EmbedModel,
		OCRModel:          cfg.Gemini.OCRModel,
		RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
		Burst:             cfg.Gemini.Burst,
		BatchSize:         cfg.Gemini.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	keywordExtractor := textproc.NewKeywordExtractor(strategy, vocab)
	p := pipeline{
		loader: services.NewDocumentLoader(
			services.NewTextExtractor(services.NewPDFParserService(), geminiService),
			textproc.NewRelevanceFilter(vocab.RelevanceKeywords),
		),
		comparator: services.NewComparator(
			services.NewScorer(textproc.NewSentenceSplitter(), geminiService),
			keywordExtractor,
		),
		minContentLength: cfg.Matching.MinContentLength,
	}

	return p.compare(context.Background(), os.TempDir(), jdPath, resumePaths, out)
}

type pipeline struct {
	loader           services.DocumentLoader
	comparator       services.Comparator
	minContentLength int
}

// compare ranks the resumes against the job description and writes the
// result as JSON. Files are staged under a scratch directory in scratchRoot
// that is removed on return.
func (p pipeline) compare(ctx context.Context, scratchRoot, jdPath string, resumePaths []string, out io.Writer) error {
	uploads, err := readFiles(jdPath, resumePaths)
	if err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(scratchRoot, "resume-matcher-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	batch := services.NewUploadBatch(services.NewStorageService(scratch))
	defer batch.Release(ctx)

	log.Printf("📖 Extracting text from %d files...", len(uploads))
	docs, err := p.loader.Load(ctx, batch, uploads)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	jd := docs[0]
	if textproc.Length(jd.Text) < p.minContentLength {
		return errors.New("job description content is too short or unreadable")
	}

	var resumes []models.Document
	for _, doc := range docs[1:] {
		if textproc.Length(doc.Text) < p.minContentLength {
			log.Printf("   ⚠️  Skipping %s: too little content", doc.Name)
			continue
		}
		resumes = append(resumes, doc)
	}

	log.Printf("🔄 Scoring %d resumes...", len(resumes))
	results, err := p.comparator.Compare(ctx, resumes, jd.Text)
	if err != nil {
		return fmt.Errorf("failed to compare resumes: %w", err)
	}

	// Summary
	log.Println(strings.Repeat("=", 60))
	for i, r := range results {
		log.Printf("   %d. %s: %.2f", i+1, r.ResumeName, r.Score)
	}
	log.Println(strings.Repeat("=", 60))

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(models.MultiMatchResponse{
		Success:      true,
		Results:      results,
		TotalResumes: len(results),
	}); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func readFiles(jdPath string, resumePaths []string) ([]services.Upload, error) {
	uploads := make([]services.Upload, 0, len(resumePaths)+1)
	for i, path := range append([]string{jdPath}, resumePaths...) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		fileType := "resume"
		if i == 0 {
			fileType = "jd"
		}
		uploads = append(uploads, services.Upload{
			FileType: fileType,
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	return uploads, nil
}
