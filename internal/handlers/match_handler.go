package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

const insufficientContentMessage = "Too little meaningful content"

type MatchHandlerConfig struct {
	Loader     services.DocumentLoader
	Storage    services.StorageService
	Scorer     services.Scorer
	Comparator services.Comparator
	Keywords   services.KeywordMatcher
	// History is optional; nil disables match history.
	History repositories.MatchRunRepository
	// Publisher is optional; nil disables match events.
	Publisher        services.MatchPublisher
	MaxFileSize      int64
	MinContentLength int
	MaxResumes       int
}

type MatchHandler struct {
	loader           services.DocumentLoader
	storage          services.StorageService
	scorer           services.Scorer
	comparator       services.Comparator
	keywords         services.KeywordMatcher
	history          repositories.MatchRunRepository
	publisher        services.MatchPublisher
	maxFileSize      int64
	minContentLength int
	maxResumes       int
}

func NewMatchHandler(cfg MatchHandlerConfig) *MatchHandler {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = services.NewNoopPublisher()
	}

	return &MatchHandler{
		loader:           cfg.Loader,
		storage:          cfg.Storage,
		scorer:           cfg.Scorer,
		comparator:       cfg.Comparator,
		keywords:         cfg.Keywords,
		history:          cfg.History,
		publisher:        publisher,
		maxFileSize:      cfg.MaxFileSize,
		minContentLength: cfg.MinContentLength,
		maxResumes:       cfg.MaxResumes,
	}
}

// HandleMultiMatch handles POST /multi-match
func (h *MatchHandler) HandleMultiMatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jdFile := firstFile(form, "jd")
	if jdFile == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job description file is required",
		})
	}

	var resumeFiles []*multipart.FileHeader
	for i := 1; i <= h.maxResumes; i++ {
		if f := firstFile(form, fmt.Sprintf("resume%d", i)); f != nil {
			resumeFiles = append(resumeFiles, f)
		}
	}

	if len(resumeFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one resume file is required",
		})
	}

	files := append([]*multipart.FileHeader{jdFile}, resumeFiles...)
	if err := h.checkSizes(files); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	uploads, err := readUploads(jdFile, resumeFiles)
	if err != nil {
		return processingError(c, err)
	}

	ctx := c.UserContext()
	batch := services.NewUploadBatch(h.storage)
	defer batch.Release(context.Background())

	docs, err := h.loader.Load(ctx, batch, uploads)
	if err != nil {
		return processingError(c, err)
	}

	jd := docs[0]
	if textproc.Length(jd.Text) < h.minContentLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job description content is too short or unreadable",
		})
	}

	var resumes []models.Document
	for _, doc := range docs[1:] {
		if textproc.Length(doc.Text) >= h.minContentLength {
			resumes = append(resumes, doc)
		}
	}

	if len(resumes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid resume content found",
		})
	}

	results, err := h.comparator.Compare(ctx, resumes, jd.Text)
	if err != nil {
		return processingError(c, err)
	}

	matchID := h.record(models.MatchKindMulti, jd.Name, results)
	h.announce(models.MatchKindMulti, matchID, jd.Name, results)

	return c.JSON(models.MultiMatchResponse{
		Success:      true,
		Results:      results,
		TotalResumes: len(results),
		MatchID:      matchID,
	})
}

// HandleMatch handles POST /match
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	resumeFile := firstFile(form, "resume")
	jdFile := firstFile(form, "jd")
	if resumeFile == nil || jdFile == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Both resume and JD files are required",
		})
	}

	if err := h.checkSizes([]*multipart.FileHeader{jdFile, resumeFile}); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	uploads, err := readUploads(jdFile, []*multipart.FileHeader{resumeFile})
	if err != nil {
		return processingError(c, err)
	}

	ctx := c.UserContext()
	batch := services.NewUploadBatch(h.storage)
	defer batch.Release(context.Background())

	docs, err := h.loader.Load(ctx, batch, uploads)
	if err != nil {
		return processingError(c, err)
	}

	jd, resume := docs[0], docs[1]
	if textproc.Length(resume.Text) < h.minContentLength || textproc.Length(jd.Text) < h.minContentLength {
		return c.Status(fiber.StatusBadRequest).JSON(models.InsufficientContentResponse{
			Error:           insufficientContentMessage,
			MatchPercentage: 0.0,
			Warning:         insufficientContentMessage,
		})
	}

	similarity, err := h.scorer.Score(ctx, resume.Text, jd.Text)
	if err != nil {
		return processingError(c, err)
	}

	keywords := h.keywords.Extract(resume.Text, jd.Text)
	if keywords == nil {
		keywords = []string{}
	}

	result := models.ComparisonResult{
		ResumeName:      resume.Name,
		Score:           similarity.Score,
		MatchedKeywords: keywords,
		MatchReport:     services.TopReport(similarity.Report),
	}

	results := []models.ComparisonResult{result}
	matchID := h.record(models.MatchKindSingle, jd.Name, results)
	h.announce(models.MatchKindSingle, matchID, jd.Name, results)

	return c.JSON(models.SingleMatchResponse{
		FinalScore:      result.Score,
		MatchedKeywords: result.MatchedKeywords,
		MatchReport:     result.MatchReport,
		MatchID:         matchID,
	})
}

// HandleMethodNotAllowed answers non-POST requests on the match endpoints.
func (h *MatchHandler) HandleMethodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": "Invalid request method",
	})
}

func (h *MatchHandler) checkSizes(files []*multipart.FileHeader) error {
	for _, f := range files {
		if f.Size > h.maxFileSize {
			return fmt.Errorf("File %s too large. Max size: %d bytes", f.Filename, h.maxFileSize)
		}
	}
	return nil
}

func (h *MatchHandler) record(kind models.MatchKind, jdName string, results []models.ComparisonResult) string {
	if h.history == nil {
		return ""
	}

	run := models.NewMatchRun(kind, jdName, results)
	if err := h.history.Create(run); err != nil {
		log.Printf("⚠️  Failed to store match history: %v\n", err)
		return ""
	}
	return run.ID.String()
}

func (h *MatchHandler) announce(kind models.MatchKind, matchID, jdName string, results []models.ComparisonResult) {
	event := services.NewMatchEvent(kind, matchID, jdName, results)
	if err := h.publisher.PublishMatch(event); err != nil {
		log.Printf("⚠️  Failed to publish match event: %v\n", err)
	}
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if files, exists := form.File[field]; exists && len(files) > 0 {
		return files[0]
	}
	return nil
}

// readUploads reads the job description first, then resumes in field order.
func readUploads(jdFile *multipart.FileHeader, resumeFiles []*multipart.FileHeader) ([]services.Upload, error) {
	uploads := make([]services.Upload, 0, len(resumeFiles)+1)

	jd, err := readUpload(jdFile, "jd")
	if err != nil {
		return nil, err
	}
	uploads = append(uploads, jd)

	for _, f := range resumeFiles {
		resume, err := readUpload(f, "resume")
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, resume)
	}

	return uploads, nil
}

func readUpload(file *multipart.FileHeader, fileType string) (services.Upload, error) {
	src, err := file.Open()
	if err != nil {
		return services.Upload{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return services.Upload{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return services.Upload{
		FileType: fileType,
		Filename: file.Filename,
		Data:     data,
	}, nil
}

func processingError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fmt.Sprintf("Processing error: %v", err),
	})
}
