package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

// Upload is one file received in a match request.
type Upload struct {
	FileType string
	Filename string
	Data     []byte
}

// DocumentLoader stores uploads in a batch and turns them into prepared documents.
type DocumentLoader interface {
	Load(ctx context.Context, batch *UploadBatch, uploads []Upload) ([]models.Document, error)
}

type documentLoader struct {
	extractor TextExtractor
	filter    *textproc.RelevanceFilter
}

func NewDocumentLoader(extractor TextExtractor, filter *textproc.RelevanceFilter) DocumentLoader {
	return &documentLoader{
		extractor: extractor,
		filter:    filter,
	}
}

// Load implements DocumentLoader. Files are processed concurrently; the
// returned documents keep the order of uploads.
func (l *documentLoader) Load(ctx context.Context, batch *UploadBatch, uploads []Upload) ([]models.Document, error) {
	docs := make([]models.Document, len(uploads))
	g, gctx := errgroup.WithContext(ctx)

	for i, upload := range uploads {
		g.Go(func() error {
			if err := batch.Store(gctx, upload.FileType, upload.Filename, upload.Data); err != nil {
				return fmt.Errorf("failed to store %s: %w", upload.Filename, err)
			}

			raw, err := l.extractor.ExtractText(gctx, upload.Filename, upload.Data)
			if err != nil {
				return fmt.Errorf("failed to extract text from %s: %w", upload.Filename, err)
			}

			docs[i] = models.Document{
				Name:    upload.Filename,
				RawText: raw,
				Text:    l.filter.Prepare(raw),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}
