package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyenthenguyen/docx"
)

// TextExtractor turns an uploaded file into plain text, choosing the method
// from the file extension.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// ImageTextExtractor performs OCR on an image.
type ImageTextExtractor interface {
	ExtractImageText(ctx context.Context, data []byte, mimeType string) (string, error)
}

var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

type textExtractor struct {
	pdfParser PDFParserService
	ocr       ImageTextExtractor
}

func NewTextExtractor(pdfParser PDFParserService, ocr ImageTextExtractor) TextExtractor {
	return &textExtractor{
		pdfParser: pdfParser,
		ocr:       ocr,
	}
}

// ExtractText implements TextExtractor. Unsupported extensions yield empty text.
func (e *textExtractor) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return e.extractPDFText(filename, data)
	case ".jpg", ".jpeg", ".png":
		if e.ocr == nil {
			return "", fmt.Errorf("no OCR backend configured for %s", filename)
		}
		return e.ocr.ExtractImageText(ctx, data, imageMimeTypes[ext])
	case ".txt":
		return strings.ToValidUTF8(string(data), ""), nil
	case ".docx":
		return extractDocxText(data)
	case ".html", ".htm":
		return extractHTMLText(data)
	default:
		return "", nil
	}
}

func (e *textExtractor) extractPDFText(filename string, data []byte) (string, error) {
	content, err := e.pdfParser.ExtractContent(data)
	if err != nil {
		return "", err
	}

	if content.PageCount > 0 && strings.TrimSpace(content.Text) == "" {
		log.Printf("⚠️  %s has %d pages but no text layer\n", filename, content.PageCount)
	}
	return content.Text, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText keeps one line per paragraph of a document.xml body.
func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}

func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, tr, div, br").AppendHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.TrimSpace(body.Text()), nil
}
