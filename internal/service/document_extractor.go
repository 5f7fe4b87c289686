package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"lab-report-reader/internal/domain"
	apperrors "lab-report-reader/pkg/errors"

	"github.com/gen2brain/go-fitz"
)

// pagedDocument is the subset of *fitz.Document the extractor needs.
type pagedDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	Metadata() map[string]string
	Close() error
}

// documentDecoder opens an in-memory document.
type documentDecoder func(data []byte) (pagedDocument, error)

func decodePDF(data []byte) (pagedDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DocumentExtractor reads report documents and returns their raw text.
// Page texts are concatenated in page order with nothing added between them.
type DocumentExtractor struct {
	supportedFormats map[string]bool
	decoders         map[string]documentDecoder
	logger           domain.Logger
}

// NewDocumentExtractor creates an extractor accepting the given extensions
// (".pdf" when none are given). Extensions without a decoder are ignored.
func NewDocumentExtractor(extensions []string, logger domain.Logger) *DocumentExtractor {
	decoders := map[string]documentDecoder{
		".pdf":  decodePDF,
		".txt":  decodePlainText,
		".md":   decodePlainText,
		".html": decodeHTML,
		".htm":  decodeHTML,
	}
	if len(extensions) == 0 {
		extensions = []string{".pdf"}
	}

	supported := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = normalizeExt(ext)
		if _, ok := decoders[ext]; !ok {
			logger.Warn("Ignoring document extension without a decoder", "extension", ext)
			continue
		}
		supported[ext] = true
	}

	return &DocumentExtractor{
		supportedFormats: supported,
		decoders:         decoders,
		logger:           logger,
	}
}

// SupportedFormats returns the accepted extensions
func (x *DocumentExtractor) SupportedFormats() []string {
	out := make([]string, 0, len(x.supportedFormats))
	for ext := range x.supportedFormats {
		out = append(out, ext)
	}
	return out
}

// Extract reads the document at path and returns its text and page count.
func (x *DocumentExtractor) Extract(path string) (*domain.ExtractedDocument, error) {
	return x.extractFile(path, false)
}

// ExtractWithMetadata is Extract plus the document's descriptive metadata.
// The document is opened and its text extracted once.
func (x *DocumentExtractor) ExtractWithMetadata(path string) (*domain.ExtractedDocument, error) {
	return x.extractFile(path, true)
}

// ExtractBytes extracts an in-memory document, e.g. an upload. filename is
// only used for the format check and reporting.
func (x *DocumentExtractor) ExtractBytes(filename string, data []byte) (*domain.ExtractedDocument, error) {
	ext, err := x.checkFormat(filename)
	if err != nil {
		return nil, err
	}
	return x.extractDocument(filepath.Base(filename), ext, data, true)
}

func (x *DocumentExtractor) extractFile(path string, withMetadata bool) (*domain.ExtractedDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			x.logger.Error("File not found", err, "path", path)
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("file not found: %s", path))
		}
		return nil, apperrors.NewReadError("failed to stat document", err)
	}

	ext, err := x.checkFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewReadError("failed to open document", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewReadError("failed to read document", err)
	}

	return x.extractDocument(filepath.Base(path), ext, data, withMetadata)
}

func (x *DocumentExtractor) checkFormat(name string) (string, error) {
	ext := normalizeExt(filepath.Ext(name))
	if !x.supportedFormats[ext] {
		x.logger.Warn("Unsupported file format", "file", name, "extension", ext)
		return "", apperrors.NewUnsupportedFormatError("unsupported file format", ext)
	}
	return ext, nil
}

func (x *DocumentExtractor) extractDocument(name, ext string, data []byte, withMetadata bool) (result *domain.ExtractedDocument, err error) {
	// MuPDF failures must surface as read errors, never as a crash.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = apperrors.NewReadError("failed to decode document", fmt.Errorf("%v", r))
		}
	}()

	doc, err := x.decoders[ext](data)
	if err != nil {
		x.logger.Error("Failed to open document", err, "file", name)
		return nil, apperrors.NewReadError("failed to open document", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	x.logger.Info("Processing pages", "file", name, "pages", numPages)

	var sb strings.Builder
	for pageNum := 0; pageNum < numPages; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			x.logger.Error("Failed to extract text from page", err, "file", name, "page", pageNum+1, "total", numPages)
			return nil, apperrors.NewReadError(fmt.Sprintf("failed to extract text from page %d", pageNum+1), err)
		}
		sb.WriteString(sanitizeText(text))
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		x.logger.Warn("No text extracted", "file", name, "pages", numPages)
		return nil, apperrors.NewEmptyContentError(fmt.Sprintf("no text extracted from %s", name))
	}

	extracted := &domain.ExtractedDocument{
		Filename:  name,
		Text:      text,
		PageCount: numPages,
		CharCount: utf8.RuneCountInString(text),
		WordCount: len(strings.Fields(text)),
	}
	if withMetadata {
		extracted.Metadata = readMetadata(doc.Metadata())
	}

	x.logger.Info("Successfully extracted text", "file", name, "chars", extracted.CharCount)
	return extracted, nil
}

func readMetadata(meta map[string]string) *domain.DocumentMetadata {
	get := func(key string) string {
		if v := strings.TrimSpace(meta[key]); v != "" {
			return v
		}
		return domain.UnknownMetadataValue
	}
	return &domain.DocumentMetadata{
		Author:   get("author"),
		Creator:  get("creator"),
		Producer: get("producer"),
		Subject:  get("subject"),
		Title:    get("title"),
	}
}

// sanitizeText drops NULs and other control characters PDF text layers
// sometimes carry, keeping tabs and line breaks.
func sanitizeText(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\t' || r == '\n' || r == '\r' || r >= 0x20 && r != 0x7F {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtractTextFromPDF is a one-shot helper returning only the text of a PDF.
func ExtractTextFromPDF(path string, logger domain.Logger) (string, error) {
	doc, err := NewDocumentExtractor(nil, logger).Extract(path)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}
