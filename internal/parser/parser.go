package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/lexplain/internal/doctree"
)

// ErrNoParser is returned for file types without a local parser.
var ErrNoParser = errors.New("no parser for file type")

// Parser converts raw document bytes into an outline.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// UploadExtensions lists the file types the backend accepts. Legacy .doc
// files upload fine but have no local parser.
var UploadExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoParser, ext)
	}
}

// IsUploadable reports whether the file type can be sent for analysis.
func IsUploadable(filename string) bool {
	return UploadExtensions[strings.ToLower(filepath.Ext(filename))]
}
