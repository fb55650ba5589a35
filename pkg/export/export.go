package export

import (
	"errors"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ErrUnknownFormat is returned for formats other than csv and pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Document is a rendered export ready to be streamed.
type Document struct {
	Body        []byte
	ContentType string
	Extension   string
}

// ParseFormat accepts a case-insensitive format name, defaulting to csv.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Render encodes the dataset in the requested format.
func Render(format Format, data Dataset) (*Document, error) {
	switch format {
	case FormatCSV:
		body, err := NewCSVExporter().Render(data)
		if err != nil {
			return nil, err
		}
		return &Document{Body: body, ContentType: "text/csv; charset=utf-8", Extension: ".csv"}, nil
	case FormatPDF:
		body, err := NewPDFExporter().Render(data)
		if err != nil {
			return nil, err
		}
		return &Document{Body: body, ContentType: "application/pdf", Extension: ".pdf"}, nil
	default:
		return nil, ErrUnknownFormat
	}
}
