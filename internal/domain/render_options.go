package domain

import "fmt"

// PaperFormat is the target page size for PDF output.
type PaperFormat string

const (
	FormatA4     PaperFormat = "A4"
	FormatLetter PaperFormat = "Letter"
	FormatLegal  PaperFormat = "Legal"
)

// MarginPreset selects one of the fixed page margin sizes.
type MarginPreset string

const (
	MarginNone   MarginPreset = "none"
	MarginSmall  MarginPreset = "small"
	MarginMedium MarginPreset = "medium"
	MarginLarge  MarginPreset = "large"
)

// RenderOptions configure the PDF conversion step.
type RenderOptions struct {
	Format    PaperFormat  `json:"format"`
	Margin    MarginPreset `json:"margin"`
	Landscape bool         `json:"landscape"`
}

// Normalize fills defaults and rejects unknown values.
func (o *RenderOptions) Normalize() error {
	if o.Format == "" {
		o.Format = FormatA4
	}
	if o.Margin == "" {
		o.Margin = MarginMedium
	}
	switch o.Format {
	case FormatA4, FormatLetter, FormatLegal:
	default:
		return fmt.Errorf("unknown paper format %q", o.Format)
	}
	switch o.Margin {
	case MarginNone, MarginSmall, MarginMedium, MarginLarge:
	default:
		return fmt.Errorf("unknown margin preset %q", o.Margin)
	}
	return nil
}
