// Package source turns document files into bounded chunks for extraction.
// Document conversion from binary formats (PDF, PPTX) happens outside; this
// package consumes the converted text and markup forms.
package source

import (
	"context"

	"github.com/ppiankov/neurograph/internal/model"
)

// Stream yields a document's chunks one at a time. A stream is one-pass:
// Next returns io.EOF once exhausted and never rewinds.
type Stream interface {
	Next(ctx context.Context) (model.Chunk, error)
}
