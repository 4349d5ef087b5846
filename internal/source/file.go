package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/neurograph/internal/model"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// FileStream reads one converted document file and serves its chunks.
// Supported inputs are plain text (.txt, .md) and markup (.html, .xhtml,
// .htm). A sidecar directory named <stem>_images next to the file attaches
// figures to chunks by index order.
type FileStream struct {
	chunks []model.Chunk
	pos    int
}

// NewFileStream loads and chunks a document file.
func NewFileStream(documentID, path string, cfg model.SourceConfig) (*FileStream, error) {
	text, err := readDocumentText(path)
	if err != nil {
		return nil, err
	}

	pieces := SplitChunks(text, cfg.MaxChunkChars, cfg.MinChunkChars)
	chunks := make([]model.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, model.Chunk{
			ID:         fmt.Sprintf("%s#%d", documentID, i),
			DocumentID: documentID,
			Index:      i,
			Text:       piece,
		})
	}

	chunks, err = attachSidecarImages(documentID, path, chunks)
	if err != nil {
		return nil, err
	}

	return &FileStream{chunks: chunks}, nil
}

// Next yields the next chunk, or io.EOF when the document is exhausted.
func (s *FileStream) Next(ctx context.Context) (model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return model.Chunk{}, err
	}
	if s.pos >= len(s.chunks) {
		return model.Chunk{}, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func readDocumentText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	case ".html", ".xhtml", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()

		text, err := StripHTML(f)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", path, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported document format: %s", filepath.Ext(path))
	}
}

// attachSidecarImages attaches figures from <stem>_images to chunks in
// index order. Images beyond the chunk count become image-only chunks so
// trailing figures are still described and mined.
func attachSidecarImages(documentID, path string, chunks []model.Chunk) ([]model.Chunk, error) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	dir := stem + "_images"

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return chunks, nil
		}
		return nil, fmt.Errorf("read image dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", name, err)
		}

		if i < len(chunks) {
			chunks[i].Image = data
			continue
		}
		chunks = append(chunks, model.Chunk{
			ID:         fmt.Sprintf("%s#%d", documentID, len(chunks)),
			DocumentID: documentID,
			Index:      len(chunks),
			Image:      data,
		})
	}

	return chunks, nil
}

// DocumentFromPath builds the document identity for a file: the ID is the
// cleaned path, the title its base name without extension.
func DocumentFromPath(path string) model.Document {
	clean := filepath.Clean(path)
	base := filepath.Base(clean)
	return model.Document{
		ID:         clean,
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
		SourcePath: clean,
	}
}
