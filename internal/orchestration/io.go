package orchestration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/llmrec/recjudge/internal/models"
)

func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// openInput opens path for reading, decompressing .gz files.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !isGzip(path) {
		return f, nil
	}

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
	}
	return &gzipReadCloser{Reader: zr, file: f}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	zerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return zerr
}

// readRecords decodes a JSON array (or a single object) of records from path
// into out, which must point to a slice of structs with mapstructure tags.
func readRecords(path string, out any) error {
	rc, err := openInput(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer rc.Close()

	dec := json.NewDecoder(rc)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if obj, ok := raw.(map[string]any); ok {
		raw = []any{obj}
	}

	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := md.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode records in %s: %w", path, err)
	}
	return nil
}

// LoadEvaluations reads collected judge results. Judge fields may hold either
// the raw judge text or decoded JSON.
func LoadEvaluations(path string) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	if err := readRecords(path, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

// LoadRatings reads ground-truth user ratings.
func LoadRatings(path string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := readRecords(path, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// WriteJSON writes v as indented JSON to path, gzip-compressed for .gz paths.
func WriteJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if isGzip(path) {
		zw = gzip.NewWriter(f)
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to finish %s: %w", path, err)
		}
	}
	return f.Close()
}
