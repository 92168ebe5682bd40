package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/perdasilva/dutyroster/pkg/schedule"
)

const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatText = "text"
)

// FileWriter writes a roster table to a directory in every requested
// format, one file per format.
type FileWriter struct {
	Dir     string
	Base    string
	Formats []string
	Title   string
	Notes   []string
	Logger  *zap.Logger
}

func (w *FileWriter) render(format string, table *schedule.Table) ([]byte, string, error) {
	switch format {
	case FormatCSV:
		out, err := NewCSVExporter().Render(FromTable(table, w.Notes...))
		return out, "csv", err
	case FormatPDF:
		out, err := NewPDFExporter().Render(FromTable(table, w.Notes...), w.Title)
		return out, "pdf", err
	case FormatText:
		buf := &bytes.Buffer{}
		err := NewTextRenderer().Render(buf, table, w.Title)
		return buf.Bytes(), "txt", err
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// Write renders every format concurrently and returns the written
// paths in format order.
func (w *FileWriter) Write(ctx context.Context, table *schedule.Table) ([]string, error) {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, len(w.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range w.Formats {
		i, format := i, format
		g.Go(func() error {
			out, ext, err := w.render(format, table)
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(w.Dir, fmt.Sprintf("%s.%s", w.Base, ext))
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Info("roster exported", zap.String("format", format), zap.String("path", path))
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
