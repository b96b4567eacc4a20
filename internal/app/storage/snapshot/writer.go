package snapshot

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"verse-embed/internal/app/embedding/orchestrator"
	apperrors "verse-embed/internal/app/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Logger interface for dependency injection
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
}

// Writer is the filesystem checkpoint sink. Every checkpoint overwrites the
// previous one in place.
type Writer struct {
	dir         string
	emitJS      bool
	emitHelpers bool
	logger      Logger
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string, emitJS, emitHelpers bool, logger Logger) *Writer {
	return &Writer{
		dir:         dir,
		emitJS:      emitJS,
		emitHelpers: emitHelpers,
		logger:      logger,
	}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Write implements orchestrator.Sink
func (w *Writer) Write(ctx context.Context, snapshot *orchestrator.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta := MetaFromState(snapshot.State, snapshot.Label, snapshot.Final, snapshot.CreatedAt)
	return w.WriteDataset(Build(snapshot.State.Results, meta))
}

// WriteDataset writes all files of ds. The metadata file is written last.
func (w *Writer) WriteDataset(ds *Dataset) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if ds.Summary.Files == nil {
		ds.Summary.Files = make(map[string]string)
	}

	if err := w.writeJSON(EmbeddingsJSON, ds.Matrix, false); err != nil {
		return err
	}
	if err := w.writeJSON(IndexJSON, ds.Index, true); err != nil {
		return err
	}

	if w.emitJS {
		if err := w.writeModule(EmbeddingsJS, "embeddings.js.tmpl", ds, ds.Matrix); err != nil {
			return err
		}
		if err := w.writeModule(IndexJS, "verses_index.js.tmpl", ds, ds.Index); err != nil {
			return err
		}
		ds.Summary.Files["embeddings_js"] = EmbeddingsJS
		ds.Summary.Files["verses_js"] = IndexJS
	}

	if w.emitHelpers && ds.Summary.Final {
		if err := w.writeTemplate(SearchUtilsJS, "searchUtils.js.tmpl", ds.Summary); err != nil {
			return err
		}
		if err := w.writeTemplate(SearchUtilsDTS, "searchUtils.d.ts.tmpl", ds.Summary); err != nil {
			return err
		}
		ds.Summary.Files["search_utils"] = SearchUtilsJS
		ds.Summary.Files["search_utils_types"] = SearchUtilsDTS
	}

	if err := w.writeJSON(MetadataJSON, ds.Summary, true); err != nil {
		return err
	}

	if w.logger != nil {
		w.logger.Info("Dataset written",
			"dir", w.dir,
			"label", ds.Summary.Label,
			"verses", ds.Summary.TotalVerses,
			"dimension", ds.Summary.EmbeddingDimension)
	}
	return nil
}

func (w *Writer) writeJSON(name string, v interface{}, indent bool) error {
	err := writeFileAtomic(filepath.Join(w.dir, name), func(out io.Writer) error {
		return encodeJSON(out, v, indent)
	})
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", name, err)
	}
	return nil
}

// writeModule streams data as a JS constant between the header and footer
// sections of the named template
func (w *Writer) writeModule(name, tmpl string, ds *Dataset, data interface{}) error {
	err := writeFileAtomic(filepath.Join(w.dir, name), func(out io.Writer) error {
		if err := templates.ExecuteTemplate(out, tmpl+".header", ds.Summary); err != nil {
			return err
		}
		if err := encodeJSON(out, data, false); err != nil {
			return err
		}
		return templates.ExecuteTemplate(out, tmpl+".footer", ds.Summary)
	})
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", name, err)
	}
	return nil
}

func (w *Writer) writeTemplate(name, tmpl string, data interface{}) error {
	err := writeFileAtomic(filepath.Join(w.dir, name), func(out io.Writer) error {
		return templates.ExecuteTemplate(out, tmpl, data)
	})
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", name, err)
	}
	return nil
}

func encodeJSON(w io.Writer, v interface{}, indent bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
