package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Serializer writes or reads a document in a configured format.
type Serializer interface {
	Serialize(v any) error
	Deserialize(v any) error
	Close() error
}

// Writer serializes documents to an io.Writer. Unknown formats fall back
// to JSON.
type Writer struct {
	format Format
	out    io.Writer
	in     io.Reader

	// file is non-nil when the writer owns the underlying file handle.
	file *os.File

	// path and lazy are set by NewFileWriterOrStdout; the file is created
	// on first Serialize so a failed run does not leave an empty file.
	path string
	lazy bool
}

// NewWriter creates a Writer targeting w.
func NewWriter(format Format, w io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &Writer{format: format, out: w}
}

// NewStdoutWriter creates a Writer targeting stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout creates a Writer targeting the given file path.
// An empty path or "-" targets stdout instead.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format)
	}
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &Writer{format: format, path: path, lazy: true}
}

// NewFileReader opens path for deserialization in the given format.
func NewFileReader(format Format, path string) (*Writer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &Writer{format: format, in: f, file: f}, nil
}

// Serialize writes v in the configured format.
func (w *Writer) Serialize(v any) error {
	if w.lazy && w.out == nil {
		f, err := os.Create(w.path)
		if err != nil {
			return fmt.Errorf("create %q: %w", w.path, err)
		}
		w.file = f
		w.out = f
	}
	if w.out == nil {
		return fmt.Errorf("serializer has no output")
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w.out, v)
	default:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// Deserialize reads a document into v. Only JSON and YAML inputs are
// supported; the table format is write-only.
func (w *Writer) Deserialize(v any) error {
	if w.in == nil {
		return fmt.Errorf("serializer has no input")
	}

	switch w.format {
	case FormatYAML:
		if err := yaml.NewDecoder(w.in).Decode(v); err != nil {
			return fmt.Errorf("failed to deserialize yaml: %w", err)
		}
		return nil
	case FormatTable:
		return fmt.Errorf("table format is write-only")
	default:
		if err := json.NewDecoder(w.in).Decode(v); err != nil {
			return fmt.Errorf("failed to deserialize json: %w", err)
		}
		return nil
	}
}

// Close releases the underlying file handle, if the Writer owns one.
// Closing a stdout writer is a no-op.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
