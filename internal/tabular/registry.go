package tabular

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/categorizer/internal/model"
)

// Codec reads and writes one tabular file format.
type Codec interface {
	Parse(r io.Reader) (*model.Table, error)
	Write(w io.Writer, t *model.Table) error
	Format() string
}

// Registry holds named codecs in registration order.
type Registry struct {
	codecs map[string]Codec
	order  []Codec
}

// NewRegistry creates an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register adds a codec. Panics on duplicate format.
func (r *Registry) Register(c Codec) {
	key := strings.ToLower(c.Format())
	if _, ok := r.codecs[key]; ok {
		panic("duplicate codec format: " + key)
	}
	r.codecs[key] = c
	r.order = append(r.order, c)
}

// Get returns the codec for format, or nil.
func (r *Registry) Get(format string) Codec {
	return r.codecs[strings.ToLower(format)]
}

// ForPath returns the codec matching the file extension of path, or nil.
func (r *Registry) ForPath(path string) Codec {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil
	}
	return r.Get(ext)
}

// Codecs returns the codecs in registration order. Detection tries them in
// this order.
func (r *Registry) Codecs() []Codec {
	out := make([]Codec, len(r.order))
	copy(out, r.order)
	return out
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	out := make([]string, len(r.order))
	for i, c := range r.order {
		out[i] = c.Format()
	}
	return out
}

// DefaultRegistry returns a registry with the spreadsheet codec ahead of the
// delimited-text codec.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSX{})
	r.Register(&CSV{})
	return r
}
