// Package plugin keeps the importers and exporters available to the
// converter and matches them to files by extension.
package plugin

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Faultbox/modelconverter/pkg/model"
)

// Registration errors.
var (
	ErrNoFilters     = errors.New("plugin has no file extensions")
	ErrEmptyName     = errors.New("plugin has no name")
	ErrNilPlugin     = errors.New("plugin implementation is nil")
	ErrNoPlugin      = errors.New("no plugin for file")
	ErrInvalidFilter = errors.New("invalid file extension")
)

// ErrFileExists is returned when an export would replace a file and
// overwriting is disabled.
var ErrFileExists = errors.New("file already exists")

// Importer reads a model file into a collection.
type Importer interface {
	Import(path string) (*model.Collection, error)
}

// Exporter writes a collection to a model file and reports what was
// written. An existing file is replaced.
type Exporter interface {
	Export(c *model.Collection, path string) (*model.ExportResult, error)
}

// Info describes a plugin to the user.
type Info struct {
	Name        string
	Description string
}

// Filter is a file extension handled by a plugin, without the leading dot.
type Filter struct {
	Extension string
}

// NewFilter builds a filter from a user supplied extension. Dialog
// separators ('|' and ';'), a leading "*." or "." and surrounding spaces are
// removed.
func NewFilter(ext string) (Filter, error) {
	ext = strings.NewReplacer("|", "", ";", "").Replace(ext)
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, "*")
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || strings.ContainsAny(ext, `*./\ `) {
		return Filter{}, errors.Wrapf(ErrInvalidFilter, "%q", ext)
	}
	return Filter{Extension: ext}, nil
}

// Pattern returns the dialog pattern of the filter, e.g. "*.obj".
func (f Filter) Pattern() string {
	return "*." + f.Extension
}

// Matches reports whether path has the filter's extension, ignoring case.
func (f Filter) Matches(path string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), f.Extension)
}

// Plugin is the registered form shared by importers and exporters.
type Plugin struct {
	Info
	Filters []Filter
}

// Patterns returns the dialog patterns joined by ';'.
func (p *Plugin) Patterns() string {
	patterns := make([]string, len(p.Filters))
	for i, f := range p.Filters {
		patterns[i] = f.Pattern()
	}
	return strings.Join(patterns, ";")
}

// Matches reports whether any filter of the plugin matches path.
func (p *Plugin) Matches(path string) bool {
	for _, f := range p.Filters {
		if f.Matches(path) {
			return true
		}
	}
	return false
}

// ImportPlugin is a registered importer.
type ImportPlugin struct {
	Plugin
	Importer
}

// ExportPlugin is a registered exporter.
type ExportPlugin struct {
	Plugin
	Exporter
}

// Write exports c to path. When overwrite is false an existing path is
// refused before the exporter runs.
func (p *ExportPlugin) Write(c *model.Collection, path string, overwrite bool) (*model.ExportResult, error) {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, errors.Wrap(ErrFileExists, path)
		}
	}
	return p.Export(c, path)
}

// Registry holds registered plugins in registration order.
type Registry struct {
	importers []*ImportPlugin
	exporters []*ExportPlugin
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// newPlugin validates plugin metadata. Duplicate extensions are collapsed,
// ignoring case; every invalid extension is reported.
func newPlugin(info Info, nilImpl bool, extensions []string) (Plugin, error) {
	var err error
	if strings.TrimSpace(info.Name) == "" {
		err = multierr.Append(err, ErrEmptyName)
	}
	if nilImpl {
		err = multierr.Append(err, ErrNilPlugin)
	}

	p := Plugin{Info: info}
	seen := make(map[string]bool)
	for _, ext := range extensions {
		f, ferr := NewFilter(ext)
		if ferr != nil {
			err = multierr.Append(err, ferr)
			continue
		}
		key := strings.ToLower(f.Extension)
		if seen[key] {
			continue
		}
		seen[key] = true
		p.Filters = append(p.Filters, f)
	}
	if len(extensions) == 0 {
		err = multierr.Append(err, ErrNoFilters)
	}

	if err != nil {
		return Plugin{}, errors.Wrapf(err, "plugin %q", info.Name)
	}
	return p, nil
}

// RegisterImporter adds an importer handling the given extensions.
func (r *Registry) RegisterImporter(info Info, imp Importer, extensions ...string) error {
	p, err := newPlugin(info, imp == nil, extensions)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.importers = append(r.importers, &ImportPlugin{Plugin: p, Importer: imp})
	r.mu.Unlock()
	return nil
}

// RegisterExporter adds an exporter handling the given extensions.
func (r *Registry) RegisterExporter(info Info, exp Exporter, extensions ...string) error {
	p, err := newPlugin(info, exp == nil, extensions)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.exporters = append(r.exporters, &ExportPlugin{Plugin: p, Exporter: exp})
	r.mu.Unlock()
	return nil
}

// Importers returns the registered importers.
func (r *Registry) Importers() []*ImportPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ImportPlugin(nil), r.importers...)
}

// Exporters returns the registered exporters.
func (r *Registry) Exporters() []*ExportPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ExportPlugin(nil), r.exporters...)
}

// ImporterFor returns the first importer handling the extension of path.
func (r *Registry) ImporterFor(path string) (*ImportPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.importers {
		if p.Matches(path) {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrNoPlugin, "import %q", path)
}

// ExporterFor returns the first exporter handling the extension of path.
func (r *Registry) ExporterFor(path string) (*ExportPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.exporters {
		if p.Matches(path) {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrNoPlugin, "export %q", path)
}

// ImportFilter returns the open dialog filter of all importers.
func (r *Registry) ImportFilter() string {
	plugins := r.Importers()
	ps := make([]*Plugin, len(plugins))
	for i, p := range plugins {
		ps[i] = &p.Plugin
	}
	return DialogFilter(ps)
}

// ExportFilter returns the save dialog filter of all exporters.
func (r *Registry) ExportFilter() string {
	plugins := r.Exporters()
	ps := make([]*Plugin, len(plugins))
	for i, p := range plugins {
		ps[i] = &p.Plugin
	}
	return DialogFilter(ps)
}

// DialogFilter renders plugins as "Name|*.a;*.b" pairs joined by '|'.
func DialogFilter(plugins []*Plugin) string {
	parts := make([]string, 0, 2*len(plugins))
	for _, p := range plugins {
		parts = append(parts, strings.ReplaceAll(p.Name, "|", ""), p.Patterns())
	}
	return strings.Join(parts, "|")
}
