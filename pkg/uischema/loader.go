package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	pkgmodel "github.com/goliatone/go-contactform/pkg/model"
)

// LoadFS walks the provided filesystem and parses JSON/YAML form definition
// files. When fsys is nil or no definition files are present, the returned
// store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := newStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// LoadFile parses a single definition file from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("uischema: read %s: %w", path, err)
	}
	store := newStore()
	if err := store.add(data, filepath.Base(path)); err != nil {
		return nil, err
	}
	return store, nil
}

func newStore() *Store {
	return &Store{
		forms:    make(map[string]pkgmodel.FormModel),
		overlays: make(map[string]Overlay),
		sources:  make(map[string]string),
	}
}

// add merges the forms and overlays of one document into s.
func (s *Store) add(data []byte, path string) error {
	doc, err := parseDocument(data, path)
	if err != nil {
		return err
	}

	for rawID, raw := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty form id", path)
		}
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("uischema: duplicate form %q (file %s)", id, path)
		}
		form, err := normaliseForm(raw, id, path)
		if err != nil {
			return err
		}
		s.forms[id] = form
		s.sources[id] = path
	}

	for rawID, raw := range doc.Overlays {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty overlay id", path)
		}
		if _, exists := s.overlays[id]; exists {
			return fmt.Errorf("uischema: duplicate overlay %q (file %s)", id, path)
		}
		raw.ID = id
		raw.Source = path
		raw.Messages = sanitizeMessages(raw.Messages)
		s.overlays[id] = raw
		if _, defined := s.sources[id]; !defined {
			s.sources[id] = path
		}
	}
	return nil
}

// LoadDefault parses the embedded definitions.
func LoadDefault() (*Store, error) {
	return LoadFS(EmbeddedFS())
}

// DefaultForm returns the embedded CAC TAT form.
func DefaultForm() (pkgmodel.FormModel, error) {
	store, err := LoadDefault()
	if err != nil {
		return pkgmodel.FormModel{}, err
	}
	form, ok := store.Form(DefaultFormID)
	if !ok {
		return pkgmodel.FormModel{}, fmt.Errorf("uischema: embedded form %q missing", DefaultFormID)
	}
	return form, nil
}

type documentFile struct {
	Forms    map[string]pkgmodel.FormModel `json:"forms" yaml:"forms"`
	Overlays map[string]Overlay            `json:"overlays" yaml:"overlays"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(raw pkgmodel.FormModel, id, source string) (pkgmodel.FormModel, error) {
	form := cloneForm(raw)
	form.ID = id
	form.Messages = sanitizeMessages(form.Messages)
	if form.Metadata == nil {
		form.Metadata = make(map[string]string, 1)
	}
	form.Metadata["source"] = source

	for i := range form.Fields {
		if form.Fields[i].Label == "" {
			form.Fields[i].Label = pkgmodel.DefaultLabeler(form.Fields[i].Name)
		}
	}
	for i := range form.Groups {
		if form.Groups[i].Label == "" {
			form.Groups[i].Label = pkgmodel.DefaultLabeler(form.Groups[i].Name)
		}
	}

	if err := form.Validate(); err != nil {
		return pkgmodel.FormModel{}, fmt.Errorf("uischema: form %q (file %s): %w", id, source, err)
	}
	return form, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
