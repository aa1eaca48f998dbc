// Package dataset loads the {skills, tasks} record a session starts from.
//
// Only two structural checks are made: both "skills" and "tasks" must be
// present and must be sequences. Anything else (unknown categories or
// priorities, dangling skill ids) is accepted as-is.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skillboard/internal/model"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatError reports a structurally invalid dataset.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dataset: %s %s", e.Field, e.Reason)
}

var ErrUnknownFormat = errors.New("dataset: unknown format")

// FormatForPath picks a decoder from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(path))) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".sqlite", ".sqlite3", ".db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseFormat accepts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// LoadFile reads a dataset from disk, choosing the decoder by extension.
func LoadFile(ctx context.Context, path string) (model.Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return model.Dataset{}, errors.New("dataset: missing path")
	}
	f, err := FormatForPath(path)
	if err != nil {
		return model.Dataset{}, err
	}
	if f == FormatSQLite {
		return LoadSQLite(ctx, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return DecodeBytes(b, f)
}

// Decode reads a JSON or YAML dataset from r.
func Decode(r io.Reader, f Format) (model.Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: read: %w", err)
	}
	return DecodeBytes(b, f)
}

func DecodeBytes(b []byte, f Format) (model.Dataset, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(b)
	case FormatYAML:
		return DecodeYAML(b)
	default:
		return model.Dataset{}, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

func DecodeJSON(b []byte) (model.Dataset, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: decode json: %w", err)
	}
	for _, field := range []string{"skills", "tasks"} {
		v, ok := raw[field]
		if !ok {
			return model.Dataset{}, &FormatError{Field: field, Reason: "is missing"}
		}
		if !bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) {
			return model.Dataset{}, &FormatError{Field: field, Reason: "is not a sequence"}
		}
	}
	var ds model.Dataset
	if err := json.Unmarshal(raw["skills"], &ds.Skills); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: decode skills: %w", err)
	}
	if err := json.Unmarshal(raw["tasks"], &ds.Tasks); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: decode tasks: %w", err)
	}
	return normalize(ds), nil
}

func DecodeYAML(b []byte) (model.Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: decode yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return model.Dataset{}, errors.New("dataset: decode yaml: top level is not a mapping")
	}
	for _, field := range []string{"skills", "tasks"} {
		v := mappingValue(root, field)
		if v == nil {
			return model.Dataset{}, &FormatError{Field: field, Reason: "is missing"}
		}
		if v.Kind != yaml.SequenceNode {
			return model.Dataset{}, &FormatError{Field: field, Reason: "is not a sequence"}
		}
	}
	var ds model.Dataset
	if err := root.Decode(&ds); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: decode yaml: %w", err)
	}
	return normalize(ds), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// normalize turns empty sequences into non-nil slices.
func normalize(ds model.Dataset) model.Dataset {
	if ds.Skills == nil {
		ds.Skills = []model.Skill{}
	}
	if ds.Tasks == nil {
		ds.Tasks = []model.Task{}
	}
	return ds
}

// Encode writes a dataset as JSON or YAML.
func Encode(w io.Writer, ds model.Dataset, f Format) error {
	ds = normalize(ds)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}
