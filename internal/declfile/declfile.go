// Package declfile loads document schema declarations from JSON files, for
// the kaiwa-schema and kaiwa-gen command line tools. Declarations go
// through the real schema constructors, so a file that loads is a file that
// would also be accepted at runtime.
package declfile

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/kaiwadb/kaiwadb-go/schema"
)

// File is the top-level declaration file layout.
type File struct {
	Documents []DocumentDecl `json:"documents"`
}

// DocumentDecl declares one document schema.
type DocumentDecl struct {
	Name         string      `json:"name"`
	PhysicalName string      `json:"physical_name"`
	Description  string      `json:"description,omitempty"`
	Fields       []FieldDecl `json:"fields"`
}

// FieldDecl declares one field.
type FieldDecl struct {
	Name         string              `json:"name"`
	PhysicalName string              `json:"physical_name,omitempty"`
	Type         string              `json:"type"`
	Required     bool                `json:"required,omitempty"`
	Default      any                 `json:"default,omitempty"`
	Description  string              `json:"description,omitempty"`
	Enum         []schema.EnumMember `json:"enum,omitempty"`
}

// Load reads and validates a declaration file.
func Load(path string) ([]*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Documents) == 0 {
		return nil, fmt.Errorf("%s declares no documents", path)
	}

	docs := make([]*schema.Document, 0, len(file.Documents))
	for _, decl := range file.Documents {
		doc, err := buildDocument(decl)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func buildDocument(decl DocumentDecl) (*schema.Document, error) {
	fields := make([]schema.Field, 0, len(decl.Fields))
	for _, fd := range decl.Fields {
		f, err := buildField(fd)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	var opts []schema.DocumentOption
	if decl.Description != "" {
		opts = append(opts, schema.WithDocDescription(decl.Description))
	}
	return schema.NewDocument(decl.Name, decl.PhysicalName, fields, opts...)
}

func buildField(decl FieldDecl) (schema.Field, error) {
	kind, ok := schema.KindFromString(decl.Type)
	if !ok {
		return schema.Field{}, fmt.Errorf("field %q: unknown type %q", decl.Name, decl.Type)
	}

	var opts []schema.FieldOption
	if decl.PhysicalName != "" {
		opts = append(opts, schema.WithPhysicalName(decl.PhysicalName))
	}
	if decl.Description != "" {
		opts = append(opts, schema.WithDescription(decl.Description))
	}
	if decl.Required {
		opts = append(opts, schema.Required())
	}
	if len(decl.Enum) > 0 {
		opts = append(opts, schema.WithEnum(decl.Enum...))
	}
	if decl.Default != nil {
		def, err := coerceDefault(kind, decl.Default)
		if err != nil {
			return schema.Field{}, fmt.Errorf("field %q: %w", decl.Name, err)
		}
		opts = append(opts, schema.WithDefault(def))
	}

	return schema.NewField(decl.Name, kind, opts...)
}

// coerceDefault maps JSON-decoded default values onto the Go types the
// field kinds expect. encoding/json gives every number as float64.
func coerceDefault(kind schema.Kind, value any) (any, error) {
	switch kind {
	case schema.Int:
		n, ok := value.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, fmt.Errorf("integer default required, got %v", value)
		}
		return int(n), nil
	case schema.DateTime:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("RFC 3339 datetime default required, got %v", value)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("parsing datetime default: %w", err)
		}
		return t, nil
	default:
		return value, nil
	}
}
