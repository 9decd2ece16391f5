package schema

import (
	"fmt"
	"strings"

	"github.com/kaiwadb/kaiwadb-go/core"
)

// Document describes one logical entity type: its logical name, the physical
// collection/table it maps to, and an ordered set of field descriptors.
//
// Field declaration order is meaningful: the remote service builds its
// context from the serialized schema in exactly the order given here.
// Documents are immutable once built.
type Document struct {
	logical     string
	physical    string
	description string
	fields      []Field

	physByLogical map[string]string
	logByPhysical map[string]string
	fieldIndex    map[string]int
}

// DocumentOption configures a Document during construction.
type DocumentOption func(*Document)

// WithDocDescription attaches a human-readable description of what this
// document represents.
func WithDocDescription(description string) DocumentOption {
	return func(d *Document) {
		d.description = description
	}
}

// NewDocument builds and validates a document schema.
//
// logical is the name used in prompts and SDK calls; physical is the actual
// collection/table name (may be a legacy name that differs). Validation
// fails fast with a SchemaDefinitionError when the physical identifier is
// blank, the field list is empty, or two fields collide on a logical or
// physical name.
func NewDocument(logical, physical string, fields []Field, opts ...DocumentOption) (*Document, error) {
	d := &Document{
		logical:  logical,
		physical: physical,
		fields:   append([]Field(nil), fields...),
	}
	for _, opt := range opts {
		opt(d)
	}

	if strings.TrimSpace(d.logical) == "" {
		return nil, core.NewSchemaDefinitionError(d.logical, "", "document logical name must not be empty")
	}
	if strings.TrimSpace(d.physical) == "" {
		return nil, core.NewSchemaDefinitionError(d.logical, "", "document physical identifier must not be empty")
	}
	if len(d.fields) == 0 {
		return nil, core.NewSchemaDefinitionError(d.logical, "", "document requires at least one field")
	}

	d.physByLogical = make(map[string]string, len(d.fields))
	d.logByPhysical = make(map[string]string, len(d.fields))
	d.fieldIndex = make(map[string]int, len(d.fields))

	for i, f := range d.fields {
		if _, dup := d.fieldIndex[f.Name()]; dup {
			return nil, core.NewSchemaDefinitionError(d.logical, f.Name(), "duplicate field name")
		}
		if prev, dup := d.logByPhysical[f.PhysicalName()]; dup {
			return nil, core.NewSchemaDefinitionError(d.logical, f.Name(),
				fmt.Sprintf("physical name %q already used by field %q", f.PhysicalName(), prev))
		}
		d.fieldIndex[f.Name()] = i
		d.physByLogical[f.Name()] = f.PhysicalName()
		d.logByPhysical[f.PhysicalName()] = f.Name()
	}

	return d, nil
}

// MustDocument is like NewDocument but panics on error. Intended for static
// package-level declarations.
func MustDocument(logical, physical string, fields []Field, opts ...DocumentOption) *Document {
	d, err := NewDocument(logical, physical, fields, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the document's logical name.
func (d *Document) Name() string { return d.logical }

// PhysicalName returns the physical collection/table name.
func (d *Document) PhysicalName() string { return d.physical }

// Description returns the document description, if any.
func (d *Document) Description() string { return d.description }

// Fields returns the field descriptors in declaration order. The returned
// slice is a copy.
func (d *Document) Fields() []Field {
	return append([]Field(nil), d.fields...)
}

// Field returns the descriptor for a logical field name.
func (d *Document) Field(name string) (Field, error) {
	i, ok := d.fieldIndex[name]
	if !ok {
		return Field{}, core.NewSchemaDefinitionError(d.logical, name,
			fmt.Sprintf("unknown field%s", suggestionText(name, d.logicalNames())))
	}
	return d.fields[i], nil
}

// Physical translates a logical field name to its physical column name.
func (d *Document) Physical(logical string) (string, error) {
	phys, ok := d.physByLogical[logical]
	if !ok {
		return "", core.NewSchemaDefinitionError(d.logical, logical,
			fmt.Sprintf("unknown field%s", suggestionText(logical, d.logicalNames())))
	}
	return phys, nil
}

// Logical translates a physical column name back to its logical field name.
func (d *Document) Logical(physical string) (string, error) {
	logical, ok := d.logByPhysical[physical]
	if !ok {
		return "", core.NewSchemaDefinitionError(d.logical, physical,
			fmt.Sprintf("unknown physical name%s", suggestionText(physical, d.physicalNames())))
	}
	return logical, nil
}

func (d *Document) logicalNames() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.Name()
	}
	return names
}

func (d *Document) physicalNames() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.PhysicalName()
	}
	return names
}
