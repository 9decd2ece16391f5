// Package schema provides declarative schema description for KaiwaDB.
//
// A Document describes one logical entity type and its physical storage
// mapping; each of its Fields maps an idiomatic logical name onto the
// physical column name actually stored in the database. A Registry
// aggregates documents into the immutable, deterministically-serialized
// form sent to the remote translate service.
//
// All validation happens at construction time. A declaration that would
// misbehave at query time (colliding physical names, a non-injective enum
// table, a default of the wrong type) fails immediately with a
// SchemaDefinitionError.
//
// Example:
//
//	role, _ := schema.NewField("role", schema.Enum,
//	    schema.WithPhysicalName("role_type"),
//	    schema.WithEnum(
//	        schema.EnumMember{Name: "CUSTOMER", Value: 1},
//	        schema.EnumMember{Name: "ADMIN", Value: 2},
//	    ),
//	)
package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/kaiwadb/kaiwadb-go/core"
)

// Kind is the semantic type of a field.
type Kind int

const (
	Int Kind = iota + 1
	Float
	String
	Bool
	DateTime
	Enum
)

var kindNames = map[Kind]string{
	Int:      "integer",
	Float:    "float",
	String:   "string",
	Bool:     "boolean",
	DateTime: "datetime",
	Enum:     "enum",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindFromString parses the wire name of a kind ("integer", "enum", ...).
func KindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// EnumMember maps one logical enumeration member onto the physical value
// stored in the database (typically a small legacy integer).
type EnumMember struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Field declares one logical attribute: its semantic type, optional default,
// and its mapping onto the physical column name. Fields are immutable once
// built by NewField.
type Field struct {
	name        string
	physical    string
	description string
	kind        Kind
	required    bool
	hasDefault  bool
	defValue    any

	members     []EnumMember
	valueByName map[string]int
	nameByValue map[int]string
}

// FieldOption configures a Field during construction.
type FieldOption func(*Field)

// WithPhysicalName sets the column/field name used in the database. When
// unset the logical name is used as-is.
func WithPhysicalName(physical string) FieldOption {
	return func(f *Field) {
		f.physical = physical
	}
}

// WithDescription attaches a human-readable description. The remote service
// uses it to better understand field semantics.
func WithDescription(description string) FieldOption {
	return func(f *Field) {
		f.description = description
	}
}

// WithDefault sets the field's default value. The value's type is checked
// against the field kind at construction; for Enum fields it must be a
// declared member name.
func WithDefault(value any) FieldOption {
	return func(f *Field) {
		f.hasDefault = true
		f.defValue = value
	}
}

// Required marks the field as required.
func Required() FieldOption {
	return func(f *Field) {
		f.required = true
	}
}

// WithEnum declares the enum member table for an Enum field. Member order is
// preserved in the serialized schema.
func WithEnum(members ...EnumMember) FieldOption {
	return func(f *Field) {
		f.members = append([]EnumMember(nil), members...)
	}
}

// NewField builds and validates a field descriptor.
func NewField(name string, kind Kind, opts ...FieldOption) (Field, error) {
	f := Field{name: name, kind: kind}
	for _, opt := range opts {
		opt(&f)
	}
	if f.physical == "" {
		f.physical = f.name
	}

	if strings.TrimSpace(f.name) == "" {
		return Field{}, core.NewSchemaDefinitionError("", "", "field name must not be empty")
	}
	if _, ok := kindNames[f.kind]; !ok {
		return Field{}, core.NewSchemaDefinitionError("", f.name, fmt.Sprintf("unknown field kind %d", int(f.kind)))
	}

	if err := f.buildEnumTable(); err != nil {
		return Field{}, err
	}
	if err := f.checkDefault(); err != nil {
		return Field{}, err
	}
	return f, nil
}

// MustField is like NewField but panics on error. Intended for static
// package-level declarations where a bad schema should stop the program.
func MustField(name string, kind Kind, opts ...FieldOption) Field {
	f, err := NewField(name, kind, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Field) buildEnumTable() error {
	if f.kind != Enum {
		if len(f.members) > 0 {
			return core.NewSchemaDefinitionError("", f.name,
				fmt.Sprintf("enum members declared on %s field", f.kind))
		}
		return nil
	}
	if len(f.members) == 0 {
		return core.NewSchemaDefinitionError("", f.name, "enum field requires at least one member")
	}

	f.valueByName = make(map[string]int, len(f.members))
	f.nameByValue = make(map[int]string, len(f.members))
	for _, m := range f.members {
		if strings.TrimSpace(m.Name) == "" {
			return core.NewSchemaDefinitionError("", f.name, "enum member name must not be empty")
		}
		if _, dup := f.valueByName[m.Name]; dup {
			return core.NewSchemaDefinitionError("", f.name,
				fmt.Sprintf("duplicate enum member %q", m.Name))
		}
		if prev, dup := f.nameByValue[m.Value]; dup {
			return core.NewSchemaDefinitionError("", f.name,
				fmt.Sprintf("enum members %q and %q share physical value %d", prev, m.Name, m.Value))
		}
		f.valueByName[m.Name] = m.Value
		f.nameByValue[m.Value] = m.Name
	}
	return nil
}

func (f *Field) checkDefault() error {
	if !f.hasDefault {
		return nil
	}

	ok := false
	switch f.kind {
	case Int:
		switch f.defValue.(type) {
		case int, int32, int64:
			ok = true
		}
	case Float:
		switch f.defValue.(type) {
		case float32, float64:
			ok = true
		}
	case String:
		_, ok = f.defValue.(string)
	case Bool:
		_, ok = f.defValue.(bool)
	case DateTime:
		_, ok = f.defValue.(time.Time)
	case Enum:
		member, isString := f.defValue.(string)
		if isString {
			_, ok = f.valueByName[member]
			if !ok {
				return core.NewSchemaDefinitionError("", f.name,
					fmt.Sprintf("default %q is not a declared enum member", member))
			}
		}
	}
	if !ok {
		return core.NewSchemaDefinitionError("", f.name,
			fmt.Sprintf("default value %v (%T) does not match field kind %s", f.defValue, f.defValue, f.kind))
	}
	return nil
}

// Name returns the logical field name.
func (f Field) Name() string { return f.name }

// PhysicalName returns the column/field name used in the database.
func (f Field) PhysicalName() string { return f.physical }

// Description returns the field description, if any.
func (f Field) Description() string { return f.description }

// Kind returns the field's semantic type.
func (f Field) Kind() Kind { return f.kind }

// IsRequired reports whether the field is required.
func (f Field) IsRequired() bool { return f.required }

// Default returns the default value and whether one was declared.
func (f Field) Default() (any, bool) { return f.defValue, f.hasDefault }

// Members returns the enum member table in declaration order. The returned
// slice is a copy; nil for non-Enum fields.
func (f Field) Members() []EnumMember {
	if f.members == nil {
		return nil
	}
	return append([]EnumMember(nil), f.members...)
}

// MemberValue translates a logical enum member name to its physical value.
func (f Field) MemberValue(name string) (int, error) {
	if f.kind != Enum {
		return 0, core.NewSchemaDefinitionError("", f.name, "not an enum field")
	}
	v, ok := f.valueByName[name]
	if !ok {
		return 0, core.NewSchemaDefinitionError("", f.name,
			fmt.Sprintf("unknown enum member %q%s", name, suggestionText(name, memberNames(f.members))))
	}
	return v, nil
}

// MemberName translates a physical stored value back to its logical enum
// member name.
func (f Field) MemberName(value int) (string, error) {
	if f.kind != Enum {
		return "", core.NewSchemaDefinitionError("", f.name, "not an enum field")
	}
	name, ok := f.nameByValue[value]
	if !ok {
		return "", core.NewSchemaDefinitionError("", f.name,
			fmt.Sprintf("no enum member has physical value %d", value))
	}
	return name, nil
}

func memberNames(members []EnumMember) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}
