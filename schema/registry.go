package schema

import (
	"encoding/json"
	"fmt"

	"github.com/kaiwadb/kaiwadb-go/core"
)

// Registry is the immutable aggregate of document schemas, engine
// descriptor, and session identifier that forms the request context for the
// remote translate service.
//
// A registry is built once and never mutated; a schema change means building
// a new registry (and, in practice, a new session). This is what makes it
// safe to share across concurrent Run calls without locking.
type Registry struct {
	sessionID string
	engine    core.Engine
	docs      []*Document
	byName    map[string]*Document

	// serialized is computed once at construction; identical inputs always
	// produce byte-identical output.
	serialized []byte
}

// NewRegistry builds and validates a registry from one or more documents.
func NewRegistry(sessionID string, engine core.Engine, docs ...*Document) (*Registry, error) {
	if err := engine.Validate(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, core.NewSchemaDefinitionError("", "", "registry requires at least one document")
	}

	r := &Registry{
		sessionID: sessionID,
		engine:    engine,
		docs:      append([]*Document(nil), docs...),
		byName:    make(map[string]*Document, len(docs)),
	}
	for _, d := range r.docs {
		if d == nil {
			return nil, core.NewSchemaDefinitionError("", "", "nil document")
		}
		if _, dup := r.byName[d.Name()]; dup {
			return nil, core.NewSchemaDefinitionError(d.Name(), "", "duplicate document logical name")
		}
		r.byName[d.Name()] = d
	}

	serialized, err := r.serialize()
	if err != nil {
		return nil, core.NewSchemaDefinitionError("", "", fmt.Sprintf("serializing registry: %v", err))
	}
	r.serialized = serialized

	return r, nil
}

// SessionID returns the registry's session identifier.
func (r *Registry) SessionID() string { return r.sessionID }

// Engine returns the registry's engine descriptor.
func (r *Registry) Engine() core.Engine { return r.engine }

// Documents returns the registered documents in registration order. The
// returned slice is a copy.
func (r *Registry) Documents() []*Document {
	return append([]*Document(nil), r.docs...)
}

// Document returns the document with the given logical name.
func (r *Registry) Document(name string) (*Document, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, core.NewSchemaDefinitionError(name, "",
			fmt.Sprintf("unknown document%s", suggestionText(name, r.documentNames())))
	}
	return d, nil
}

// PhysicalField translates a logical field reference (document name + field
// name) to its physical column name.
func (r *Registry) PhysicalField(doc, field string) (string, error) {
	d, err := r.Document(doc)
	if err != nil {
		return "", err
	}
	return d.Physical(field)
}

// LogicalField translates a physical column name back to the logical field
// name within a document. Useful for auditing remote-returned artifacts.
func (r *Registry) LogicalField(doc, physical string) (string, error) {
	d, err := r.Document(doc)
	if err != nil {
		return "", err
	}
	return d.Logical(physical)
}

// PhysicalEnumValue translates a logical enum member to the physical value
// stored in the database.
func (r *Registry) PhysicalEnumValue(doc, field, member string) (int, error) {
	d, err := r.Document(doc)
	if err != nil {
		return 0, err
	}
	f, err := d.Field(field)
	if err != nil {
		return 0, err
	}
	return f.MemberValue(member)
}

// EnumMemberFor translates a physical stored value back to its logical enum
// member name.
func (r *Registry) EnumMemberFor(doc, field string, value int) (string, error) {
	d, err := r.Document(doc)
	if err != nil {
		return "", err
	}
	f, err := d.Field(field)
	if err != nil {
		return "", err
	}
	return f.MemberName(value)
}

// Serialized returns the registry's deterministic JSON form, suitable for
// transmission to the remote service. The returned slice is a copy.
func (r *Registry) Serialized() []byte {
	return append([]byte(nil), r.serialized...)
}

func (r *Registry) documentNames() []string {
	names := make([]string, len(r.docs))
	for i, d := range r.docs {
		names[i] = d.Name()
	}
	return names
}

// Wire form. Everything is slice-backed in declaration order so that
// encoding/json output is byte-identical for equal inputs.

type serializedRegistry struct {
	SessionID string               `json:"session_id"`
	Engine    core.Engine          `json:"engine"`
	Documents []serializedDocument `json:"documents"`
}

type serializedDocument struct {
	Name         string            `json:"name"`
	PhysicalName string            `json:"physical_name"`
	Description  string            `json:"description,omitempty"`
	Fields       []serializedField `json:"fields"`
}

type serializedField struct {
	Name         string       `json:"name"`
	PhysicalName string       `json:"physical_name"`
	Type         string       `json:"type"`
	Required     bool         `json:"required,omitempty"`
	Default      any          `json:"default,omitempty"`
	Description  string       `json:"description,omitempty"`
	Enum         []EnumMember `json:"enum,omitempty"`
}

func (r *Registry) serialize() ([]byte, error) {
	out := serializedRegistry{
		SessionID: r.sessionID,
		Engine:    r.engine,
		Documents: make([]serializedDocument, 0, len(r.docs)),
	}
	for _, d := range r.docs {
		doc := serializedDocument{
			Name:         d.Name(),
			PhysicalName: d.PhysicalName(),
			Description:  d.Description(),
		}
		for _, f := range d.fields {
			sf := serializedField{
				Name:         f.Name(),
				PhysicalName: f.PhysicalName(),
				Type:         f.Kind().String(),
				Required:     f.IsRequired(),
				Description:  f.Description(),
				Enum:         f.Members(),
			}
			if def, ok := f.Default(); ok {
				sf.Default = def
			}
			doc.Fields = append(doc.Fields, sf)
		}
		out.Documents = append(out.Documents, doc)
	}
	return json.Marshal(out)
}
