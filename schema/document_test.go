package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/kaiwadb/kaiwadb-go/core"
)

func testFields(t *testing.T) []Field {
	t.Helper()
	return []Field{
		MustField("id", Int, WithPhysicalName("cust_id_pk")),
		MustField("full_name", String, WithPhysicalName("customerName")),
		MustField("email", String),
		MustField("role", Enum,
			WithPhysicalName("role_type"),
			WithEnum(
				EnumMember{Name: "CUSTOMER", Value: 1},
				EnumMember{Name: "ADMIN", Value: 2},
			),
		),
	}
}

func TestNewDocumentValidation(t *testing.T) {
	tests := []struct {
		name     string
		logical  string
		physical string
		fields   []Field
		wantErr  string
	}{
		{
			name:     "valid",
			logical:  "users",
			physical: "tbl_users_legacy",
			fields:   testFields(t),
		},
		{
			name:     "empty logical name",
			logical:  "",
			physical: "tbl",
			fields:   testFields(t),
			wantErr:  "logical name",
		},
		{
			name:     "whitespace physical identifier",
			logical:  "users",
			physical: "   ",
			fields:   testFields(t),
			wantErr:  "physical identifier",
		},
		{
			name:     "no fields",
			logical:  "users",
			physical: "tbl_users",
			fields:   nil,
			wantErr:  "at least one field",
		},
		{
			name:     "duplicate logical field name",
			logical:  "users",
			physical: "tbl_users",
			fields: []Field{
				MustField("id", Int),
				MustField("id", String, WithPhysicalName("other")),
			},
			wantErr: "duplicate field",
		},
		{
			name:     "duplicate physical name",
			logical:  "users",
			physical: "tbl_users",
			fields: []Field{
				MustField("id", Int, WithPhysicalName("col_1")),
				MustField("name", String, WithPhysicalName("col_1")),
			},
			wantErr: "already used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocument(tt.logical, tt.physical, tt.fields)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewDocument() error = %v, want nil", err)
				}
				return
			}
			var defErr *core.SchemaDefinitionError
			if !errors.As(err, &defErr) {
				t.Fatalf("NewDocument() error = %T (%v), want *SchemaDefinitionError", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDocumentLookupsAreExactInverses(t *testing.T) {
	doc, err := NewDocument("users", "tbl_users_legacy", testFields(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range doc.Fields() {
		phys, err := doc.Physical(f.Name())
		if err != nil {
			t.Fatalf("Physical(%q) error = %v", f.Name(), err)
		}
		logical, err := doc.Logical(phys)
		if err != nil {
			t.Fatalf("Logical(%q) error = %v", phys, err)
		}
		if logical != f.Name() {
			t.Errorf("round trip %q -> %q -> %q", f.Name(), phys, logical)
		}
	}
}

func TestDocumentPreservesDeclarationOrder(t *testing.T) {
	doc, err := NewDocument("users", "tbl_users", testFields(t))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"id", "full_name", "email", "role"}
	fields := doc.Fields()
	if len(fields) != len(want) {
		t.Fatalf("Fields() returned %d fields, want %d", len(fields), len(want))
	}
	for i, name := range want {
		if fields[i].Name() != name {
			t.Errorf("Fields()[%d] = %q, want %q", i, fields[i].Name(), name)
		}
	}
}

func TestDocumentUnknownFieldSuggestion(t *testing.T) {
	doc, err := NewDocument("users", "tbl_users", testFields(t))
	if err != nil {
		t.Fatal(err)
	}

	_, err = doc.Physical("emial")
	if err == nil {
		t.Fatal("Physical(unknown) error = nil, want error")
	}
	if !strings.Contains(err.Error(), `"email"`) {
		t.Errorf("error %q lacks a suggestion for %q", err.Error(), "email")
	}

	if _, err := doc.Logical("no_such_column"); err == nil {
		t.Error("Logical(unknown) error = nil, want error")
	}
}

func TestDocumentField(t *testing.T) {
	doc, err := NewDocument("users", "tbl_users", testFields(t))
	if err != nil {
		t.Fatal(err)
	}

	role, err := doc.Field("role")
	if err != nil {
		t.Fatal(err)
	}
	if role.Kind() != Enum {
		t.Errorf("Field(role).Kind() = %v, want Enum", role.Kind())
	}

	if _, err := doc.Field("missing"); err == nil {
		t.Error("Field(unknown) error = nil, want error")
	}
}
