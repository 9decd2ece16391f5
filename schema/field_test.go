package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/kaiwadb/kaiwadb-go/core"
)

func TestNewFieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		kind    Kind
		opts    []FieldOption
		wantErr bool
	}{
		{
			name:  "plain string field",
			field: "email",
			kind:  String,
		},
		{
			name:  "physical name remap",
			field: "user_id",
			kind:  Int,
			opts:  []FieldOption{WithPhysicalName("cust_id_pk")},
		},
		{
			name:    "empty name",
			field:   "  ",
			kind:    String,
			wantErr: true,
		},
		{
			name:    "unknown kind",
			field:   "x",
			kind:    Kind(99),
			wantErr: true,
		},
		{
			name:  "valid enum",
			field: "role",
			kind:  Enum,
			opts: []FieldOption{WithEnum(
				EnumMember{Name: "CUSTOMER", Value: 1},
				EnumMember{Name: "ADMIN", Value: 2},
			)},
		},
		{
			name:    "enum without members",
			field:   "role",
			kind:    Enum,
			wantErr: true,
		},
		{
			name:  "enum with duplicate member name",
			field: "role",
			kind:  Enum,
			opts: []FieldOption{WithEnum(
				EnumMember{Name: "ADMIN", Value: 1},
				EnumMember{Name: "ADMIN", Value: 2},
			)},
			wantErr: true,
		},
		{
			name:  "non-injective enum values",
			field: "role",
			kind:  Enum,
			opts: []FieldOption{WithEnum(
				EnumMember{Name: "CUSTOMER", Value: 1},
				EnumMember{Name: "ADMIN", Value: 1},
			)},
			wantErr: true,
		},
		{
			name:    "enum members on non-enum field",
			field:   "count",
			kind:    Int,
			opts:    []FieldOption{WithEnum(EnumMember{Name: "A", Value: 1})},
			wantErr: true,
		},
		{
			name:  "int default",
			field: "count",
			kind:  Int,
			opts:  []FieldOption{WithDefault(0)},
		},
		{
			name:    "int default of wrong type",
			field:   "count",
			kind:    Int,
			opts:    []FieldOption{WithDefault("zero")},
			wantErr: true,
		},
		{
			name:  "float default",
			field: "ratio",
			kind:  Float,
			opts:  []FieldOption{WithDefault(0.5)},
		},
		{
			name:    "float default of wrong type",
			field:   "ratio",
			kind:    Float,
			opts:    []FieldOption{WithDefault(1)},
			wantErr: true,
		},
		{
			name:  "bool default",
			field: "active",
			kind:  Bool,
			opts:  []FieldOption{WithDefault(true)},
		},
		{
			name:  "datetime default",
			field: "created_at",
			kind:  DateTime,
			opts:  []FieldOption{WithDefault(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
		},
		{
			name:    "datetime default of wrong type",
			field:   "created_at",
			kind:    DateTime,
			opts:    []FieldOption{WithDefault("2024-01-01")},
			wantErr: true,
		},
		{
			name:  "enum default naming a member",
			field: "role",
			kind:  Enum,
			opts: []FieldOption{
				WithEnum(EnumMember{Name: "CUSTOMER", Value: 1}),
				WithDefault("CUSTOMER"),
			},
		},
		{
			name:  "enum default naming an unknown member",
			field: "role",
			kind:  Enum,
			opts: []FieldOption{
				WithEnum(EnumMember{Name: "CUSTOMER", Value: 1}),
				WithDefault("ROOT"),
			},
			wantErr: true,
		},
		{
			name:  "enum default of wrong type",
			field: "role",
			kind:  Enum,
			opts: []FieldOption{
				WithEnum(EnumMember{Name: "CUSTOMER", Value: 1}),
				WithDefault(1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewField(tt.field, tt.kind, tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewField() error = nil, want SchemaDefinitionError")
				}
				var defErr *core.SchemaDefinitionError
				if !errors.As(err, &defErr) {
					t.Fatalf("NewField() error = %T, want *SchemaDefinitionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewField() error = %v, want nil", err)
			}
		})
	}
}

func TestFieldPhysicalNameDefaultsToLogical(t *testing.T) {
	f, err := NewField("email", String)
	if err != nil {
		t.Fatal(err)
	}
	if f.PhysicalName() != "email" {
		t.Errorf("PhysicalName() = %q, want %q", f.PhysicalName(), "email")
	}
}

func TestEnumRoundTrip(t *testing.T) {
	members := []EnumMember{
		{Name: "CUSTOMER", Value: 1},
		{Name: "ADMIN", Value: 2},
		{Name: "AUDITOR", Value: 7},
	}
	f, err := NewField("role", Enum, WithEnum(members...))
	if err != nil {
		t.Fatal(err)
	}

	// Every member must round-trip logical -> physical -> logical.
	for _, m := range members {
		value, err := f.MemberValue(m.Name)
		if err != nil {
			t.Fatalf("MemberValue(%q) error = %v", m.Name, err)
		}
		if value != m.Value {
			t.Errorf("MemberValue(%q) = %d, want %d", m.Name, value, m.Value)
		}
		name, err := f.MemberName(value)
		if err != nil {
			t.Fatalf("MemberName(%d) error = %v", value, err)
		}
		if name != m.Name {
			t.Errorf("MemberName(%d) = %q, want %q", value, name, m.Name)
		}
	}

	if _, err := f.MemberValue("ROOT"); err == nil {
		t.Error("MemberValue(unknown) error = nil, want error")
	}
	if _, err := f.MemberName(99); err == nil {
		t.Error("MemberName(unknown) error = nil, want error")
	}
}

func TestEnumLookupsRejectNonEnumField(t *testing.T) {
	f, err := NewField("email", String)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.MemberValue("X"); err == nil {
		t.Error("MemberValue() on string field: error = nil, want error")
	}
	if _, err := f.MemberName(1); err == nil {
		t.Error("MemberName() on string field: error = nil, want error")
	}
}

func TestMembersReturnsCopyInOrder(t *testing.T) {
	f, err := NewField("role", Enum, WithEnum(
		EnumMember{Name: "B", Value: 2},
		EnumMember{Name: "A", Value: 1},
	))
	if err != nil {
		t.Fatal(err)
	}

	members := f.Members()
	if members[0].Name != "B" || members[1].Name != "A" {
		t.Errorf("Members() order = %v, want declaration order", members)
	}

	members[0].Name = "MUTATED"
	if f.Members()[0].Name != "B" {
		t.Error("mutating the returned slice changed the field")
	}
}

func TestMustFieldPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustField() did not panic on invalid declaration")
		}
	}()
	MustField("role", Enum)
}

func TestKindFromString(t *testing.T) {
	for _, k := range []Kind{Int, Float, String, Bool, DateTime, Enum} {
		parsed, ok := KindFromString(k.String())
		if !ok || parsed != k {
			t.Errorf("KindFromString(%q) = %v, %v", k.String(), parsed, ok)
		}
	}
	if _, ok := KindFromString("decimal"); ok {
		t.Error("KindFromString(unknown) ok = true, want false")
	}
}
