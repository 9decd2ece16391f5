// CLI Schema Code Generator
//
// Generates Go schema declarations from a JSON declaration file, so teams
// that keep their schema catalog in JSON get compile-time declarations
// without hand-translating them.
//
// Usage:
//
//	go run ./cmd/kaiwa-gen -f schemas.json -package myschemas -o schemas_gen.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kaiwadb/kaiwadb-go/internal/declfile"
	"github.com/kaiwadb/kaiwadb-go/schema"
)

func main() {
	var (
		file   string
		pkg    string
		output string
	)

	flag.StringVar(&file, "f", "", "Declaration file path (required)")
	flag.StringVar(&pkg, "package", "schemas", "Package name for the generated file")
	flag.StringVar(&output, "o", "", "Output file path (default: stdout)")
	flag.Parse()

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f is required")
		flag.Usage()
		os.Exit(1)
	}

	// Load validates through the real constructors; generation only runs on
	// declarations the SDK would accept.
	docs, err := declfile.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	source, err := generate(pkg, docs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if output == "" {
		fmt.Print(string(source))
		return
	}
	if err := os.WriteFile(output, source, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d documents)\n", output, len(docs))
}

var titleCaser = cases.Title(language.English)

// exportedName converts a logical name like "order_items" to "OrderItems".
func exportedName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(titleCaser.String(part))
	}
	out := b.String()
	if out == "" || !unicode.IsLetter(rune(out[0])) {
		out = "Doc" + out
	}
	return out
}

func generate(pkg string, docs []*schema.Document) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "// Code generated by kaiwa-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	if hasTimeDefault(docs) {
		fmt.Fprintf(&b, "import (\n\t\"time\"\n\n\t\"github.com/kaiwadb/kaiwadb-go/schema\"\n)\n\n")
	} else {
		fmt.Fprintf(&b, "import \"github.com/kaiwadb/kaiwadb-go/schema\"\n\n")
	}

	for _, doc := range docs {
		fmt.Fprintf(&b, "var %s = schema.MustDocument(%q, %q, []schema.Field{\n",
			exportedName(doc.Name()), doc.Name(), doc.PhysicalName())
		for _, f := range doc.Fields() {
			writeField(&b, f)
		}
		b.WriteString("}")
		if doc.Description() != "" {
			fmt.Fprintf(&b, ", schema.WithDocDescription(%q)", doc.Description())
		}
		b.WriteString(")\n\n")
	}

	return format.Source(b.Bytes())
}

func hasTimeDefault(docs []*schema.Document) bool {
	for _, doc := range docs {
		for _, f := range doc.Fields() {
			if _, ok := f.Default(); ok && f.Kind() == schema.DateTime {
				return true
			}
		}
	}
	return false
}

func writeField(b *bytes.Buffer, f schema.Field) {
	fmt.Fprintf(b, "\tschema.MustField(%q, schema.%s", f.Name(), kindIdent(f.Kind()))
	if f.PhysicalName() != f.Name() {
		fmt.Fprintf(b, ", schema.WithPhysicalName(%q)", f.PhysicalName())
	}
	if f.Description() != "" {
		fmt.Fprintf(b, ", schema.WithDescription(%q)", f.Description())
	}
	if f.IsRequired() {
		b.WriteString(", schema.Required()")
	}
	if members := f.Members(); len(members) > 0 {
		b.WriteString(", schema.WithEnum(")
		for i, m := range members {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "schema.EnumMember{Name: %q, Value: %d}", m.Name, m.Value)
		}
		b.WriteString(")")
	}
	if def, ok := f.Default(); ok {
		fmt.Fprintf(b, ", schema.WithDefault(%s)", defaultLiteral(def))
	}
	b.WriteString("),\n")
}

func kindIdent(k schema.Kind) string {
	switch k {
	case schema.Int:
		return "Int"
	case schema.Float:
		return "Float"
	case schema.String:
		return "String"
	case schema.Bool:
		return "Bool"
	case schema.DateTime:
		return "DateTime"
	case schema.Enum:
		return "Enum"
	}
	return "String"
}

func defaultLiteral(v any) string {
	switch value := v.(type) {
	case string:
		return fmt.Sprintf("%q", value)
	case time.Time:
		return fmt.Sprintf("time.Date(%d, %d, %d, %d, %d, %d, %d, time.UTC)",
			value.Year(), value.Month(), value.Day(),
			value.Hour(), value.Minute(), value.Second(), value.Nanosecond())
	default:
		return fmt.Sprintf("%v", value)
	}
}
