// CLI Schema Validator
//
// Validates a schema declaration file and prints the deterministic registry
// serialization the SDK would send to the translate service. The output is
// byte-stable across runs, so it can be diffed or cached.
//
// Usage:
//
//	go run ./cmd/kaiwa-schema -f schemas.json -engine postgresql
//
// Options:
//
//	-f          Declaration file path (required)
//	-engine     Engine family (default: "postgresql")
//	-version    Engine version (optional)
//	-session    Session identifier (default: "kaiwa-schema")
//	-pretty     Indent the output
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kaiwadb/kaiwadb-go/core"
	"github.com/kaiwadb/kaiwadb-go/internal/declfile"
	"github.com/kaiwadb/kaiwadb-go/schema"
)

func main() {
	var (
		file      string
		family    string
		version   string
		sessionID string
		pretty    bool
	)

	flag.StringVar(&file, "f", "", "Declaration file path (required)")
	flag.StringVar(&family, "engine", "postgresql", "Engine family")
	flag.StringVar(&version, "version", "", "Engine version")
	flag.StringVar(&sessionID, "session", "kaiwa-schema", "Session identifier")
	flag.BoolVar(&pretty, "pretty", false, "Indent the output")
	flag.Parse()

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f is required")
		flag.Usage()
		os.Exit(1)
	}

	docs, err := declfile.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := core.Engine{Family: core.EngineFamily(family), Version: version}
	registry, err := schema.NewRegistry(sessionID, engine, docs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := registry.Serialized()
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}
	fmt.Println(string(out))
}
