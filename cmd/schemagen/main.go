package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/frifster/yougene/internal/service"
	"github.com/frifster/yougene/internal/ws"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	schema := buildSchema()

	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

// buildSchema describes both directions of the session socket protocol:
// client commands in, coordinator events out.
func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}

	commandSchema := reflector.Reflect(new(ws.ClientMessage))
	commandSchema.Title = "Session Command"
	commandSchema.Description = "Client-to-server command envelope (join, leave, ready, use-ability, move)."

	eventSchema := reflector.Reflect(new(service.Event))
	eventSchema.Title = "Session Event"
	eventSchema.Description = "Server-to-client event envelope published per session."

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Yougene Session Protocol",
		Description: "Messages exchanged over the duel session websocket.",
		OneOf: []*jsonschema.Schema{
			commandSchema,
			eventSchema,
		},
	}
	return root
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
