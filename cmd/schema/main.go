package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"planboard/pkg/api"

	"github.com/invopop/jsonschema"
)

// Protocol собирает все сообщения клиент-сервер в один документ
type Protocol struct {
	Command  api.ClientCommand  `json:"command"`
	Response api.ServerResponse `json:"response"`

	Hex     api.HexPayload       `json:"hexPayload"`
	Attack  api.AttackPayload    `json:"attackPayload"`
	Unit    api.UnitPayload      `json:"unitPayload"`
	Recruit api.RecruitPayload   `json:"recruitPayload"`
	Recall  api.RecallPayload    `json:"recallPayload"`
	Bump    api.BumpPayload      `json:"bumpPayload"`
	Ref     api.ActionRefPayload `json:"actionRefPayload"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(Protocol))
	schema.Title = "Planboard Protocol"
	schema.Description = "Client commands, action payloads and per-side state updates of the planboard websocket API"
	return schema
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
