// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

// compiled is the release collection schema, built lazily on first use.
var compiled *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if compiled != nil {
		return compiled, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse release schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("releases.schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to register release schema: %w", err)
	}

	sch, err := c.Compile("releases.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile release schema: %w", err)
	}

	compiled = sch

	return compiled, nil
}

// validateEntries checks a raw JSON release collection against the release
// schema.
func validateEntries(raw []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	return sch.Validate(inst)
}
