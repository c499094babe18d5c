// Package tools implements the fixed catalog of file-maintenance operations
// the agent may request, each confined to the session's repository root.
//
// The catalog is a closed static table: every tool carries its own parameter
// struct, a JSON-shape description handed to the completion backend, a
// safe/unsafe classification, and a handler. There is no runtime discovery.
package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/sullytools/editguru/internal/sandbox"
)

// Parameter describes one field of a tool's JSON parameter payload.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "boolean", "array"
	Items       string // element type when Type == "array"
	Description string
	Required    bool
}

// Spec is the declared shape of a tool as presented to the completion
// backend: name, description, parameter schema, and safety class.
type Spec struct {
	Name        string
	Description string
	Safe        bool // read-only tools may execute without operator approval
	Parameters  []Parameter
}

// handlerFunc executes one tool call against the sandbox. raw is the
// undecoded parameter payload; the handler owns strict decoding.
type handlerFunc func(ctx context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error)

type tool struct {
	spec   Spec
	handle handlerFunc
}

// catalog is the closed set of tools, registered once. Order is the order
// tools are declared to the completion backend.
var catalog = []tool{
	listFilesTool,
	readFileTool,
	writeFileTool,
	editFileTool,
	addToFileTool,
	deleteFileTool,
	moveFileTool,
	replaceTextTool,
	searchFilesTool,
	fileExistsTool,
	createDirectoryTool,
}

// Specs returns the declared tool shapes in catalog order.
func Specs() []Spec {
	specs := make([]Spec, len(catalog))
	for i, t := range catalog {
		specs[i] = t.spec
	}
	return specs
}

// IsSafe reports whether the named tool is read-only. Unknown names are
// treated as unsafe so they can never bypass the approval gate.
func IsSafe(name string) bool {
	for _, t := range catalog {
		if t.spec.Name == name {
			return t.spec.Safe
		}
	}
	return false
}

// lookup finds a tool by name.
func lookup(name string) (tool, bool) {
	for _, t := range catalog {
		if t.spec.Name == name {
			return t, true
		}
	}
	return tool{}, false
}

// decodeParams strictly decodes raw into params. Unknown fields, type
// mismatches, and malformed JSON are all bad_parameters: they must be
// rejected before any I/O.
func decodeParams(raw json.RawMessage, params any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(params); err != nil {
		return BadParametersf("invalid parameters: %v", err)
	}
	return nil
}
