package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sullytools/editguru/internal/sandbox"
)

type editFileParams struct {
	FilePath        string `json:"file_path"`
	StartLine       int    `json:"start_line"`
	EndLine         int    `json:"end_line"`
	ReplacementText string `json:"replacement_text"`
}

var editFileTool = tool{
	spec: Spec{
		Name:        "edit_file",
		Description: "Replace an inclusive 1-based line range of a file with a single new line of text. Line numbers are only valid against the most recent read of the file.",
		Parameters: []Parameter{
			{Name: "file_path", Type: "string", Description: "Path to the file to edit.", Required: true},
			{Name: "start_line", Type: "integer", Description: "First line of the range to replace (1-based).", Required: true},
			{Name: "end_line", Type: "integer", Description: "Last line of the range to replace (inclusive).", Required: true},
			{Name: "replacement_text", Type: "string", Description: "Text that replaces the whole range as one line.", Required: true},
		},
	},
	handle: handleEditFile,
}

func handleEditFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p editFileParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}
	if p.FilePath == "" {
		return "", BadParametersf("file_path is required")
	}

	abs, err := box.Resolve(p.FilePath)
	if err != nil {
		return "", PathEscapef("file %q is outside the repository", p.FilePath)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", NotFoundf("the file %q does not exist", p.FilePath)
	}

	lines := splitLines(string(data))
	if p.StartLine < 1 || p.EndLine > len(lines) || p.StartLine > p.EndLine {
		return "", RangeOutOfBoundsf("line range %d-%d is out of range for a %d-line file", p.StartLine, p.EndLine, len(lines))
	}

	// Splice the inclusive range out and put exactly one line in its place.
	edited := make([]string, 0, len(lines)-(p.EndLine-p.StartLine))
	edited = append(edited, lines[:p.StartLine-1]...)
	edited = append(edited, p.ReplacementText)
	edited = append(edited, lines[p.EndLine:]...)

	if err := os.WriteFile(abs, []byte(joinLines(edited)), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("File %s edited successfully.", p.FilePath), nil
}

type addToFileParams struct {
	FilePath     string `json:"file_path"`
	Content      string `json:"content"`
	InsertAtLine *int   `json:"insert_at_line,omitempty"`
}

var addToFileTool = tool{
	spec: Spec{
		Name:        "add_to_file",
		Description: "Append a line of content to the end of a file, or insert it before a given 1-based line.",
		Parameters: []Parameter{
			{Name: "file_path", Type: "string", Description: "Path to the file to add content to.", Required: true},
			{Name: "content", Type: "string", Description: "Content to add to the file.", Required: true},
			{Name: "insert_at_line", Type: "integer", Description: "Line number to insert the content at. Appends to the end when omitted."},
		},
	},
	handle: handleAddToFile,
}

func handleAddToFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p addToFileParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}
	if p.FilePath == "" {
		return "", BadParametersf("file_path is required")
	}

	abs, err := box.Resolve(p.FilePath)
	if err != nil {
		return "", PathEscapef("file %q is outside the repository", p.FilePath)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", NotFoundf("the file %q does not exist", p.FilePath)
	}

	lines := splitLines(string(data))
	if p.InsertAtLine != nil {
		at := *p.InsertAtLine
		if at < 1 || at > len(lines)+1 {
			return "", RangeOutOfBoundsf("insert line %d is out of range for a %d-line file", at, len(lines))
		}
		idx := at - 1
		lines = append(lines[:idx], append([]string{p.Content}, lines[idx:]...)...)
	} else {
		lines = append(lines, p.Content)
	}

	if err := os.WriteFile(abs, []byte(joinLines(lines)), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Content added to %s successfully.", p.FilePath), nil
}
