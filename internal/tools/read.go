package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sullytools/editguru/internal/sandbox"
)

type readFileParams struct {
	FilePath string `json:"file_path"`
}

var readFileTool = tool{
	spec: Spec{
		Name:        "read_file",
		Description: "Read a file and return its content as 1-indexed numbered lines.",
		Safe:        true,
		Parameters: []Parameter{
			{Name: "file_path", Type: "string", Description: "Path to the file within the repository.", Required: true},
		},
	},
	handle: handleReadFile,
}

func handleReadFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p readFileParams
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

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", NotFoundf("the file %q does not exist", p.FilePath)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}

	lines := splitLines(string(data))
	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = fmt.Sprintf("%d: %s", i+1, line)
	}
	return strings.Join(numbered, "\n"), nil
}
