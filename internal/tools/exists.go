package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sullytools/editguru/internal/sandbox"
)

type fileExistsParams struct {
	FilePath string `json:"file_path"`
}

var fileExistsTool = tool{
	spec: Spec{
		Name:        "file_exists",
		Description: "Check whether a file exists in the repository.",
		Safe:        true,
		Parameters: []Parameter{
			{Name: "file_path", Type: "string", Description: "Path to the file to check within the repository.", Required: true},
		},
	},
	handle: handleFileExists,
}

func handleFileExists(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p fileExistsParams
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
	if err == nil && !info.IsDir() {
		return fmt.Sprintf("File %q exists.", p.FilePath), nil
	}
	return fmt.Sprintf("File %q does not exist.", p.FilePath), nil
}
