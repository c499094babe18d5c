package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sullytools/editguru/internal/sandbox"
)

type writeFileParams struct {
	FilePath  string `json:"file_path"`
	Content   string `json:"content"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

var writeFileTool = tool{
	spec: Spec{
		Name:        "write_file",
		Description: "Create a new file with the given content, creating parent directories as needed. Refuses to clobber an existing file unless overwrite is set.",
		Parameters: []Parameter{
			{Name: "file_path", Type: "string", Description: "Path where the file will be created.", Required: true},
			{Name: "content", Type: "string", Description: "Content to write into the file.", Required: true},
			{Name: "overwrite", Type: "boolean", Description: "Set to true to replace an existing file."},
		},
	},
	handle: handleWriteFile,
}

func handleWriteFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p writeFileParams
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

	if _, err := os.Stat(abs); err == nil && !p.Overwrite {
		return "", AlreadyExistsf("file %q already exists", p.FilePath)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, []byte(p.Content), 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf("File %s created successfully.", p.FilePath), nil
}

type createDirectoryParams struct {
	DirectoryPath string `json:"directory_path"`
}

var createDirectoryTool = tool{
	spec: Spec{
		Name:        "create_directory",
		Description: "Create a new directory at the given path within the repository.",
		Safe:        true,
		Parameters: []Parameter{
			{Name: "directory_path", Type: "string", Description: "Path to the new directory within the repository.", Required: true},
		},
	},
	handle: handleCreateDirectory,
}

func handleCreateDirectory(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p createDirectoryParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}
	if p.DirectoryPath == "" {
		return "", BadParametersf("directory_path is required")
	}

	abs, err := box.Resolve(p.DirectoryPath)
	if err != nil {
		return "", PathEscapef("directory %q is outside the repository", p.DirectoryPath)
	}

	if _, err := os.Stat(abs); err == nil {
		return "", AlreadyExistsf("directory %q already exists", p.DirectoryPath)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", err
	}
	return fmt.Sprintf("Directory %s created successfully.", p.DirectoryPath), nil
}
