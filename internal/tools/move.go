package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sullytools/editguru/internal/sandbox"
)

type deleteFileParams struct {
	FilePath string `json:"file_path"`
}

var deleteFileTool = tool{
	spec: Spec{
		Name:        "delete_file",
		Description: "Delete a file from the repository.",
		Parameters: []Parameter{
			{Name: "file_path", Type: "string", Description: "Path to the file to delete.", Required: true},
		},
	},
	handle: handleDeleteFile,
}

func handleDeleteFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p deleteFileParams
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

	if err := os.Remove(abs); err != nil {
		return "", err
	}
	return fmt.Sprintf("File %s deleted successfully.", p.FilePath), nil
}

type moveFileParams struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	CopyFile        bool   `json:"copy_file,omitempty"`
}

var moveFileTool = tool{
	spec: Spec{
		Name:        "move_file",
		Description: "Move a file to a new path, or copy it when copy_file is set. Destination parent directories are created as needed.",
		Parameters: []Parameter{
			{Name: "source_path", Type: "string", Description: "Current path of the file.", Required: true},
			{Name: "destination_path", Type: "string", Description: "New path for the file.", Required: true},
			{Name: "copy_file", Type: "boolean", Description: "Set to true to copy the file instead of moving it."},
		},
	},
	handle: handleMoveFile,
}

func handleMoveFile(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p moveFileParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}
	if p.SourcePath == "" || p.DestinationPath == "" {
		return "", BadParametersf("source_path and destination_path are required")
	}

	src, err := box.Resolve(p.SourcePath)
	if err != nil {
		return "", PathEscapef("source %q is outside the repository", p.SourcePath)
	}
	dst, err := box.Resolve(p.DestinationPath)
	if err != nil {
		return "", PathEscapef("destination %q is outside the repository", p.DestinationPath)
	}

	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		return "", NotFoundf("the source file %q does not exist", p.SourcePath)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	action := "moved"
	if p.CopyFile {
		if err := copyFile(src, dst, info.Mode()); err != nil {
			return "", err
		}
		action = "copied"
	} else {
		if err := os.Rename(src, dst); err != nil {
			// Cross-device rename: fall back to copy + remove.
			if err := copyFile(src, dst, info.Mode()); err != nil {
				return "", err
			}
			if err := os.Remove(src); err != nil {
				return "", err
			}
		}
	}

	return fmt.Sprintf("File %s %s to %s successfully.", p.SourcePath, action, p.DestinationPath), nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
