package tools

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sullytools/editguru/internal/sandbox"
)

type listFilesParams struct {
	Recursive bool   `json:"recursive,omitempty"`
	Path      string `json:"path,omitempty"`
}

var listFilesTool = tool{
	spec: Spec{
		Name:        "list_files",
		Description: "List files under the repository root. Non-recursive listings mark directories with a trailing slash.",
		Safe:        true,
		Parameters: []Parameter{
			{Name: "recursive", Type: "boolean", Description: "Set to true to list files recursively."},
			{Name: "path", Type: "string", Description: "Sub-path within the repository to list files from."},
		},
	},
	handle: handleListFiles,
}

func handleListFiles(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p listFilesParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}

	target := box.Root()
	if p.Path != "" {
		abs, err := box.Resolve(p.Path)
		if err != nil {
			return "", PathEscapef("path %q is outside the repository", p.Path)
		}
		target = abs
	}

	if _, err := os.Stat(target); err != nil {
		return "", NotFoundf("the path %q does not exist", p.Path)
	}

	var entries []string
	if p.Recursive {
		err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, skip
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			entries = append(entries, box.Rel(path))
			return nil
		})
		if err != nil {
			return "", err
		}
	} else {
		dirEntries, err := os.ReadDir(target)
		if err != nil {
			return "", err
		}
		for _, e := range dirEntries {
			if strings.HasPrefix(e.Name(), ".") {
				continue
			}
			name := box.Rel(filepath.Join(target, e.Name()))
			if e.IsDir() {
				name += "/"
			}
			entries = append(entries, name)
		}
	}

	sort.Strings(entries)
	return strings.Join(entries, "\n"), nil
}
