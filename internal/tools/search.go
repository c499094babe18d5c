package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sullytools/editguru/internal/sandbox"
)

type searchFilesParams struct {
	SearchText    string   `json:"search_text"`
	FilePaths     []string `json:"file_paths,omitempty"`
	UseRegex      bool     `json:"use_regex,omitempty"`
	CaseSensitive *bool    `json:"case_sensitive,omitempty"`
}

var searchFilesTool = tool{
	spec: Spec{
		Name:        "search_files",
		Description: "Search for text in files and return a mapping from matching file path to the 1-based line numbers of its matches. Searches the whole repository when no file list is given.",
		Safe:        true,
		Parameters: []Parameter{
			{Name: "search_text", Type: "string", Description: "The text or regex pattern to search for.", Required: true},
			{Name: "file_paths", Type: "array", Items: "string", Description: "List of file paths to search in. Searches all files in the repository when omitted."},
			{Name: "use_regex", Type: "boolean", Description: "Set to true to interpret search_text as a regular expression."},
			{Name: "case_sensitive", Type: "boolean", Description: "Set to false for case-insensitive search. Defaults to true."},
		},
	},
	handle: handleSearchFiles,
}

func handleSearchFiles(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p searchFilesParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}
	if p.SearchText == "" {
		return "", BadParametersf("search_text is required")
	}

	caseSensitive := p.CaseSensitive == nil || *p.CaseSensitive
	pattern, err := compileSearch(p.SearchText, p.UseRegex, caseSensitive)
	if err != nil {
		return "", BadParametersf("invalid regular expression: %v", err)
	}

	var candidates []string
	if len(p.FilePaths) > 0 {
		for _, rel := range p.FilePaths {
			abs, err := box.Resolve(rel)
			if err != nil {
				continue // outside the repository, skip
			}
			candidates = append(candidates, abs)
		}
	} else {
		// Whole-tree search, excluding dot-prefixed entries.
		_ = filepath.WalkDir(box.Root(), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != box.Root() && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			candidates = append(candidates, path)
			return nil
		})
	}

	matches := make(map[string][]int)
	for _, abs := range candidates {
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			continue // unreadable, skip
		}
		if !utf8.Valid(data) {
			continue // not decodable as text, skip
		}

		var matched []int
		for i, line := range splitLines(string(data)) {
			if lineMatches(line, p.SearchText, pattern) {
				matched = append(matched, i+1)
			}
		}
		if len(matched) > 0 {
			matches[box.Rel(abs)] = matched
		}
	}

	out, err := json.Marshal(matches)
	if err != nil {
		return "", fmt.Errorf("encoding search results: %w", err)
	}
	return string(out), nil
}

func lineMatches(line, search string, pattern *regexp.Regexp) bool {
	if pattern != nil {
		return pattern.MatchString(line)
	}
	return strings.Contains(line, search)
}
