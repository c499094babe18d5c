package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sullytools/editguru/internal/sandbox"
)

type replaceTextParams struct {
	FilePaths       []string `json:"file_paths"`
	SearchText      string   `json:"search_text"`
	ReplacementText string   `json:"replacement_text"`
	UseRegex        bool     `json:"use_regex,omitempty"`
	CaseSensitive   *bool    `json:"case_sensitive,omitempty"`
}

var replaceTextTool = tool{
	spec: Spec{
		Name:        "replace_text",
		Description: "Replace occurrences of search_text with replacement_text in the given files. Returns the total number of replacements across all files.",
		Parameters: []Parameter{
			{Name: "file_paths", Type: "array", Items: "string", Description: "List of file paths within the repository where text replacement should occur.", Required: true},
			{Name: "search_text", Type: "string", Description: "The text or regex pattern to search for.", Required: true},
			{Name: "replacement_text", Type: "string", Description: "The text to replace with.", Required: true},
			{Name: "use_regex", Type: "boolean", Description: "Set to true to interpret search_text as a regular expression."},
			{Name: "case_sensitive", Type: "boolean", Description: "Set to false for case-insensitive search. Defaults to true."},
		},
	},
	handle: handleReplaceText,
}

func handleReplaceText(_ context.Context, box *sandbox.Sandbox, raw json.RawMessage) (string, error) {
	var p replaceTextParams
	if err := decodeParams(raw, &p); err != nil {
		return "", err
	}
	if len(p.FilePaths) == 0 {
		return "", BadParametersf("file_paths must not be empty")
	}
	if p.SearchText == "" {
		return "", BadParametersf("search_text is required")
	}

	caseSensitive := p.CaseSensitive == nil || *p.CaseSensitive

	pattern, err := compileSearch(p.SearchText, p.UseRegex, caseSensitive)
	if err != nil {
		return "", BadParametersf("invalid regular expression: %v", err)
	}

	total := 0
	for _, rel := range p.FilePaths {
		abs, err := box.Resolve(rel)
		if err != nil {
			return "", PathEscapef("file %q is outside the repository", rel)
		}

		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			return "", NotFoundf("the file %q does not exist", rel)
		}

		data, err := os.ReadFile(abs)
		if err != nil {
			return "", err
		}
		content := string(data)

		var replaced string
		var count int
		if pattern != nil {
			count = len(pattern.FindAllStringIndex(content, -1))
			if count > 0 {
				replaced = pattern.ReplaceAllString(content, p.ReplacementText)
			}
		} else {
			// Case-sensitive literal replacement needs no regex machinery.
			count = strings.Count(content, p.SearchText)
			if count > 0 {
				replaced = strings.ReplaceAll(content, p.SearchText, p.ReplacementText)
			}
		}

		// Only files with at least one match are rewritten, so a no-match
		// run leaves content and mtime untouched.
		if count > 0 {
			if err := os.WriteFile(abs, []byte(replaced), info.Mode().Perm()); err != nil {
				return "", err
			}
			total += count
		}
	}

	return fmt.Sprintf("Text replacement completed. Total replacements made: %d.", total), nil
}

// compileSearch builds the matcher for replace and search operations.
// Returns nil when a plain case-sensitive substring match suffices.
// Case-insensitive literal search is a regex over the escaped pattern.
func compileSearch(search string, useRegex, caseSensitive bool) (*regexp.Regexp, error) {
	switch {
	case useRegex && caseSensitive:
		return regexp.Compile(search)
	case useRegex:
		return regexp.Compile("(?i)" + search)
	case caseSensitive:
		return nil, nil
	default:
		return regexp.Compile("(?i)" + regexp.QuoteMeta(search))
	}
}
