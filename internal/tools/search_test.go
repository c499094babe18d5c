package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchMatches(t *testing.T, res Result) map[string][]int {
	t.Helper()
	require.True(t, res.OK(), "search failed: %v", res.Failure)
	var matches map[string][]int
	require.NoError(t, json.Unmarshal([]byte(res.Content), &matches))
	return matches
}

func TestSearchFiles_WholeTree(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "needle\nhay\nneedle again\n")
	writeTestFile(t, box, "sub/b.txt", "no match here\n")
	writeTestFile(t, box, "sub/c.txt", "one needle\n")

	res := invoke(t, inv, "search_files", map[string]any{"search_text": "needle"})
	matches := searchMatches(t, res)

	assert.Equal(t, []int{1, 3}, matches["a.txt"])
	assert.Equal(t, []int{1}, matches["sub/c.txt"])
	assert.NotContains(t, matches, "sub/b.txt")
}

func TestSearchFiles_ExplicitFileList(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "needle\n")
	writeTestFile(t, box, "b.txt", "needle\n")

	res := invoke(t, inv, "search_files", map[string]any{
		"search_text": "needle",
		"file_paths":  []string{"a.txt"},
	})
	matches := searchMatches(t, res)

	assert.Contains(t, matches, "a.txt")
	assert.NotContains(t, matches, "b.txt")
}

func TestSearchFiles_SkipsDotEntriesAndBinary(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, ".hidden.txt", "needle\n")
	writeTestFile(t, box, ".git/needle.txt", "needle\n")
	writeTestFile(t, box, "bin.dat", "needle\xff\xfe\x00broken")
	writeTestFile(t, box, "plain.txt", "needle\n")

	res := invoke(t, inv, "search_files", map[string]any{"search_text": "needle"})
	matches := searchMatches(t, res)

	assert.Equal(t, map[string][]int{"plain.txt": {1}}, matches)
}

func TestSearchFiles_CaseInsensitiveMatchesRegexEquivalent(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "Needle\nneedle\nNEEDLE\nnope\n")

	literal := invoke(t, inv, "search_files", map[string]any{
		"search_text":    "needle",
		"case_sensitive": false,
	})
	regex := invoke(t, inv, "search_files", map[string]any{
		"search_text":    "needle",
		"use_regex":      true,
		"case_sensitive": false,
	})

	litMatches := searchMatches(t, literal)
	reMatches := searchMatches(t, regex)

	assert.Equal(t, []int{1, 2, 3}, litMatches["a.txt"])
	assert.Equal(t, reMatches, litMatches, "literal and ignore-case regex must agree on positions")
}

func TestSearchFiles_CaseSensitiveDefault(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "Needle\nneedle\n")

	res := invoke(t, inv, "search_files", map[string]any{"search_text": "needle"})
	matches := searchMatches(t, res)

	assert.Equal(t, []int{2}, matches["a.txt"])
}

func TestSearchFiles_Regex(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "func main()\nvar x int\nfunc helper()\n")

	res := invoke(t, inv, "search_files", map[string]any{
		"search_text": `^func \w+\(\)`,
		"use_regex":   true,
	})
	matches := searchMatches(t, res)

	assert.Equal(t, []int{1, 3}, matches["a.txt"])
}

func TestSearchFiles_NoMatchesReturnsEmptyMap(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "hay\n")

	res := invoke(t, inv, "search_files", map[string]any{"search_text": "needle"})
	matches := searchMatches(t, res)
	assert.Empty(t, matches)
}

func TestSearchFiles_OutsidePathsSilentlySkipped(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "needle\n")

	res := invoke(t, inv, "search_files", map[string]any{
		"search_text": "needle",
		"file_paths":  []string{"a.txt", "../../etc/passwd"},
	})
	matches := searchMatches(t, res)
	assert.Contains(t, matches, "a.txt")
	assert.Len(t, matches, 1)
}
