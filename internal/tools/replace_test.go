package tools

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceText_LiteralAcrossFiles(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "foo bar foo\n")
	writeTestFile(t, box, "b.txt", "foo\n")

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"a.txt", "b.txt"},
		"search_text":      "foo",
		"replacement_text": "baz",
	})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "Total replacements made: 3")

	data, err := os.ReadFile(box.Root() + "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "baz bar baz\n", string(data))
}

func TestReplaceText_NoMatchLeavesFilesUntouched(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "a.txt", "nothing to see\n")

	before, err := os.Stat(abs)
	require.NoError(t, err)

	// mtime granularity can be coarse; leave a gap so a rewrite would show.
	time.Sleep(20 * time.Millisecond)

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"a.txt"},
		"search_text":      "absent needle",
		"replacement_text": "x",
	})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "Total replacements made: 0")

	after, err := os.Stat(abs)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "no-match run must not rewrite the file")

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "nothing to see\n", string(data))
}

func TestReplaceText_CaseInsensitiveLiteral(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "a.txt", "Foo foo FOO fOo\n")

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"a.txt"},
		"search_text":      "foo",
		"replacement_text": "bar",
		"case_sensitive":   false,
	})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "Total replacements made: 4")

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "bar bar bar bar\n", string(data))
}

func TestReplaceText_CaseInsensitiveLiteralEscapesMetacharacters(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "a.txt", "price is $1.50 today\nnot $1x50\n")

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"a.txt"},
		"search_text":      "$1.50",
		"replacement_text": "$2.00",
		"case_sensitive":   false,
	})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "Total replacements made: 1")

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "price is $2.00 today\nnot $1x50\n", string(data))
}

func TestReplaceText_Regex(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "a.txt", "v1 v2 v3\n")

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"a.txt"},
		"search_text":      `v(\d)`,
		"replacement_text": "version$1",
		"use_regex":        true,
	})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "Total replacements made: 3")

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "version1 version2 version3\n", string(data))
}

func TestReplaceText_InvalidRegex(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "a.txt", "content\n")

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"a.txt"},
		"search_text":      "([unclosed",
		"replacement_text": "x",
		"use_regex":        true,
	})
	require.False(t, res.OK())
	assert.Equal(t, KindBadParameters, res.Failure.Kind)
}

func TestReplaceText_MissingFile(t *testing.T) {
	inv, _ := newTestInvoker(t)

	res := invoke(t, inv, "replace_text", map[string]any{
		"file_paths":       []string{"ghost.txt"},
		"search_text":      "a",
		"replacement_text": "b",
	})
	require.False(t, res.OK())
	assert.Equal(t, KindNotFound, res.Failure.Kind)
}
