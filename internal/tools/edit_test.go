package tools

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditFile_ReplacesExactlyOneLine(t *testing.T) {
	inv, box := newTestInvoker(t)

	// Every single-line edit position of a 5-line file.
	for k := 1; k <= 5; k++ {
		rel := fmt.Sprintf("f%d.txt", k)
		abs := writeTestFile(t, box, rel, "l1\nl2\nl3\nl4\nl5\n")

		res := invoke(t, inv, "edit_file", map[string]any{
			"file_path":        rel,
			"start_line":       k,
			"end_line":         k,
			"replacement_text": "CHANGED",
		})
		require.True(t, res.OK(), "edit at line %d: %v", k, res.Failure)

		data, err := os.ReadFile(abs)
		require.NoError(t, err)

		want := ""
		for i := 1; i <= 5; i++ {
			if i == k {
				want += "CHANGED\n"
			} else {
				want += fmt.Sprintf("l%d\n", i)
			}
		}
		assert.Equal(t, want, string(data), "edit at line %d", k)
	}
}

func TestEditFile_CollapsesRangeToSingleLine(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "f.txt", "a\nb\nc\nd\n")

	res := invoke(t, inv, "edit_file", map[string]any{
		"file_path":        "f.txt",
		"start_line":       2,
		"end_line":         3,
		"replacement_text": "merged",
	})
	require.True(t, res.OK())

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "a\nmerged\nd\n", string(data))
}

func TestEditFile_BoundsRejectionLeavesFileUntouched(t *testing.T) {
	inv, box := newTestInvoker(t)

	original := "a\nb\nc\n"
	cases := []struct {
		name       string
		start, end int
	}{
		{"end past EOF", 1, 4},
		{"start below one", 0, 2},
		{"start after end", 3, 2},
		{"far out", 10, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			abs := writeTestFile(t, box, tc.name+".txt", original)

			res := invoke(t, inv, "edit_file", map[string]any{
				"file_path":        tc.name + ".txt",
				"start_line":       tc.start,
				"end_line":         tc.end,
				"replacement_text": "x",
			})
			require.False(t, res.OK())
			assert.Equal(t, KindRangeOutOfBounds, res.Failure.Kind)

			data, err := os.ReadFile(abs)
			require.NoError(t, err)
			assert.Equal(t, original, string(data), "file must be byte-for-byte unchanged")
		})
	}
}

func TestEditFile_MissingFile(t *testing.T) {
	inv, _ := newTestInvoker(t)

	res := invoke(t, inv, "edit_file", map[string]any{
		"file_path":        "ghost.txt",
		"start_line":       1,
		"end_line":         1,
		"replacement_text": "x",
	})
	require.False(t, res.OK())
	assert.Equal(t, KindNotFound, res.Failure.Kind)
}

func TestAddToFile_AppendsWhenNoLineGiven(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "f.txt", "a\nb\n")

	res := invoke(t, inv, "add_to_file", map[string]any{
		"file_path": "f.txt",
		"content":   "c",
	})
	require.True(t, res.OK())

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(data))
}

func TestAddToFile_InsertsBeforeLine(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "f.txt", "a\nb\n")

	res := invoke(t, inv, "add_to_file", map[string]any{
		"file_path":      "f.txt",
		"content":        "first",
		"insert_at_line": 1,
	})
	require.True(t, res.OK())

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "first\na\nb\n", string(data))
}

func TestAddToFile_InsertAtLineCountPlusOne(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "f.txt", "a\nb\n")

	res := invoke(t, inv, "add_to_file", map[string]any{
		"file_path":      "f.txt",
		"content":        "last",
		"insert_at_line": 3,
	})
	require.True(t, res.OK())

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nlast\n", string(data))
}

func TestAddToFile_InsertOutOfRange(t *testing.T) {
	inv, box := newTestInvoker(t)

	for _, at := range []int{0, 4, -1} {
		abs := writeTestFile(t, box, fmt.Sprintf("f%d.txt", at+1), "a\nb\n")

		res := invoke(t, inv, "add_to_file", map[string]any{
			"file_path":      fmt.Sprintf("f%d.txt", at+1),
			"content":        "x",
			"insert_at_line": at,
		})
		require.False(t, res.OK(), "insert_at_line=%d", at)
		assert.Equal(t, KindRangeOutOfBounds, res.Failure.Kind)

		data, err := os.ReadFile(abs)
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", string(data))
	}
}
