package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_NumbersLinesFromOne(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "notes.txt", "alpha\nbeta\ngamma\n")

	res := invoke(t, inv, "read_file", map[string]any{"file_path": "notes.txt"})
	require.True(t, res.OK())
	assert.Equal(t, "1: alpha\n2: beta\n3: gamma", res.Content)
}

func TestReadFile_NoTrailingNewline(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "notes.txt", "alpha\nbeta")

	res := invoke(t, inv, "read_file", map[string]any{"file_path": "notes.txt"})
	require.True(t, res.OK())
	assert.Equal(t, "1: alpha\n2: beta", res.Content)
}

func TestReadFile_Missing(t *testing.T) {
	inv, _ := newTestInvoker(t)

	res := invoke(t, inv, "read_file", map[string]any{"file_path": "nope.txt"})
	require.False(t, res.OK())
	assert.Equal(t, KindNotFound, res.Failure.Kind)
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	inv, _ := newTestInvoker(t)

	res := invoke(t, inv, "write_file", map[string]any{
		"file_path": "dir/new.txt",
		"content":   "one\ntwo\nthree\n",
	})
	require.True(t, res.OK())

	read := invoke(t, inv, "read_file", map[string]any{"file_path": "dir/new.txt"})
	require.True(t, read.OK())
	assert.Equal(t, "1: one\n2: two\n3: three", read.Content)
}

func TestWriteFile_RefusesClobberWithoutOverwrite(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "keep.txt", "original\n")

	res := invoke(t, inv, "write_file", map[string]any{
		"file_path": "keep.txt",
		"content":   "replacement\n",
	})
	require.False(t, res.OK())
	assert.Equal(t, KindAlreadyExists, res.Failure.Kind)

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))
}

func TestWriteFile_OverwriteFlag(t *testing.T) {
	inv, box := newTestInvoker(t)
	abs := writeTestFile(t, box, "keep.txt", "original\n")

	res := invoke(t, inv, "write_file", map[string]any{
		"file_path": "keep.txt",
		"content":   "replacement\n",
		"overwrite": true,
	})
	require.True(t, res.OK())

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "replacement\n", string(data))
}

func TestWriteFile_CreatesParentDirectories(t *testing.T) {
	inv, box := newTestInvoker(t)

	res := invoke(t, inv, "write_file", map[string]any{
		"file_path": "a/b/c/deep.txt",
		"content":   "deep",
	})
	require.True(t, res.OK())

	_, err := os.Stat(filepath.Join(box.Root(), "a", "b", "c", "deep.txt"))
	require.NoError(t, err)
}

func TestCreateDirectory(t *testing.T) {
	inv, box := newTestInvoker(t)

	res := invoke(t, inv, "create_directory", map[string]any{"directory_path": "pkg/util"})
	require.True(t, res.OK())

	info, err := os.Stat(filepath.Join(box.Root(), "pkg", "util"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	again := invoke(t, inv, "create_directory", map[string]any{"directory_path": "pkg/util"})
	require.False(t, again.OK())
	assert.Equal(t, KindAlreadyExists, again.Failure.Kind)
}

func TestFileExists(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "here.txt", "x")

	res := invoke(t, inv, "file_exists", map[string]any{"file_path": "here.txt"})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "exists")

	res = invoke(t, inv, "file_exists", map[string]any{"file_path": "gone.txt"})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "does not exist")
}

func TestListFiles_NonRecursiveMarksDirectories(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "top.txt", "x")
	writeTestFile(t, box, "sub/inner.txt", "y")
	writeTestFile(t, box, ".hidden", "z")

	res := invoke(t, inv, "list_files", map[string]any{})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "top.txt")
	assert.Contains(t, res.Content, "sub/")
	assert.NotContains(t, res.Content, "inner.txt")
	assert.NotContains(t, res.Content, ".hidden")
}

func TestListFiles_Recursive(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "top.txt", "x")
	writeTestFile(t, box, "sub/inner.txt", "y")
	writeTestFile(t, box, ".git/config", "z")

	res := invoke(t, inv, "list_files", map[string]any{"recursive": true})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, "top.txt")
	assert.Contains(t, res.Content, filepath.Join("sub", "inner.txt"))
	assert.NotContains(t, res.Content, ".git")
}

func TestListFiles_Subpath(t *testing.T) {
	inv, box := newTestInvoker(t)
	writeTestFile(t, box, "top.txt", "x")
	writeTestFile(t, box, "sub/inner.txt", "y")

	res := invoke(t, inv, "list_files", map[string]any{"path": "sub"})
	require.True(t, res.OK())
	assert.Contains(t, res.Content, filepath.Join("sub", "inner.txt"))
	assert.NotContains(t, res.Content, "top.txt")
}
