package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sullytools/editguru/internal/models"
	"github.com/sullytools/editguru/internal/tools"
)

func callItem(name, args string) models.ConversationItem {
	return models.ConversationItem{
		Type:      models.ItemTypeFunctionCall,
		CallID:    "call_" + name,
		Name:      name,
		Arguments: args,
	}
}

func TestGate_SafeToolsAutoApproved(t *testing.T) {
	g := NewGate(false)

	read := g.Enqueue(callItem("read_file", `{"file_path":"a.txt"}`))
	search := g.Enqueue(callItem("search_files", `{"search_text":"x"}`))

	assert.Equal(t, CallApproved, read.Status)
	assert.Equal(t, CallApproved, search.Status)
	assert.Empty(t, g.Pending())
	assert.Len(t, g.Runnable(), 2)
}

func TestGate_UnsafeToolsStayPending(t *testing.T) {
	g := NewGate(false)

	del := g.Enqueue(callItem("delete_file", `{"file_path":"a.txt"}`))

	assert.Equal(t, CallPending, del.Status)
	require.Len(t, g.Pending(), 1)
	assert.Empty(t, g.Runnable(), "pending calls must not be runnable")
}

func TestGate_PreApprovalSkipsGating(t *testing.T) {
	g := NewGate(true)

	del := g.Enqueue(callItem("delete_file", `{"file_path":"a.txt"}`))

	assert.Equal(t, CallApproved, del.Status)
	assert.Empty(t, g.Pending())
}

func TestGate_ApproveSingle(t *testing.T) {
	g := NewGate(false)
	del := g.Enqueue(callItem("delete_file", `{"file_path":"a.txt"}`))
	move := g.Enqueue(callItem("move_file", `{"file_path":"a.txt","new_path":"b.txt"}`))

	require.NoError(t, g.Approve(del.ID))

	assert.Equal(t, CallApproved, del.Status)
	assert.Equal(t, CallPending, move.Status)
	require.Len(t, g.Runnable(), 1)
	assert.Equal(t, "delete_file", g.Runnable()[0].Name)
}

func TestGate_ApproveUnknownID(t *testing.T) {
	g := NewGate(false)
	g.Enqueue(callItem("delete_file", `{}`))

	assert.Error(t, g.Approve("nope"))
}

func TestGate_ApproveAll(t *testing.T) {
	g := NewGate(false)
	g.Enqueue(callItem("delete_file", `{}`))
	g.Enqueue(callItem("write_file", `{}`))

	g.ApproveAll()

	assert.Empty(t, g.Pending())
	assert.Len(t, g.Runnable(), 2)
}

func TestGate_ExecutedCallsNeverReentered(t *testing.T) {
	g := NewGate(false)
	read := g.Enqueue(callItem("read_file", `{"file_path":"a.txt"}`))

	g.MarkExecuted(read, tools.Result{Content: "1: hi"})

	assert.Equal(t, CallExecuted, read.Status)
	assert.Empty(t, g.Runnable())
	assert.Error(t, g.Approve(read.ID))
}

func TestGate_RunnableKeepsRequestOrder(t *testing.T) {
	g := NewGate(true)
	g.Enqueue(callItem("write_file", `{}`))
	g.Enqueue(callItem("edit_file", `{}`))
	g.Enqueue(callItem("delete_file", `{}`))

	runnable := g.Runnable()
	require.Len(t, runnable, 3)
	assert.Equal(t, "write_file", runnable[0].Name)
	assert.Equal(t, "edit_file", runnable[1].Name)
	assert.Equal(t, "delete_file", runnable[2].Name)
}

func TestGate_DiscardRemovesPending(t *testing.T) {
	g := NewGate(false)
	del := g.Enqueue(callItem("delete_file", `{}`))

	discarded := g.Discard(del.ID)

	require.NotNil(t, discarded)
	assert.Empty(t, g.Pending())
	assert.Empty(t, g.Runnable())
}
