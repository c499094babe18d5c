// Package agent contains the approval gate and the control loop that drives
// a file-maintenance session: plan, approve, act, account for spend.
package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sullytools/editguru/internal/models"
	"github.com/sullytools/editguru/internal/tools"
)

// CallStatus is the lifecycle of one requested tool call.
type CallStatus string

const (
	CallPending  CallStatus = "pending"
	CallApproved CallStatus = "approved"
	CallExecuted CallStatus = "executed"
)

// ToolCall is a requested tool invocation tracked by the gate. CallID is the
// backend's correlation id; ID is ours, shown to the operator when approving
// individual calls.
type ToolCall struct {
	ID        string
	CallID    string
	Name      string
	Arguments string
	Reason    string
	Status    CallStatus
	Result    *tools.Result
}

// Gate queues requested tool calls and tracks their approval state. Safe
// (read-only) tools are approved on enqueue; mutating tools stay pending
// until the operator signs off, unless blanket pre-approval is on.
type Gate struct {
	preApproved bool
	calls       []*ToolCall
}

func NewGate(preApproved bool) *Gate {
	return &Gate{preApproved: preApproved}
}

// Enqueue registers a requested call and returns its tracking entry.
func (g *Gate) Enqueue(item models.ConversationItem) *ToolCall {
	call := &ToolCall{
		ID:        uuid.NewString(),
		CallID:    item.CallID,
		Name:      item.Name,
		Arguments: item.Arguments,
		Reason:    item.Reason,
		Status:    CallPending,
	}
	if g.preApproved || tools.IsSafe(item.Name) {
		call.Status = CallApproved
	}
	g.calls = append(g.calls, call)
	return call
}

// Pending returns unexecuted calls still awaiting approval, in request order.
func (g *Gate) Pending() []*ToolCall {
	var pending []*ToolCall
	for _, call := range g.calls {
		if call.Status == CallPending {
			pending = append(pending, call)
		}
	}
	return pending
}

// Runnable returns approved calls that have not executed yet, in request
// order. Execution order follows request order so later calls observe the
// effects of earlier ones.
func (g *Gate) Runnable() []*ToolCall {
	var runnable []*ToolCall
	for _, call := range g.calls {
		if call.Status == CallApproved {
			runnable = append(runnable, call)
		}
	}
	return runnable
}

// Approve marks a single pending call approved.
func (g *Gate) Approve(id string) error {
	for _, call := range g.calls {
		if call.ID != id {
			continue
		}
		if call.Status != CallPending {
			return fmt.Errorf("tool call %s is %s, not pending", id, call.Status)
		}
		call.Status = CallApproved
		return nil
	}
	return fmt.Errorf("no pending tool call with id %s", id)
}

// ApproveAll approves every pending call.
func (g *Gate) ApproveAll() {
	for _, call := range g.calls {
		if call.Status == CallPending {
			call.Status = CallApproved
		}
	}
}

// Discard drops a pending call from the queue without executing it.
func (g *Gate) Discard(id string) *ToolCall {
	for i, call := range g.calls {
		if call.ID == id && call.Status == CallPending {
			g.calls = append(g.calls[:i], g.calls[i+1:]...)
			return call
		}
	}
	return nil
}

// MarkExecuted records the result of a finished call. Executed calls are
// never re-entered.
func (g *Gate) MarkExecuted(call *ToolCall, result tools.Result) {
	call.Status = CallExecuted
	call.Result = &result
}
