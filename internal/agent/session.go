package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sullytools/editguru/internal/budget"
	"github.com/sullytools/editguru/internal/llm"
	"github.com/sullytools/editguru/internal/models"
	"github.com/sullytools/editguru/internal/tools"
)

// Phase is the control loop's state variable.
type Phase string

const (
	PhasePlanning               Phase = "planning"
	PhaseAwaitingPlanApproval   Phase = "awaiting_plan_approval"
	PhaseActing                 Phase = "acting"
	PhaseAwaitingToolApproval   Phase = "awaiting_tool_approval"
	PhaseAwaitingBudgetDecision Phase = "awaiting_budget_decision"
	PhaseAwaitingUserFollowup   Phase = "awaiting_user_followup"
	PhaseDone                   Phase = "done"
)

// ToolDecision is the operator's answer to a batch of pending tool calls.
// ApproveAll wins over the id list; ids absent from ApprovedIDs are denied.
type ToolDecision struct {
	ApproveAll  bool
	ApprovedIDs []string
}

// Prompter is the operator-facing surface the loop suspends on. The CLI
// implements it with a real terminal; tests script it.
type Prompter interface {
	// ApprovePlan shows the plan and asks whether to proceed.
	ApprovePlan(plan string) (bool, error)
	// ApproveTools shows pending mutating calls and collects a decision.
	ApproveTools(pending []*ToolCall) (ToolDecision, error)
	// ExtendBudget reports the exhausted ceiling and asks for an extension
	// amount in dollars. Zero or negative declines.
	ExtendBudget(spent, limit float64) (float64, error)
	// Followup collects the next operator message. Empty ends the session.
	Followup() (string, error)
	// AssistantMessage displays a final assistant message.
	AssistantMessage(text string)
	// ToolExecuted reports one executed call and its outcome.
	ToolExecuted(call *ToolCall)
	// Notice displays an operator-facing status line.
	Notice(text string)
	// SessionStats reports final statistics. Called exactly once.
	SessionStats(completions int, totalCost float64)
}

// Config carries the per-session knobs. Constructed once in main and passed
// down; nothing here is global.
type Config struct {
	Task         string
	Model        string
	PlanModel    string
	ApprovePlan  bool
	ApproveTools bool
	SkipPlan     bool
	ListFiles    bool
}

// Session drives one file-maintenance conversation through the phase
// machine. Single-threaded and cooperative: the only suspension points are
// operator prompts and completion calls.
type Session struct {
	cfg        Config
	client     llm.Client
	planClient llm.Client
	invoker    *tools.Invoker
	guard      *budget.Guard
	gate       *Gate
	prompter   Prompter
	store      *budget.Store
	log        *slog.Logger

	phase         Phase
	history       []models.ConversationItem
	plan          string
	statsReported bool
}

// NewSession wires a session. planClient may equal client; store may be nil
// to skip the persistent usage journal.
func NewSession(cfg Config, client, planClient llm.Client, invoker *tools.Invoker, guard *budget.Guard, prompter Prompter, store *budget.Store, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	if planClient == nil {
		planClient = client
	}
	return &Session{
		cfg:        cfg,
		client:     client,
		planClient: planClient,
		invoker:    invoker,
		guard:      guard,
		gate:       NewGate(cfg.ApproveTools),
		prompter:   prompter,
		store:      store,
		log:        log,
		phase:      PhasePlanning,
	}
}

// Phase exposes the current phase, mainly for tests.
func (s *Session) Phase() Phase { return s.phase }

// Run drives the machine until Done. The returned error is nil for every
// normal stop, including budget exhaustion and a declined plan; it is
// non-nil only when the completion backend is unavailable.
func (s *Session) Run(ctx context.Context) error {
	if s.cfg.SkipPlan {
		s.history = append(s.history, models.ConversationItem{
			Type:    models.ItemTypeUserMessage,
			Content: s.cfg.Task,
		})
		s.phase = PhaseActing
	}

	for s.phase != PhaseDone {
		var err error
		switch s.phase {
		case PhasePlanning:
			err = s.stepPlanning(ctx)
		case PhaseAwaitingPlanApproval:
			err = s.stepPlanApproval()
		case PhaseActing:
			err = s.stepActing(ctx)
		case PhaseAwaitingToolApproval:
			err = s.stepToolApproval(ctx)
		case PhaseAwaitingBudgetDecision:
			err = s.stepBudgetDecision()
		case PhaseAwaitingUserFollowup:
			err = s.stepFollowup()
		default:
			err = fmt.Errorf("unknown phase %q", s.phase)
		}
		if err != nil {
			s.finish()
			return err
		}
	}
	s.finish()
	return nil
}

// finish reports final statistics exactly once on entry to Done.
func (s *Session) finish() {
	s.phase = PhaseDone
	if s.statsReported {
		return
	}
	s.statsReported = true
	s.prompter.SessionStats(s.guard.Completions(), s.guard.TotalSpent())
}

// complete performs one budget-accounted call against the backend. The
// caller must have checked WithinLimit first.
func (s *Session) complete(ctx context.Context, client llm.Client, model string, toolSpecs []tools.Spec, instructions string) (llm.Response, error) {
	resp, err := client.Complete(ctx, llm.Request{
		ModelConfig:  models.ModelConfig{Model: model},
		Instructions: instructions,
		History:      s.history,
		Tools:        toolSpecs,
	})
	if err != nil {
		s.prompter.Notice(fmt.Sprintf("Completion backend unavailable: %v", err))
		return llm.Response{}, err
	}
	s.guard.Record(model, resp.Cost)
	if s.store != nil {
		if serr := s.store.RecordCompletion(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Cost); serr != nil {
			s.log.Warn("usage journal write failed", "error", serr)
		}
	}
	s.log.Debug("completion",
		"model", model,
		"cost", resp.Cost,
		"tokens_in", resp.Usage.PromptTokens,
		"tokens_out", resp.Usage.CompletionTokens)
	return resp, nil
}

func (s *Session) stepPlanning(ctx context.Context) error {
	if !s.guard.WithinLimit() {
		s.phase = PhaseAwaitingBudgetDecision
		return nil
	}

	listing := ""
	if s.cfg.ListFiles {
		result := s.invoker.InvokeJSON(ctx, "list_files", `{"recursive":true}`)
		if result.OK() {
			listing = result.Content
		}
	}

	s.history = append(s.history, models.ConversationItem{
		Type:    models.ItemTypeUserMessage,
		Content: planPrompt(s.cfg.Task, listing),
	})

	model := s.cfg.PlanModel
	if model == "" {
		model = s.cfg.Model
	}
	// Tool calling stays off: the planner describes, it does not act.
	resp, err := s.complete(ctx, s.planClient, model, nil, systemPrompt)
	if err != nil {
		return err
	}
	s.history = append(s.history, resp.Items...)
	s.plan = lastAssistantText(resp.Items)
	s.phase = PhaseAwaitingPlanApproval
	return nil
}

func (s *Session) stepPlanApproval() error {
	approved := s.cfg.ApprovePlan
	if !approved {
		var err error
		approved, err = s.prompter.ApprovePlan(s.plan)
		if err != nil {
			return err
		}
	}
	if !approved {
		s.prompter.Notice("Plan declined; nothing was changed.")
		s.phase = PhaseDone
		return nil
	}

	// The acting conversation starts fresh from the task and the approved
	// plan; the planning exchange is not replayed.
	s.history = []models.ConversationItem{{
		Type:    models.ItemTypeUserMessage,
		Content: actPrompt(s.cfg.Task, s.plan),
	}}
	s.phase = PhaseActing
	return nil
}

func (s *Session) stepActing(ctx context.Context) error {
	// Approved calls left over from the approval step run first so their
	// outputs are in the history before the next completion.
	if err := s.runApprovedCalls(ctx); err != nil {
		return err
	}

	if !s.guard.WithinLimit() {
		s.phase = PhaseAwaitingBudgetDecision
		return nil
	}

	resp, err := s.complete(ctx, s.client, s.cfg.Model, tools.Specs(), actingInstructions())
	if err != nil {
		return err
	}
	s.history = append(s.history, resp.Items...)

	calls := models.ExtractFunctionCalls(resp.Items)
	if len(calls) == 0 {
		s.prompter.AssistantMessage(lastAssistantText(resp.Items))
		s.phase = PhaseAwaitingUserFollowup
		return nil
	}

	for _, call := range calls {
		s.gate.Enqueue(call)
	}
	if len(s.gate.Pending()) > 0 {
		s.phase = PhaseAwaitingToolApproval
		return nil
	}
	return s.runApprovedCalls(ctx)
}

func (s *Session) stepToolApproval(ctx context.Context) error {
	pending := s.gate.Pending()
	decision, err := s.prompter.ApproveTools(pending)
	if err != nil {
		return err
	}

	if decision.ApproveAll {
		s.gate.ApproveAll()
	} else {
		approvedSet := make(map[string]bool, len(decision.ApprovedIDs))
		for _, id := range decision.ApprovedIDs {
			if aerr := s.gate.Approve(id); aerr == nil {
				approvedSet[id] = true
			}
		}
		// Denied calls get an explicit refusal in the history so the model
		// does not wait for a result that will never come.
		for _, call := range pending {
			if approvedSet[call.ID] {
				continue
			}
			s.gate.Discard(call.ID)
			denied := false
			s.history = append(s.history, models.ConversationItem{
				Type:   models.ItemTypeFunctionCallOutput,
				CallID: call.CallID,
				Output: &models.FunctionCallOutputPayload{
					Content: "User denied execution of this tool call.",
					Success: &denied,
				},
			})
		}
	}

	if err := s.runApprovedCalls(ctx); err != nil {
		return err
	}
	s.phase = PhaseActing
	return nil
}

func (s *Session) stepBudgetDecision() error {
	extension, err := s.prompter.ExtendBudget(s.guard.TotalSpent(), s.guard.Limit())
	if err != nil {
		return err
	}
	if extension <= 0 {
		s.prompter.Notice("Budget exhausted; stopping.")
		s.phase = PhaseDone
		return nil
	}
	s.guard.Extend(extension)
	s.phase = PhaseActing
	return nil
}

func (s *Session) stepFollowup() error {
	msg, err := s.prompter.Followup()
	if err != nil {
		return err
	}
	if msg == "" {
		s.phase = PhaseDone
		return nil
	}
	s.history = append(s.history, models.ConversationItem{
		Type:    models.ItemTypeUserMessage,
		Content: msg,
	})
	s.phase = PhaseActing
	return nil
}

// runApprovedCalls drains the approved queue strictly in request order and
// feeds each result back into the conversation. Invocation is total: a
// failed call becomes a failure payload, never an error here.
func (s *Session) runApprovedCalls(ctx context.Context) error {
	for _, call := range s.gate.Runnable() {
		result := s.invoker.InvokeJSON(ctx, call.Name, call.Arguments)
		s.gate.MarkExecuted(call, result)
		s.prompter.ToolExecuted(call)

		ok := result.OK()
		s.history = append(s.history, models.ConversationItem{
			Type:   models.ItemTypeFunctionCallOutput,
			CallID: call.CallID,
			Output: &models.FunctionCallOutputPayload{
				Content: result.Message(),
				Success: &ok,
			},
		})
	}
	return nil
}

func lastAssistantText(items []models.ConversationItem) string {
	text := ""
	for _, item := range items {
		if item.Type == models.ItemTypeAssistantMessage && item.Content != "" {
			text = item.Content
		}
	}
	return text
}
