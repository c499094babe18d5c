package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/sullytools/editguru/internal/agent"
)

// TerminalPrompter implements agent.Prompter against a real terminal:
// readline for input, Renderer for output.
type TerminalPrompter struct {
	rl       *readline.Instance
	renderer *Renderer

	// always is latched when the operator answers "a" to an approval
	// prompt; later batches approve without asking.
	always bool
}

func NewTerminalPrompter(renderer *Renderer) (*TerminalPrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &TerminalPrompter{rl: rl, renderer: renderer}, nil
}

func (p *TerminalPrompter) Close() error {
	return p.rl.Close()
}

// readLine reads one line, treating ^C and ^D as an empty answer.
func (p *TerminalPrompter) readLine(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	defer p.rl.SetPrompt("> ")
	line, err := p.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	return line, nil
}

func (p *TerminalPrompter) ApprovePlan(plan string) (bool, error) {
	p.renderer.Markdown(plan)
	p.renderer.Rule()
	for {
		line, err := p.readLine("Proceed with plan [Y/n]: ")
		if err != nil {
			return false, err
		}
		switch line {
		case "", "y", "Y", "yes":
			return true, nil
		case "n", "N", "no":
			return false, nil
		}
		p.renderer.Notice("Please answer y or n.")
	}
}

func (p *TerminalPrompter) ApproveTools(pending []*agent.ToolCall) (agent.ToolDecision, error) {
	if p.always {
		return agent.ToolDecision{ApproveAll: true}, nil
	}

	p.renderer.Notice("TOOL USE PENDING")
	for i, call := range pending {
		p.renderer.ToolCall(i+1, call)
	}
	for {
		line, err := p.readLine("Approve [y/n/a/indices]: ")
		if err != nil {
			return agent.ToolDecision{}, err
		}
		decision, always, ok := parseApprovalInput(line, pending)
		if !ok {
			p.renderer.Notice("Answer y, n, a, or a comma-separated list of indices.")
			continue
		}
		if always {
			p.always = true
		}
		return decision, nil
	}
}

func (p *TerminalPrompter) ExtendBudget(spent, limit float64) (float64, error) {
	for {
		line, err := p.readLine(extensionPrompt(spent, limit))
		if err != nil {
			return 0, err
		}
		amount, ok := parseExtensionInput(line)
		if !ok {
			p.renderer.Notice("Enter a positive dollar amount, or press enter to stop.")
			continue
		}
		return amount, nil
	}
}

func (p *TerminalPrompter) Followup() (string, error) {
	return p.readLine("Respond to llm (blank line to quit): ")
}

func (p *TerminalPrompter) AssistantMessage(text string) {
	if text == "" {
		return
	}
	p.renderer.Markdown(text)
}

func (p *TerminalPrompter) ToolExecuted(call *agent.ToolCall) {
	p.renderer.ToolResult(call)
}

func (p *TerminalPrompter) Notice(text string) {
	p.renderer.Notice(text)
}

func (p *TerminalPrompter) SessionStats(completions int, totalCost float64) {
	p.renderer.Stats(completions, totalCost)
}
