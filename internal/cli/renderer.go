// Package cli is the operator terminal surface: rendering, the spinner, and
// the prompts the control loop suspends on.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sullytools/editguru/internal/agent"
)

// Renderer writes conversation output to the terminal. Markdown goes through
// glamour unless noMarkdown is set; styling is dropped entirely under
// noColor so output stays pipe-friendly.
type Renderer struct {
	w          io.Writer
	noColor    bool
	noMarkdown bool
	md         *glamour.TermRenderer

	toolStyle   lipgloss.Style
	failStyle   lipgloss.Style
	noticeStyle lipgloss.Style
}

func NewRenderer(w io.Writer, noColor, noMarkdown bool) *Renderer {
	r := &Renderer{w: w, noColor: noColor, noMarkdown: noMarkdown}
	if !noMarkdown {
		style := glamour.WithAutoStyle()
		if noColor {
			style = glamour.WithStandardStyle("notty")
		}
		if md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100)); err == nil {
			r.md = md
		}
	}
	if !noColor {
		r.toolStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
		r.failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		r.noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	}
	return r
}

// Markdown renders assistant text. Falls back to plain output when glamour
// is disabled or fails.
func (r *Renderer) Markdown(text string) {
	if r.md != nil {
		if out, err := r.md.Render(text); err == nil {
			fmt.Fprint(r.w, out)
			return
		}
	}
	fmt.Fprintln(r.w, text)
}

// Rule prints a horizontal separator after rendered markdown.
func (r *Renderer) Rule() {
	fmt.Fprintln(r.w, strings.Repeat("-", 40))
}

// ToolCall prints a one-line description of a requested call.
func (r *Renderer) ToolCall(index int, call *agent.ToolCall) {
	line := fmt.Sprintf("  [%d] %s", index, callTitle(call.Name, call.Arguments))
	if call.Reason != "" {
		line += " (" + call.Reason + ")"
	}
	fmt.Fprintln(r.w, r.toolStyle.Render(line))
}

// ToolResult prints the outcome of an executed call.
func (r *Renderer) ToolResult(call *agent.ToolCall) {
	title := callTitle(call.Name, call.Arguments)
	if call.Result != nil && !call.Result.OK() {
		fmt.Fprintln(r.w, r.failStyle.Render("  ✗ "+title+": "+call.Result.Message()))
		return
	}
	fmt.Fprintln(r.w, r.toolStyle.Render("  ✓ "+title))
}

// Notice prints an operator-facing status line.
func (r *Renderer) Notice(text string) {
	fmt.Fprintln(r.w, r.noticeStyle.Render(text))
}

// Stats prints the end-of-session summary.
func (r *Renderer) Stats(completions int, totalCost float64) {
	fmt.Fprintf(r.w, "Completions Made: %d\n", completions)
	fmt.Fprintf(r.w, "Completions Cost: $%.4f\n", totalCost)
}

// callTitle builds a short human-readable title for a tool call from its
// JSON arguments, falling back to the raw payload when parsing fails.
func callTitle(toolName, arguments string) string {
	var args map[string]interface{}
	if json.Unmarshal([]byte(arguments), &args) == nil {
		switch toolName {
		case "read_file":
			if path := stringArg(args, "file_path"); path != "" {
				return "Read: " + path
			}
		case "write_file":
			if path := stringArg(args, "file_path"); path != "" {
				return "Write file: " + path
			}
		case "edit_file":
			if path := stringArg(args, "file_path"); path != "" {
				return fmt.Sprintf("Edit: %s lines %v-%v", path, args["start_line"], args["end_line"])
			}
		case "add_to_file":
			if path := stringArg(args, "file_path"); path != "" {
				return "Add to: " + path
			}
		case "delete_file":
			if path := stringArg(args, "file_path"); path != "" {
				return "Delete: " + path
			}
		case "move_file":
			src := stringArg(args, "file_path")
			dst := stringArg(args, "new_path")
			if src != "" && dst != "" {
				verb := "Move"
				if b, ok := args["copy_file"].(bool); ok && b {
					verb = "Copy"
				}
				return fmt.Sprintf("%s: %s -> %s", verb, src, dst)
			}
		case "replace_text":
			if search := stringArg(args, "search_text"); search != "" {
				return "Replace: " + search
			}
		case "search_files":
			if search := stringArg(args, "search_text"); search != "" {
				return "Search: " + search
			}
		case "list_files":
			return "List files"
		case "file_exists":
			if path := stringArg(args, "file_path"); path != "" {
				return "Exists: " + path
			}
		case "create_directory":
			if path := stringArg(args, "directory_path"); path != "" {
				return "Create directory: " + path
			}
		}
	}
	display := arguments
	if len(display) > 300 {
		display = display[:300] + "..."
	}
	return toolName + ": " + display
}

// stringArg returns the first non-empty string value found among the keys.
func stringArg(args map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := args[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
