package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sullytools/editguru/internal/agent"
)

// parseApprovalInput interprets the operator's response to a tool approval
// prompt. Returns the decision, whether "always" was requested, and whether
// the input was recognized at all.
//
// Supports:
//   - "y"/"yes" — approve all
//   - "n"/"no" — deny all
//   - "a"/"always" — approve all and stop asking for the rest of the session
//   - "1,3" — approve listed 1-based indices, deny the rest
func parseApprovalInput(line string, pending []*agent.ToolCall) (decision agent.ToolDecision, always, ok bool) {
	line = strings.ToLower(strings.TrimSpace(line))

	switch line {
	case "y", "yes":
		return agent.ToolDecision{ApproveAll: true}, false, true
	case "n", "no":
		return agent.ToolDecision{}, false, true
	case "a", "always":
		return agent.ToolDecision{ApproveAll: true}, true, true
	}

	indices := parseApprovalIndices(line, len(pending))
	if indices == nil {
		return agent.ToolDecision{}, false, false
	}

	var approved []string
	for _, idx := range indices {
		approved = append(approved, pending[idx-1].ID)
	}
	return agent.ToolDecision{ApprovedIDs: approved}, false, true
}

// parseApprovalIndices parses a comma-separated list of 1-based indices.
// Returns nil if the input is not valid.
func parseApprovalIndices(input string, maxIndex int) []int {
	parts := strings.Split(input, ",")
	var indices []int
	seen := make(map[int]bool)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 1 || idx > maxIndex {
			return nil
		}
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}

	if len(indices) == 0 {
		return nil
	}
	return indices
}

// parseExtensionInput interprets the operator's response to a budget
// extension prompt. Accepts a dollar amount with or without a leading "$";
// "n"/"no" or a blank line declines.
func parseExtensionInput(line string) (amount float64, ok bool) {
	line = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "$")))
	if line == "" || line == "n" || line == "no" {
		return 0, true
	}
	amount, err := strconv.ParseFloat(line, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// extensionPrompt is the question shown when the ceiling is hit.
func extensionPrompt(spent, limit float64) string {
	return fmt.Sprintf("Budget limit reached (spent $%.4f of $%.4f). Enter an amount to extend, or press enter to stop: ", spent, limit)
}
