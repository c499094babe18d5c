// Package budget tracks completion spend for a session and enforces the
// operator's cost ceiling, with a persistent usage journal backing the
// accumulated-usage report.
package budget

import "sort"

// Guard accumulates spend across completion calls and answers whether the
// session may make another one. Spend is monotonically non-decreasing; only
// Extend raises the ceiling. Single-session, no locking by design.
type Guard struct {
	limit    float64
	spent    float64
	lastCost float64
	byModel  map[string]int
}

// NewGuard creates a guard with the given dollar ceiling.
func NewGuard(limit float64) *Guard {
	return &Guard{limit: limit, byModel: make(map[string]int)}
}

// Record adds the cost of one finished completion to the ledger.
func (g *Guard) Record(model string, cost float64) {
	g.spent += cost
	g.lastCost = cost
	g.byModel[model]++
}

// TotalSpent returns the accumulated cost of all completions that ran.
func (g *Guard) TotalSpent() float64 {
	return g.spent
}

// Limit returns the current ceiling.
func (g *Guard) Limit() float64 {
	return g.limit
}

// Completions returns the total number of completions recorded.
func (g *Guard) Completions() int {
	n := 0
	for _, c := range g.byModel {
		n += c
	}
	return n
}

// CompletionsByModel returns (model, count) pairs in model-name order.
func (g *Guard) CompletionsByModel() []ModelCount {
	models := make([]string, 0, len(g.byModel))
	for m := range g.byModel {
		models = append(models, m)
	}
	sort.Strings(models)

	counts := make([]ModelCount, len(models))
	for i, m := range models {
		counts[i] = ModelCount{Model: m, Count: g.byModel[m]}
	}
	return counts
}

// ModelCount is one row of the per-model completion tally.
type ModelCount struct {
	Model string
	Count int
}

// WithinLimit reports whether another completion may be made. Beyond the
// plain ceiling check it reserves headroom equal to the previous
// completion's cost, so a call that would likely push the session past the
// ceiling is stopped before it runs rather than after it has been paid for.
func (g *Guard) WithinLimit() bool {
	if g.spent >= g.limit {
		return false
	}
	return g.spent+g.lastCost <= g.limit
}

// Extend raises the ceiling by a positive amount. Non-positive amounts are
// ignored.
func (g *Guard) Extend(amount float64) {
	if amount > 0 {
		g.limit += amount
	}
}
