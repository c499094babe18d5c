// editguru performs file-maintenance tasks against a repository under the
// supervision of an operator who approves the plan, gates mutating tool
// calls, and controls spend.
//
// Usage:
//
//	editguru "combine the two changelog files"          Plan, confirm, run
//	editguru -f "rename *.markdown to *.md"             Pre-approve everything
//	editguru --max-cost 0.25 --model gpt-4o "..."       Raise the ceiling
//	editguru --usage                                    Print accumulated usage
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sullytools/editguru/internal/agent"
	"github.com/sullytools/editguru/internal/budget"
	"github.com/sullytools/editguru/internal/cli"
	"github.com/sullytools/editguru/internal/llm"
	"github.com/sullytools/editguru/internal/sandbox"
	"github.com/sullytools/editguru/internal/tools"
)

func main() {
	os.Exit(run())
}

func run() int {
	approve := flag.Bool("approve", false, "Pre-approve the generated plan and automatically execute")
	approveTools := flag.Bool("approve-tools", false, "Pre-approve all tool usage")
	f := flag.Bool("f", false, "Shortcut for --approve and --approve-tools")
	model := flag.String("model", "gpt-4o-mini", "Completion model")
	planModel := flag.String("plan-model", "", "Separate model for the planning phase (default: same as --model)")
	maxCost := flag.Float64("max-cost", 0.05, "Maximum session cost in dollars")
	useCwd := flag.Bool("use-cwd", false, "Operate on the current directory instead of requiring a git repository")
	skipPlan := flag.Bool("skip-plan", false, "Skip the planning phase and start executing immediately")
	listFiles := flag.Bool("list-files", false, "Include a recursive file listing in the planning prompt")
	usage := flag.Bool("usage", false, "Print accumulated usage and exit")
	noMarkdown := flag.Bool("no-markdown", false, "Disable markdown rendering")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if *usage {
		return printUsage()
	}

	task := flag.Arg(0)
	if task == "" {
		fmt.Fprintln(os.Stderr, "usage: editguru [flags] \"task description\"")
		flag.PrintDefaults()
		return 2
	}
	if *f {
		*approve = true
		*approveTools = true
	}

	client, err := llm.NewClient(*model)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	planClient := client
	if *planModel != "" {
		if planClient, err = llm.NewClient(*planModel); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	root, err := sandbox.ResolveRepoRoot(*useCwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	box, err := sandbox.New(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var store *budget.Store
	if path, perr := budget.DefaultStorePath(); perr == nil {
		if store, err = budget.OpenStore(path); err != nil {
			log.Warn("usage journal unavailable", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	renderer := cli.NewRenderer(os.Stdout, *noColor, *noMarkdown)
	prompter, err := cli.NewTerminalPrompter(renderer)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer prompter.Close()

	spinner := cli.NewSpinner(os.Stderr)
	spin := func(c llm.Client, msg string) llm.Client {
		return &cli.SpinnerClient{Client: c, Spinner: spinner, Message: msg}
	}

	cfg := agent.Config{
		Task:         task,
		Model:        *model,
		PlanModel:    *planModel,
		ApprovePlan:  *approve,
		ApproveTools: *approveTools,
		SkipPlan:     *skipPlan,
		ListFiles:    *listFiles,
	}
	if !*skipPlan {
		fmt.Println("Generating a plan to accomplish this task...")
	}

	session := agent.NewSession(cfg,
		spin(client, "AI is processing..."),
		spin(planClient, "Planning..."),
		tools.NewInvoker(box, log),
		budget.NewGuard(*maxCost),
		prompter, store, log)
	if err := session.Run(context.Background()); err != nil {
		return 1
	}
	return 0
}

// printUsage dumps the persistent usage journal, one line per model.
func printUsage() int {
	path, err := budget.DefaultStorePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	store, err := budget.OpenStore(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer store.Close()

	summary, err := store.Summary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(summary) == 0 {
		fmt.Println("No usage recorded.")
		return 0
	}

	var totalCount int
	var totalCost float64
	fmt.Printf("%-24s %8s %12s %12s %10s\n", "MODEL", "COUNT", "TOKENS IN", "TOKENS OUT", "COST")
	for _, row := range summary {
		fmt.Printf("%-24s %8d %12d %12d %9.4f\n", row.Model, row.Count, row.TokensIn, row.TokensOut, row.Cost)
		totalCount += row.Count
		totalCost += row.Cost
	}
	fmt.Printf("%-24s %8d %12s %12s %9.4f\n", "total", totalCount, "", "", totalCost)
	return 0
}
