package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentswarm/console"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/swarm"
	"github.com/hupe1980/agentswarm/termination"
	"github.com/hupe1980/agentswarm/tool"
	"github.com/hupe1980/agentswarm/tool/market"
)

var (
	cfgFile      string
	initialAgent string
	maxTurns     int
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "swarmrun [task...]",
	Short: "Run a multi-agent swarm conversation",
	Long: `swarmrun executes a task with a swarm of conversational agents that
exchange messages, invoke tools and hand control to one another until a
termination condition fires.

Without --config it runs the built-in market research roster (planner,
financial analyst, news analyst, writer). Ctrl-C raises an external stop
signal that aborts in-flight model and tool calls and ends the run cleanly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), strings.Join(args, " "))
	},
	SilenceUsage: true,
}

// Execute runs the root command. A failed run (including an aborted
// orchestration) exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to a YAML roster config")
	rootCmd.Flags().StringVar(&initialAgent, "initial", "", "Agent that takes the first turn (default: roster setting)")
	rootCmd.Flags().IntVar(&maxTurns, "max-turns", 0, "Turn limit backstop (default: roster setting)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func run(ctx context.Context, task string) error {
	// API keys may live in a local .env; absence is fine.
	_ = godotenv.Load()

	roster, err := loadRoster(cfgFile)
	if err != nil {
		return err
	}
	if initialAgent != "" {
		roster.InitialAgent = initialAgent
	}
	if maxTurns > 0 {
		roster.MaxTurns = maxTurns
	}

	llm, err := buildModel(roster)
	if err != nil {
		return err
	}

	catalog := tool.NewCatalog(market.NewStockQuoteTool(), market.NewNewsDigestTool())
	agents := buildAgents(roster, llm)

	level := logging.LogLevelWarn
	if verbose {
		level = logging.LogLevelDebug
	}

	external := termination.NewExternal()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		external.Set()
	}()

	sink := console.New()

	orchestrator, err := swarm.New(agents, func(o *swarm.Options) {
		o.Catalog = catalog
		o.Termination = termination.Or(
			external,
			termination.TextMention(roster.TerminateOn),
			termination.TurnLimit(roster.MaxTurns),
		)
		o.Sinks = []swarm.Sink{sink}
		o.Logger = logging.NewSlogLogger(level, "text", false)
	})
	if err != nil {
		return err
	}

	state, err := orchestrator.Run(ctx, task, roster.InitialAgent)
	if state != nil {
		sink.Summary(state)
	}
	if err != nil {
		var aborted *swarm.OrchestrationAbortedError
		if errors.As(err, &aborted) {
			return fmt.Errorf("run aborted: %s", aborted.Reason)
		}
		return err
	}

	return nil
}
