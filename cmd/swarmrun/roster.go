package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/model/anthropic"
	"github.com/hupe1980/agentswarm/model/openai"
	"github.com/hupe1980/agentswarm/swarm"
)

// AgentSpec is one roster entry.
type AgentSpec struct {
	Name         string   `mapstructure:"name" yaml:"name"`
	SystemPrompt string   `mapstructure:"system_prompt" yaml:"system_prompt"`
	Tools        []string `mapstructure:"tools" yaml:"tools"`
	Handoffs     []string `mapstructure:"handoffs" yaml:"handoffs"`
}

// Roster describes the swarm loaded from the config file.
type Roster struct {
	Provider     string      `mapstructure:"provider" yaml:"provider"`
	ModelName    string      `mapstructure:"model" yaml:"model"`
	InitialAgent string      `mapstructure:"initial_agent" yaml:"initial_agent"`
	TerminateOn  string      `mapstructure:"terminate_on" yaml:"terminate_on"`
	MaxTurns     int         `mapstructure:"max_turns" yaml:"max_turns"`
	Agents       []AgentSpec `mapstructure:"agents" yaml:"agents"`
}

// loadRoster reads the YAML roster via viper, falling back to the built-in
// market research roster when no config file is given.
func loadRoster(cfgFile string) (*Roster, error) {
	if cfgFile == "" {
		return defaultRoster(), nil
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read roster config: %w", err)
	}

	var roster Roster
	if err := v.Unmarshal(&roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster config: %w", err)
	}

	applyRosterDefaults(&roster)

	if len(roster.Agents) == 0 {
		return nil, fmt.Errorf("roster config declares no agents")
	}
	if roster.InitialAgent == "" {
		roster.InitialAgent = roster.Agents[0].Name
	}

	return &roster, nil
}

func applyRosterDefaults(roster *Roster) {
	if roster.Provider == "" {
		roster.Provider = "openai"
	}
	if roster.TerminateOn == "" {
		roster.TerminateOn = "TERMINATE"
	}
	if roster.MaxTurns <= 0 {
		roster.MaxTurns = 30
	}
}

// buildModel constructs the provider client shared by all roster agents.
func buildModel(roster *Roster) (model.Model, error) {
	switch roster.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if roster.ModelName != "" {
				o.Model = roster.ModelName
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(), nil
	case "mock":
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai, anthropic or mock)", roster.Provider)
	}
}

// buildAgents converts roster entries into swarm agents bound to llm.
func buildAgents(roster *Roster, llm model.Model) []*swarm.Agent {
	agents := make([]*swarm.Agent, 0, len(roster.Agents))
	for _, spec := range roster.Agents {
		spec := spec
		agents = append(agents, swarm.NewAgent(spec.Name, llm, func(o *swarm.AgentOptions) {
			if spec.SystemPrompt != "" {
				o.SystemPrompt = spec.SystemPrompt
			}
			o.Tools = spec.Tools
			o.HandoffTargets = spec.Handoffs
		}))
	}
	return agents
}

// defaultRoster is the built-in market research swarm: planner, financial
// analyst, news analyst and writer.
func defaultRoster() *Roster {
	roster := &Roster{
		InitialAgent: "planner",
		Agents: []AgentSpec{
			{
				Name: "planner",
				SystemPrompt: `You are a research planning coordinator.
Coordinate market research by delegating to specialized agents:
- financial_analyst: stock data analysis
- news_analyst: news gathering and analysis
- writer: compiling the final report
Always send your plan first, then hand off to the appropriate agent.
Hand off to only one agent at a time.
Use TERMINATE when the research is complete.`,
				Handoffs: []string{"financial_analyst", "news_analyst", "writer"},
			},
			{
				Name: "financial_analyst",
				SystemPrompt: `You are a financial analyst.
Analyze stock market data using the stock_quote tool.
Provide insights on financial metrics.
Always hand off back to the planner when your analysis is complete.`,
				Tools:    []string{"stock_quote"},
				Handoffs: []string{"planner"},
			},
			{
				Name: "news_analyst",
				SystemPrompt: `You are a news analyst.
Gather and analyze relevant news using the news_digest tool.
Summarize key market insights from the news.
Always hand off back to the planner when your analysis is complete.`,
				Tools:    []string{"news_digest"},
				Handoffs: []string{"planner"},
			},
			{
				Name: "writer",
				SystemPrompt: `You are a financial report writer.
Compile research findings into clear, concise reports.
Always hand off back to the planner when writing is complete.`,
				Handoffs: []string{"planner"},
			},
		},
	}
	applyRosterDefaults(roster)
	return roster
}
