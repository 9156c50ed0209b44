package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Pipeline *pipeline.Pipeline
	Runs     trialsum.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose    bool          `short:"v" help:"Log fetch attempts and pipeline steps to stderr"`
	Timeout    time.Duration `short:"t" default:"40s" help:"Timeout per fetch strategy"`
	Strategies []string      `short:"s" default:"http,headless,browser" help:"Fetch strategies to try, in order"`
	UseAI      bool          `name:"use-ai" help:"Request AI-assisted extraction (requires an API key)"`
	APIKey     string        `name:"api-key" env:"TRIALSUM_API_KEY" help:"API key for AI-assisted extraction"`
	DB         string        `name:"db" env:"TRIALSUM_DB" help:"Run history database path (default ~/.trialsum/trialsum.db)"`

	Extract ExtractCmd `cmd:"" help:"Extract the structured summary of one article"`
	Batch   BatchCmd   `cmd:"" help:"Extract summaries for a file of article URLs"`
	Show    ShowCmd    `cmd:"" help:"Print the last stored result for an article"`
	Runs    RunsCmd    `cmd:"" help:"List stored runs"`
}

// Config returns the per-run configuration selected by the flags.
func (c *CLI) Config() trialsum.Config {
	return trialsum.Config{
		Verbose:            c.Verbose,
		PerStrategyTimeout: c.Timeout,
		UseAIExtraction:    c.UseAI,
		APIKey:             c.APIKey,
	}
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Article URL"`
	Out string `short:"o" help:"Write the result JSON to this file instead of stdout"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File        string  `arg:"" help:"File with one article URL per line ('-' for stdin)"`
	OutDir      string  `name:"out-dir" default:"." help:"Parent directory of the results directory"`
	Name        string  `default:"results" help:"Name of the results directory"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent article limit"`
	Rate        float64 `default:"0.5" help:"Requests per second per journal host (0 disables)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL string `arg:"" help:"Article URL"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	URL   string `arg:"" optional:"" help:"Only list runs for this article URL"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to list"`
}
