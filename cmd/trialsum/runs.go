package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/trialsum"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := trialsum.RunFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", trialsum.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'trialsum extract' to create one.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSTRATEGY\tFINDINGS\tCHARTS\tURL")
	for _, r := range runs {
		var findings, charts int
		if r.Result != nil {
			charts = len(r.Result.Charts)
			if r.Result.Record != nil {
				findings = len(r.Result.Record.Findings)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Strategy, findings, charts, r.SourceURL)
	}
	return tw.Flush()
}
