package main

import (
	"fmt"

	"github.com/fwojciec/trialsum/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	result, err := deps.Pipeline.Run(deps.Ctx, c.URL)
	if err != nil {
		printFailure(deps.Stderr, err)
		return err
	}

	for _, kind := range result.Record.Missing() {
		fmt.Fprintf(deps.Stderr, "warning: no %s section found\n", kind)
	}

	if c.Out != "" {
		if err := fs.WriteResult(c.Out, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", c.Out, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s (%s, %d findings, %d charts)\n",
			c.Out, result.Fetch.Strategy, len(result.Record.Findings), len(result.Charts))
		return nil
	}

	data, err := fs.MarshalResult(result)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(data)
	return err
}
