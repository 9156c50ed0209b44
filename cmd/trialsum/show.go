package main

import (
	"fmt"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindLatestRun(deps.Ctx, c.URL)
	if trialsum.ErrorCode(err) == trialsum.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: no stored result for %s. Use 'trialsum extract %s' first.\n", c.URL, c.URL)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", trialsum.ErrorMessage(err))
		return err
	}

	data, err := fs.MarshalResult(run.Result)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(data)
	return err
}
