package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/trialsum/fs"
	"github.com/fwojciec/trialsum/pipeline"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls, err := c.readURLs()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No URLs to process")
		return nil
	}

	deps.Pipeline.Concurrency = c.Concurrency
	deps.Pipeline.Limiter = pipeline.NewDomainLimiter(c.Rate)

	store := fs.NewFileStore(c.OutDir, c.Name)
	var saveErr error
	progress := func(e pipeline.ProgressEvent) {
		o := e.Outcome
		switch {
		case o.Skipped:
			fmt.Fprintf(deps.Stderr, "skip %s: duplicate\n", o.URL)
		case o.Err != nil:
			fmt.Fprintf(deps.Stderr, "fail %s\n", o.URL)
			printFailure(deps.Stderr, o.Err)
		default:
			if err := store.Save(o.URL, o.Result); err != nil && saveErr == nil {
				saveErr = fmt.Errorf("save %s: %w", o.URL, err)
			}
		}
		fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", e.Completed, e.Total, truncateURL(o.URL, 60))
	}

	outcomes := deps.Pipeline.RunAll(deps.Ctx, urls, progress)

	if saveErr != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %v\n", saveErr)
		return saveErr
	}
	if err := deps.Ctx.Err(); err != nil {
		_ = store.Abort()
		return err
	}

	var saved, failed, skipped int
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			skipped++
		case o.Err != nil:
			failed++
		default:
			saved++
		}
	}

	if saved > 0 {
		if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
			return err
		}
	} else {
		_ = store.Abort()
	}

	fmt.Fprintf(deps.Stdout, "Saved %d, failed %d, skipped %d\n", saved, failed, skipped)
	if saved == 0 && failed > 0 {
		return fmt.Errorf("all %d articles failed", failed)
	}
	return nil
}

// readURLs reads one URL per line, ignoring blank lines and # comments.
func (c *BatchCmd) readURLs() ([]string, error) {
	var r io.Reader
	if c.File == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return parseURLList(r)
}

func parseURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
