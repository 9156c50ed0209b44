package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/trialsum"
)

// printFailure explains a terminal pipeline error. Fetch failures list
// every attempt so the user can see which defense stopped each strategy.
func printFailure(w io.Writer, err error) {
	var fetchErr *trialsum.FetchError
	var extractErr *trialsum.ExtractionError
	switch {
	case errors.As(err, &fetchErr):
		fmt.Fprintf(w, "error: could not fetch %s (%s)\n", fetchErr.URL, fetchErr.Kind)
		printAttempts(w, fetchErr.Attempts)
	case errors.As(err, &extractErr):
		fmt.Fprintf(w, "error: no structured abstract found (%s)\n", extractErr.Detail)
	case trialsum.ErrorCode(err) == trialsum.EINTERNAL:
		fmt.Fprintf(w, "error: %v\n", err)
	default:
		fmt.Fprintf(w, "error: %s\n", trialsum.ErrorMessage(err))
	}
}

// printAttempts writes one row per fetch attempt.
func printAttempts(w io.Writer, attempts []trialsum.FetchAttempt) {
	if len(attempts) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tRESULT\tDURATION\tDETAIL")
	for _, a := range attempts {
		result := string(a.Reason)
		if a.Succeeded {
			result = "ok"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Strategy, result, a.Duration.Round(time.Millisecond), a.Detail)
	}
	_ = tw.Flush()
}

// truncateURL shortens a URL for display by showing only the path.
// This makes progress more useful when many URLs share the same host prefix.
func truncateURL(rawURL string, maxLen int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if len(rawURL) <= maxLen {
			return rawURL
		}
		return rawURL[:maxLen-3] + "..."
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	if len(path) <= maxLen {
		return path
	}

	// Truncate from the left to show the unique suffix
	return "..." + path[len(path)-maxLen+3:]
}
