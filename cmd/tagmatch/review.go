package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sydlexius/tagmatch/internal/pipeline"
)

// terminalReviewer prompts on the terminal for each deferred item. It
// satisfies pipeline.Reviewer and is invoked only after the scan pass,
// so prompts never interleave with catalog lookups.
type terminalReviewer struct {
	out io.Writer
	in  io.Reader

	scanner *bufio.Scanner
}

func (r *terminalReviewer) Review(_ context.Context, pend pipeline.Pending) (pipeline.Selection, error) {
	if r.scanner == nil {
		r.scanner = bufio.NewScanner(r.in)
	}

	fmt.Fprintf(r.out, "\n%s\n  query: %s\n", pend.Item.Handle, pend.Query.String())
	for i, sc := range pend.Candidates {
		c := sc.Candidate
		line := c.DisplayTitle
		if c.Year != "" {
			line += ", " + c.Year
		}
		if c.Country != "" {
			line += ", " + c.Country
		}
		fmt.Fprintf(r.out, "  %d. %s (%d%%)\n", i+1, line, sc.Score)
	}

	for {
		fmt.Fprintf(r.out, "Choose a release [1-%d], 0 to skip, i for instrumental: ", len(pend.Candidates))
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return pipeline.Selection{}, err
			}
			return pipeline.Selection{Kind: pipeline.SelectionSkip}, nil
		}

		input := strings.TrimSpace(r.scanner.Text())
		switch {
		case input == "0":
			return pipeline.Selection{Kind: pipeline.SelectionSkip}, nil
		case strings.EqualFold(input, "i"):
			return pipeline.Selection{Kind: pipeline.SelectionInstrumental}, nil
		default:
			if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(pend.Candidates) {
				return pipeline.Selection{Kind: pipeline.SelectionPick, Index: n - 1}, nil
			}
		}
		fmt.Fprintln(r.out, "Invalid input, try again.")
	}
}
