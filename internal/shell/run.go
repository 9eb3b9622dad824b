package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Options controls how Run presents a session.
type Options struct {
	// Prompt is written before each line is read.
	Prompt string
	// Format is the fmt verb for results. Empty means "%g".
	Format string
	// Echo writes the parse tree before each result.
	Echo bool
	// NoColor disables coloured errors.
	NoColor bool
}

// Run reads lines from in and writes results to out until in is exhausted or
// ctx is cancelled. Errors from individual lines are written to out and do
// not stop the loop. Run returns nil at the end of input.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	verb := opts.Format
	if verb == "" {
		verb = "%g"
	}
	verb += "\n"
	errc := color.New(color.FgRed)
	pendc := color.New(color.Faint)
	if opts.NoColor {
		errc.DisableColor()
		pendc.DisableColor()
	}

	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				done <- ctx.Err()
				return
			}
		}
		done <- sc.Err()
		close(lines)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, opts.Prompt)
		var text string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-done
			}
			text = l
		}
		r, err := s.Line(text)
		if err != nil {
			errc.Fprintln(out, err)
			continue
		}
		switch r.Kind {
		case Value:
			if opts.Echo {
				fmt.Fprintf(out, "%v : ", r.Tree)
			}
			fmt.Fprintf(out, verb, r.Value)
		default:
			pendc.Fprintln(out, r.Text)
		}
	}
}
