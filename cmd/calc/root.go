package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/shell"
)

// errFailed is returned when any argument expression fails. Each failure has
// already been reported.
var errFailed = errors.New("some expressions failed")

type options struct {
	config  string
	in      string
	format  string
	given   []string
	echo    bool
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:   "calc [expr...]",
		Short: "Evaluate arithmetic expressions",
		Long: `calc evaluates each argument as an expression and prints its value.
With no arguments, it reads lines from stdin in the manner of a desk
calculator: tokens accumulate until a line contains "=".

Operators are + - * / and **. "a ** b ** c" is "(a ** b) ** c", and an
expression splits at its leftmost + before any -, then *, then /. Write !5
for the number -5. "name = expr" assigns a variable.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          o.run,
	}
	fl := root.Flags()
	fl.StringVar(&o.config, "config", "", "TOML or YAML config file (default $"+config.EnvVar+")")
	fl.StringVar(&o.in, "in", "", "input file, or - for stdin (default stdin if no args given)")
	fl.StringVar(&o.format, "fmt", "%g", "result formatting string")
	fl.StringArrayVar(&o.given, "given", nil, "name=value variable definition (any number of times)")
	fl.BoolVar(&o.echo, "echo", false, "print parse trees")
	fl.BoolVarP(&o.verbose, "verbose", "v", false, "log pending tokens")
	fl.BoolVar(&o.noColor, "no-color", false, "disable coloured errors")

	root.AddCommand(newVersionCmd(), newFuncsCmd(), newTokensCmd())
	return root
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fmt") {
		cfg.Format = o.format
	}
	if o.noColor {
		cfg.Color = false
	}
	env, err := cfg.Env()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, s := range o.given {
		nm, vl, err := parseGiven(s)
		if err != nil {
			return err
		}
		r, err := calc.EvalString(vl, env)
		if err != nil {
			return fmt.Errorf("setting %s: %w", nm, err)
		}
		env[nm] = r
	}

	out := cmd.OutOrStdout()
	var failed error
	if len(args) > 0 {
		errc := color.New(color.FgRed)
		if !cfg.Color {
			errc.DisableColor()
		}
		verb := cfg.Format + "\n"
		for _, arg := range args {
			n, err := parse(arg)
			if err == nil {
				if o.echo {
					fmt.Fprintf(out, "%v : ", n)
				}
				var r float64
				r, err = calc.Evaluate(n, env)
				if err == nil {
					fmt.Fprintf(out, verb, r)
					continue
				}
			}
			errc.Fprintln(out, err)
			failed = errFailed
		}
		if o.in == "" {
			return failed
		}
	}

	in, interactive, err := input(o.in, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()
	var logger *log.Logger
	if o.verbose {
		logger = log.New(cmd.ErrOrStderr(), "calc: ", 0)
	}
	opts := shell.Options{
		Format:  cfg.Format,
		Echo:    o.echo,
		NoColor: !cfg.Color,
	}
	if interactive {
		opts.Prompt = cfg.Prompt
	}
	if err := shell.New(env, logger).Run(cmd.Context(), in, out, opts); err != nil {
		return err
	}
	return failed
}

func parse(src string) (*calc.Node, error) {
	toks, err := calc.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return calc.Parse(toks)
}

// parseGiven splits a --given definition.
func parseGiven(s string) (name, value string, err error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return "", "", fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	name, value = strings.TrimSpace(d[0]), strings.TrimSpace(d[1])
	toks, err := calc.Tokenize(name)
	if err != nil || len(toks) != 1 || toks[0].Kind != calc.TokenIdent {
		return "", "", fmt.Errorf("invalid variable name %q", name)
	}
	return name, value, nil
}

// input opens the shell's input. The prompt is shown only when reading from a
// terminal.
func input(name string, stdin io.Reader) (io.ReadCloser, bool, error) {
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, false, err
		}
		return f, false, nil
	}
	if f, ok := stdin.(*os.File); ok {
		return io.NopCloser(f), isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return io.NopCloser(stdin), false, nil
}
