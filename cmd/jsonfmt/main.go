package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/amterp/color"
	"github.com/jessevdk/go-flags"

	"github.com/amterp/jsonfmt"
	"github.com/amterp/jsonfmt/internal/config"
	"github.com/amterp/jsonfmt/pkg/log"
	"github.com/amterp/jsonfmt/pkg/version"
)

const program = "jsonfmt"

type options struct {
	InputPath  *flags.Filename `short:"i" long:"input" description:"input file path (default: stdin)"`
	OutputPath *flags.Filename `short:"o" long:"output" description:"output file path (default: stdout)"`
	Indent     *int            `short:"I" long:"indent" description:"spaces per nesting level (default: 4)"`
	Depth      *int            `short:"n" long:"nesting-level" description:"maximum nesting level; deeper input fails (default: 32)"`
	ConfigPath *flags.Filename `short:"c" long:"config" description:"config file; JSONFMT_CONFIG is used when unset"`
	Diff       bool            `short:"d" long:"diff" description:"print a diff against the formatted output instead of the output; exit 1 if they differ"`
	Color      *string         `long:"color" description:"colorize output (default: auto)" choice:"auto" choice:"always" choice:"never"`
	Verbose    []bool          `short:"v" long:"verbose" description:"increase verbosity; -v prints a summary, -vv adds debug detail"`
	Version    bool            `short:"V" long:"version" description:"print version and exit"`

	CPUProfile *string `long:"cpu-profile" description:"write CPU profile to file"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &options{}

	fp := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	fp.Name = program

	configOpt := fp.FindOptionByLongName("config")
	configOpt.Description = fmt.Sprintf("config file (%s); JSONFMT_CONFIG is used when unset", strings.Join(config.Extensions(), ", "))

	fp.LongDescription = `
jsonfmt re-indents JSON to make it more readable or simpler to analyze with
tools like grep. It does not validate its input: anything between the braces,
brackets, commas and colons is copied through, so malformed JSON and
JSON-like text are formatted too.

Example, count the colors used across many unformatted files:

    find files -type f | xargs -L1 jsonfmt -i | grep '"colors"' | sort | uniq -c`

	rest, err := fp.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return 0
		}

		return fatal(stderr, err)
	}

	if len(rest) > 0 {
		return fatal(stderr, fmt.Errorf("unexpected argument %q", rest[0]))
	}

	if opts.Version {
		err = version.Print(stdout, program, len(opts.Verbose) > 0)
		if err != nil {
			return fatal(stderr, err)
		}
		return 0
	}

	if opts.CPUProfile != nil {
		fh, err := os.Create(*opts.CPUProfile)
		if err != nil {
			return fatal(stderr, err)
		}
		defer fh.Close()

		err = pprof.StartCPUProfile(fh)
		if err != nil {
			return fatal(stderr, err)
		}
		defer pprof.StopCPUProfile()
	}

	s, err := resolveSettings(opts)
	if err != nil {
		return fatal(stderr, err)
	}

	logger := log.New(stderr, s.verbosity)
	logger.Debug("settings", "indent", s.cfg.IndentWidth, "depth", s.cfg.MaxDepth, "color", s.color, "config", s.configPath)

	data, source, err := read(opts, stdin, logger)
	if err != nil {
		return fatal(stderr, err)
	}

	f := &jsonfmt.Formatter{Config: s.cfg}

	if opts.Diff {
		result, err := jsonfmt.Check(source, string(data), f)
		if err != nil {
			return fatal(stderr, describe(err, s.cfg))
		}

		logger.Info("checked", "source", source, "formatted", result.Formatted, "max_nesting", result.Stats.MaxNesting)

		if result.Formatted {
			return 0
		}

		_, err = io.WriteString(stdout, result.Diff)
		if err != nil {
			return fatal(stderr, err)
		}
		return 1
	}

	// color.NoColor only describes the process's real stdout.
	noColor := color.NoColor || stdout != io.Writer(os.Stdout)

	if useColor(s.color, opts.OutputPath == nil, noColor) {
		if s.color == config.ColorAlways {
			color.NoColor = false
		}
		f.Palette = jsonfmt.DefaultPalette()
	}

	output, stats, err := f.Format(string(data))
	if err != nil {
		return fatal(stderr, describe(err, s.cfg))
	}

	logger.Info("formatted", "max_nesting", stats.MaxNesting, "chars", stats.Chars, "lines", stats.Lines)

	err = write(opts, stdout, output, logger)
	if err != nil {
		return fatal(stderr, err)
	}

	logger.Info("done")

	return 0
}

type settings struct {
	cfg        jsonfmt.Config
	color      string
	verbosity  int
	configPath string
}

// resolveSettings layers defaults, the config file and flags, in that order.
func resolveSettings(opts *options) (*settings, error) {
	s := &settings{
		cfg:        jsonfmt.DefaultConfig(),
		color:      config.ColorAuto,
		configPath: os.Getenv("JSONFMT_CONFIG"),
	}

	if opts.ConfigPath != nil {
		s.configPath = string(*opts.ConfigPath)
	}

	if s.configPath != "" {
		f, err := config.Load(s.configPath)
		if err != nil {
			return nil, err
		}

		f.Apply(&s.cfg)

		if f.Color != nil {
			s.color = *f.Color
		}

		if f.Verbose != nil {
			s.verbosity = *f.Verbose
		}
	}

	if opts.Indent != nil {
		s.cfg.IndentWidth = *opts.Indent
	}

	if opts.Depth != nil {
		s.cfg.MaxDepth = *opts.Depth
		if s.cfg.MaxDepth == 0 {
			return nil, fmt.Errorf("--nesting-level must be positive: %w", jsonfmt.ErrInvalidConfig)
		}
	}

	if opts.Color != nil {
		s.color = *opts.Color
	}

	if len(opts.Verbose) > 0 {
		s.verbosity = len(opts.Verbose)
	}

	err := s.cfg.Validate()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// useColor decides whether output gets a Palette. In auto mode colors are
// only used on stdout, and only if the color package found a terminal there.
func useColor(mode string, toStdout, noColor bool) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return toStdout && !noColor
	}
}

// describe adds a hint to errors the user can fix with a flag.
func describe(err error, cfg jsonfmt.Config) error {
	if errors.Is(err, jsonfmt.ErrDepthExceeded) {
		return fmt.Errorf("%w; maximum depth is %d, increase the --nesting-level option and try again", err, cfg.MaxDepth)
	}
	return err
}

func fatal(stderr io.Writer, err error) int {
	_, _ = fmt.Fprintf(stderr, "%s: %s\n", program, err)
	return 1
}
