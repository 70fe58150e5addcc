package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	logrusr "github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jyjeanne/dita-runner/progress"
	"github.com/jyjeanne/dita-runner/progress/reporter"
	"github.com/jyjeanne/dita-runner/runner"
	"github.com/jyjeanne/dita-runner/settings"
	"github.com/jyjeanne/dita-runner/tracing"
)

const (
	exitFailure = 1
	exitLaunch  = 2
	exitCancel  = 130
)

var (
	inputFile       string
	format          string
	outputDir       string
	tempDir         string
	ditaHome        string
	filterFile      string
	params          []string
	timeout         time.Duration
	progressMode    string
	progressFormat  string
	verboseWarnings bool
	logLevel        int
	settingsFile    string
	enableJaeger    bool
	jaegerEndpoint  string
)

func RunnerCmd() *cobra.Command {
	var errLog logr.Logger

	rootCmd := &cobra.Command{
		Use:   "dita-runner",
		Short: "Run DITA Open Toolkit transformations with live progress and a reliable verdict",
		PreRunE: func(c *cobra.Command, args []string) error {
			logrusErrLog := logrus.New()
			logrusErrLog.SetOutput(os.Stderr)
			errLog = logrusr.New(logrusErrLog)
			if err := validateFlags(); err != nil {
				errLog.Error(err, "failed to validate flags")
				return err
			}
			return nil
		},
		Run: func(c *cobra.Command, args []string) {
			logrusLog := logrus.New()
			logrusLog.SetOutput(os.Stderr)
			logrusLog.SetFormatter(&logrus.TextFormatter{})
			logrusLog.SetLevel(logrus.Level(logLevel))
			log := logrusr.New(logrusLog)

			os.Exit(run(c, log))
		},
	}

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input map or topic to transform")
	rootCmd.Flags().StringVarP(&format, "format", "f", "html5", "output format (transtype)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "out", "output directory")
	rootCmd.Flags().StringVar(&tempDir, "temp", "", "temp directory (default: <output>/tmp)")
	rootCmd.Flags().StringVar(&ditaHome, "dita-home", os.Getenv("DITA_HOME"), "DITA-OT installation directory")
	rootCmd.Flags().StringVar(&filterFile, "filter", "", "DITAVAL filter file")
	rootCmd.Flags().StringArrayVar(&params, "param", nil, "extra toolkit parameter as name=value (repeatable)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "wall-clock budget for the run")
	rootCmd.Flags().StringVar(&progressMode, "progress", string(reporter.Detailed), "progress display: detailed, simple, minimal or quiet")
	rootCmd.Flags().StringVar(&progressFormat, "progress-format", "bar", "progress output format: bar or json (NDJSON on stderr)")
	rootCmd.Flags().BoolVar(&verboseWarnings, "verbose-warnings", false, "echo warning lines as they arrive")
	rootCmd.Flags().IntVar(&logLevel, "verbose", 4, "log level (logrus levels, 5 for debug)")
	rootCmd.Flags().StringVar(&settingsFile, "settings", "", "settings file (default: discover "+settings.DefaultFileName+")")
	rootCmd.Flags().BoolVar(&enableJaeger, "enable-jaeger", false, "enable tracer exports to jaeger")
	rootCmd.Flags().StringVar(&jaegerEndpoint, "jaeger-endpoint", "http://localhost:14268/api/traces", "jaeger endpoint to collect tracing data")

	return rootCmd
}

func main() {
	if err := RunnerCmd().Execute(); err != nil {
		os.Exit(exitLaunch)
	}
}

func validateFlags() error {
	if inputFile == "" {
		return fmt.Errorf("must specify an input file with --input")
	}
	if _, err := reporter.ParseMode(progressMode); err != nil {
		return err
	}
	if progressFormat != "bar" && progressFormat != "json" {
		return fmt.Errorf("unknown progress format %q (expected bar or json)", progressFormat)
	}
	for _, p := range params {
		if !strings.Contains(p, "=") {
			return fmt.Errorf("invalid --param %q, expected name=value", p)
		}
	}
	return nil
}

func run(c *cobra.Command, log logr.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := applySettings(c); err != nil {
		log.Error(err, "failed to load settings")
		return exitLaunch
	}

	tp, err := tracing.Init(log, tracing.Options{
		EnableJaeger:   enableJaeger,
		JaegerEndpoint: jaegerEndpoint,
	})
	if err != nil {
		log.Error(err, "failed to initialize tracing")
		return exitLaunch
	}
	defer tracing.Shutdown(context.Background(), log, tp)

	mode, err := reporter.ParseMode(progressMode)
	if err != nil {
		log.Error(err, "invalid progress mode")
		return exitLaunch
	}
	interactive := reporter.IsTerminal(os.Stderr)

	var rep progress.Reporter
	switch progressFormat {
	case "json":
		rep = reporter.NewJSONReporter(os.Stderr)
	case "bar":
		rep = reporter.ForMode(mode, os.Stderr, interactive)
	default:
		log.Error(fmt.Errorf("unknown progress format %q", progressFormat), "invalid progress format")
		return exitLaunch
	}

	opts := []runner.Option{
		runner.WithReporter(rep),
		runner.WithSummaryWriter(os.Stderr),
	}
	if mode == reporter.Quiet {
		opts = append(opts, runner.WithQuietSummary())
	}
	if verboseWarnings {
		opts = append(opts, runner.WithVerboseWarnings())
	}

	if tempDir == "" {
		tempDir = filepath.Join(outputDir, "tmp")
	}
	req := runner.ExecutionRequest{
		DitaHome: ditaHome,
		Input:    inputFile,
		Format:   format,
		Output:   outputDir,
		Temp:     tempDir,
		Filter:   filterFile,
		Params:   parseParams(params),
		Timeout:  timeout,
	}

	sup := runner.New(log, opts...)
	result, err := sup.Run(ctx, req)
	if err != nil {
		log.Error(err, "failed to launch toolkit")
		return exitLaunch
	}
	switch {
	case result.Canceled:
		return exitCancel
	case !result.Success:
		return exitFailure
	}
	return 0
}

// applySettings merges file-based defaults under the flags: a value is
// taken from the file only when its flag was not supplied on the
// command line, so explicitly passing a flag always wins even when the
// passed value equals the flag's default.
func applySettings(c *cobra.Command) error {
	var (
		s   settings.Settings
		err error
	)
	if settingsFile != "" {
		s, err = settings.Load(settingsFile)
	} else {
		s, err = settings.Discover(".")
	}
	if err != nil {
		return err
	}

	flags := c.Flags()
	if !flags.Changed("dita-home") && ditaHome == "" {
		ditaHome = s.DitaHome
	}
	if !flags.Changed("format") && s.Format != "" {
		format = s.Format
	}
	if !flags.Changed("output") && s.Output != "" {
		outputDir = s.Output
	}
	if !flags.Changed("temp") && s.Temp != "" {
		tempDir = s.Temp
	}
	if !flags.Changed("filter") && s.Filter != "" {
		filterFile = s.Filter
	}
	if !flags.Changed("progress") && s.Progress != "" {
		progressMode = s.Progress
	}
	if s.VerboseWarnings && !flags.Changed("verbose-warnings") {
		verboseWarnings = true
	}
	if d, derr := s.TimeoutDuration(); derr != nil {
		return derr
	} else if d > 0 && !flags.Changed("timeout") {
		timeout = d
	}
	if len(s.Params) > 0 {
		merged := make(map[string]string, len(s.Params))
		for k, v := range s.Params {
			merged[k] = v
		}
		for k, v := range parseParams(params) {
			merged[k] = v
		}
		params = nil
		for k, v := range merged {
			params = append(params, k+"="+v)
		}
	}
	if ditaHome == "" {
		return fmt.Errorf("no DITA-OT installation configured: set --dita-home, $DITA_HOME, or ditaHome in %s", settings.DefaultFileName)
	}
	return nil
}

func parseParams(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if k, v, ok := strings.Cut(p, "="); ok {
			out[k] = v
		}
	}
	return out
}
