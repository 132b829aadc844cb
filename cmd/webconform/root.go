package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"github.com/chrisuehlinger/webconform/config"
	"github.com/chrisuehlinger/webconform/harness"
)

// ExitCode is an error that carries the process exit code.
type ExitCode struct {
	error
	Code int
}

type rootCommand struct {
	ctx       context.Context
	cmd       *cobra.Command
	logger    *logrus.Logger
	fs        afero.Fs
	env       map[string]string
	stdout    io.Writer
	stdoutTTY bool

	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
	profile    string
	timeout    time.Duration
	conf       config.Config
}

func newRootCommand(ctx context.Context, fs afero.Fs, env map[string]string, stdout, stderr io.Writer, stdoutTTY bool) *rootCommand {
	logger := &logrus.Logger{
		Out:       stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
	c := &rootCommand{
		ctx:        ctx,
		logger:     logger,
		fs:         fs,
		env:        env,
		stdout:     stdout,
		stdoutTTY:  stdoutTTY,
		configPath: env["WEBCONFORM_CONFIG"],
	}
	c.cmd = &cobra.Command{
		Use:               "webconform",
		Short:             "Headless DOM conformance harness",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetOut(stdout)
	c.cmd.SetErr(stderr)
	c.cmd.PersistentFlags().AddFlagSet(c.persistentFlagSet())
	c.cmd.AddCommand(
		getRunCmd(c),
		getSuiteCmd(c),
		getDumpCmd(c),
	)
	return c
}

func (c *rootCommand) persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVarP(&c.configPath, "config", "c", c.configPath, "YAML config file")
	flags.StringVar(&c.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "text", "log format: text or json")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.profile, "profile", harness.ProfileDefault.Name, "browser profile: webconform, chrome, firefox, edge")
	flags.DurationVar(&c.timeout, "page-timeout", harness.DefaultPageTimeout, "how long a page may keep its event loop busy")
	return flags
}

// flagConfig turns the flags the user actually set into a config layer.
func (c *rootCommand) flagConfig(flags *pflag.FlagSet) config.Config {
	return config.Config{
		Profile:   null.NewString(c.profile, flags.Changed("profile")),
		LogLevel:  null.NewString(c.logLevel, flags.Changed("log-level")),
		LogFormat: null.NewString(c.logFormat, flags.Changed("log-format")),
		NoColor:   null.NewBool(c.noColor, flags.Changed("no-color")),
		PageTimeout: config.NullDuration{
			Duration: c.timeout,
			Valid:    flags.Changed("page-timeout"),
		},
	}
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	conf, err := config.Load(c.fs, c.configPath, c.env)
	if err != nil {
		return err
	}
	conf = conf.Apply(c.flagConfig(cmd.Flags()))
	if err := conf.Validate(); err != nil {
		return err
	}
	c.conf = conf

	level, err := logrus.ParseLevel(conf.LogLevel.String)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	c.logger.SetLevel(level)
	switch conf.LogFormat.String {
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		c.logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.stdoutTTY,
			DisableColors: conf.NoColor.Bool,
		})
	}

	if conf.NoColor.Bool {
		c.stdout = colorable.NewNonColorable(c.stdout)
		cmd.SetOut(c.stdout)
	}
	c.logger.WithField("profile", conf.Profile.String).Debug("configuration loaded")
	return nil
}

// colorize reports whether results should be printed with color.
func (c *rootCommand) colorize() bool {
	return c.stdoutTTY && !c.conf.NoColor.Bool
}

// newClient builds a WebClient from the loaded configuration.
func (c *rootCommand) newClient(opts ...harness.Option) (*harness.WebClient, error) {
	clientOpts, err := c.conf.ClientOptions(c.logger)
	if err != nil {
		return nil, err
	}
	clientOpts = append(clientOpts, harness.WithFs(c.fs))
	return harness.NewWebClient(append(clientOpts, opts...)...)
}

func (c *rootCommand) execute(args []string) error {
	c.cmd.SetArgs(args)
	return c.cmd.ExecuteContext(c.ctx)
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := kv, ""
		if i := strings.IndexByte(kv, '='); i >= 0 {
			k, v = kv[:i], kv[i+1:]
		}
		env[k] = v
	}
	return env
}

// Execute runs the root command with the process environment.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	c := newRootCommand(ctx, afero.NewOsFs(), buildEnvMap(os.Environ()),
		colorable.NewColorableStdout(), colorable.NewColorableStderr(), stdoutTTY)

	if err := c.execute(os.Args[1:]); err != nil {
		code := 1
		var e ExitCode
		if errors.As(err, &e) {
			code = e.Code
		}
		c.logger.Error(err)
		cancel()
		os.Exit(code)
	}
}
