package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/dotnet-shim/config"
	"github.com/wippyai/dotnet-shim/hostfxr"
	"github.com/wippyai/dotnet-shim/plugin"
	"github.com/wippyai/dotnet-shim/shim"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env carries what every command needs after flags are parsed.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	layout shim.Layout
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	var interval time.Duration
	var bang string

	root := &cobra.Command{
		Use:   "run",
		Short: "Host a managed plugin and drive its lifecycle",
		Long: `run loads the .NET runtime through hostfxr, initializes the plugin
<dir>/<name>/<name>.dll and replays a short measure session against it:
Initialize, Update, CustomFunc, GetString, two more Updates, Finalize.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, errOut)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()
			return runDemo(cmd.OutOrStdout(), e, interval, bang)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	config.BindFlags(root.PersistentFlags())
	root.Flags().DurationVar(&interval, "interval", time.Second, "pause between updates")
	root.Flags().StringVar(&bang, "bang", "", "command passed to ExecuteBang after Initialize")

	root.AddCommand(newLocateCommand(errOut), newNamesCommand(errOut))
	return root
}

// setup loads configuration, installs loggers and derives the plugin layout.
func setup(cmd *cobra.Command, errOut io.Writer) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logFile := os.Stderr
	if f, ok := errOut.(*os.File); ok {
		logFile = f
	}
	logger, err := config.NewLogger(cfg.Log, logFile)
	if err != nil {
		return nil, err
	}
	hostfxr.SetLogger(logger.Named("hostfxr"))
	plugin.SetLogger(logger.Named("plugin"))
	shim.SetLogger(logger.Named("shim"))

	dir := cfg.Plugin.Dir
	if dir == "" {
		if dir, err = shim.ModuleDirectory(); err != nil {
			return nil, err
		}
	}
	return &env{cfg: cfg, logger: logger, layout: cfg.Layout(dir)}, nil
}

func runDemo(out io.Writer, e *env, interval time.Duration, bang string) error {
	loader := hostfxr.NewLoader(hostfxr.WithLocateOptions(e.cfg.LocateOptions(e.layout.AssemblyPath())))
	s := shim.New(e.layout,
		shim.WithSink(plugin.ZapSink{Logger: e.logger.Named("host")}),
		shim.WithInstanceOptions(plugin.WithLoader(loader)))

	h := s.Initialize(0)
	inst, _ := s.Instance(h)
	e.logger.Info("plugin initialized",
		zap.String("assembly", e.layout.AssemblyPath()),
		zap.Stringer("state", inst.State()),
		zap.String("hostfxr", loader.LibraryPath()))

	if bang != "" {
		s.ExecuteBang(h, bang)
	}

	pause := func() { time.Sleep(interval) }

	pause()
	fmt.Fprintln(out, s.Update(h))

	pause()
	fmt.Fprintln(out, s.CustomFunc(h, "Hello", "Custom Function").Copy())
	fmt.Fprintln(out, s.GetString(h).Copy())

	pause()
	fmt.Fprintln(out, s.Update(h))

	pause()
	fmt.Fprintln(out, s.Update(h))
	fmt.Fprintln(out, s.GetString(h).Copy())

	s.Finalize(h)
	return s.Close()
}
