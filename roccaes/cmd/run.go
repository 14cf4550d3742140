package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/roccaes/config"
	"github.com/sarchlab/roccaes/datarecording"
	"github.com/sarchlab/roccaes/harness"
	"github.com/sarchlab/roccaes/mem/trace"
	"github.com/sarchlab/roccaes/monitoring"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run verification rounds against the accelerator model.",
	Long: "Options can also be given as ROCCAES_* environment variables or " +
		"in a .env file. Flags take precedence over the environment, " +
		"which takes precedence over the .env file.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		atexit.Exit(run(cmd.Flags(), cmd.OutOrStdout()))
	},
}

func init() {
	addFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}

func addFlags(flags *pflag.FlagSet) {
	defaults := config.Default()

	flags.String("env-file", "", "dotenv file to load, .env if empty")

	for _, o := range config.Options() {
		flags.String(o.Name, o.Get(&defaults), o.Usage)

		if o.IsBool {
			flags.Lookup(o.Name).NoOptDefVal = "true"
		}
	}
}

// loadConfig merges the defaults, the dotenv file, the environment, and the
// flags that were set.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	envFile, _ := flags.GetString("env-file")

	var err error
	if envFile == "" {
		err = config.LoadEnv()
	} else {
		err = config.LoadEnv(envFile)
	}

	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	cfg := config.Default()

	err = cfg.ApplyEnv(os.LookupEnv)
	if err != nil {
		return cfg, err
	}

	var errs []error

	flags.Visit(func(f *pflag.Flag) {
		if _, ok := config.LookupOption(f.Name); !ok {
			return
		}

		errs = append(errs, cfg.Set(f.Name, f.Value.String()))
	})

	err = errors.Join(errs...)
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func run(flags *pflag.FlagSet, out io.Writer) int {
	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	recorder, err := newRecorder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	platform, err := harness.MakeBuilder().WithConfig(cfg).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	if recorder != nil && cfg.Trace {
		platform.AttachTracer(tracing.NewDBTracer(platform.Engine, recorder))
	}

	if cfg.Verbose {
		busLogger := log.New(os.Stderr, "bus: ", 0)
		tracing.CollectTrace(platform.Memory,
			trace.NewTracer(busLogger, platform.Engine),
			tracing.KindFilter(harness.BusLatencyTaskKind))

		msgLogger := sim.NewPortMsgLogger(log.New(os.Stderr, "msg: ", 0))
		platform.Driver.GetPortByName("Cmd").AcceptHook(msgLogger)
		platform.Accel.GetPortByName("Resp").AcceptHook(msgLogger)
	}

	runner := harness.NewRunner(platform, cfg)
	runner.SetLogger(log.New(os.Stderr, "", log.LstdFlags))

	var execRecorder *datarecording.ExecRecorder
	if recorder != nil {
		execRecorder = startExecRecorder(recorder, cfg)
		runner.AcceptHook(harness.NewRoundRecorder(recorder))
	}

	if cfg.Monitor {
		startMonitor(cfg, platform, runner)
	}

	report := runner.Run()
	report.Print(out)

	if execRecorder != nil {
		execRecorder.Property("Passed", strconv.FormatBool(report.Passed()))
		execRecorder.End()
	}

	if !report.Passed() {
		return ExitFailed
	}

	return ExitPassed
}

func newRecorder(cfg config.Config) (datarecording.DataRecorder, error) {
	switch cfg.Recorder {
	case config.RecorderNone:
		return nil, nil
	case config.RecorderClickHouse:
		return datarecording.NewWithConfig(datarecording.RecorderConfig{
			Type:    "clickhouse",
			ConnStr: cfg.ClickHouseDSN,
		})
	default:
		return datarecording.NewWithConfig(datarecording.RecorderConfig{
			Type: "sqlite",
			Path: cfg.RecorderPath,
		})
	}
}

func startExecRecorder(
	recorder datarecording.DataRecorder,
	cfg config.Config,
) *datarecording.ExecRecorder {
	e := datarecording.NewExecRecorder(recorder)
	e.Start()
	e.Property("Run ID", xid.New().String())

	for _, p := range cfg.Properties() {
		e.Property(p[0], p[1])
	}

	return e
}

func startMonitor(
	cfg config.Config,
	platform *harness.Platform,
	runner *harness.Runner,
) {
	m := monitoring.NewMonitor().WithPortNumber(cfg.MonitorPort)
	m.RegisterEngine(platform.Engine)
	m.RegisterRounds(runner)

	for _, c := range platform.Components() {
		m.RegisterComponent(c)
	}

	bar := m.CreateProgressBar("Rounds", uint64(cfg.Rounds))
	runner.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		switch ctx.Pos {
		case harness.HookPosRoundStart:
			bar.IncrementInProgress(1)
		case harness.HookPosRoundEnd:
			bar.MoveInProgressToFinished(1)
		}
	}))

	m.StartServer(cfg.OpenBrowser)
}
