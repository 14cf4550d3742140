package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sarchlab/roccaes/accel"
	"github.com/sarchlab/roccaes/stimulus"
)

// EnvPrefix is the prefix of the environment variables read by ApplyEnv.
const EnvPrefix = "ROCCAES_"

// An Option is a named setting that can be given as a flag or an
// environment variable.
type Option struct {
	Name   string
	Usage  string
	IsBool bool

	get func(c *Config) string
	set func(c *Config, v string) error
}

// EnvName returns the environment variable that sets the option.
func (o Option) EnvName() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(o.Name, "-", "_"))
}

// Get returns the value of the option in c as a string.
func (o Option) Get(c *Config) string {
	return o.get(c)
}

func intOption(name, usage string, field func(c *Config) *int) Option {
	return Option{
		Name:  name,
		Usage: usage,
		get:   func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}

			*field(c) = n

			return nil
		},
	}
}

func uintOption(name, usage string, field func(c *Config) *uint64) Option {
	return Option{
		Name:  name,
		Usage: usage,
		get: func(c *Config) string {
			return strconv.FormatUint(*field(c), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 0, 64)
			if err != nil {
				return err
			}

			*field(c) = n

			return nil
		},
	}
}

func boolOption(name, usage string, field func(c *Config) *bool) Option {
	return Option{
		Name:   name,
		Usage:  usage,
		IsBool: true,
		get:    func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}

			*field(c) = b

			return nil
		},
	}
}

func stringOption(name, usage string, field func(c *Config) *string) Option {
	return Option{
		Name:  name,
		Usage: usage,
		get:   func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

var options = []Option{
	{
		Name:  "key-size",
		Usage: "key size policy: 128, 256 or random",
		get:   func(c *Config) string { return c.KeySize.String() },
		set: func(c *Config, v string) error {
			parsed, err := stimulus.ParseKeySizePolicy(v)
			if err != nil {
				return err
			}

			c.KeySize = parsed

			return nil
		},
	},
	{
		Name:  "operation",
		Usage: "operation policy: encrypt, decrypt or random",
		get:   func(c *Config) string { return c.Operation.String() },
		set: func(c *Config, v string) error {
			parsed, err := stimulus.ParseOperationPolicy(v)
			if err != nil {
				return err
			}

			c.Operation = parsed

			return nil
		},
	},
	{
		Name:  "interrupt",
		Usage: "completion policy: enabled (interrupt), disabled (polling) or random",
		get:   func(c *Config) string { return c.Interrupt.String() },
		set: func(c *Config, v string) error {
			parsed, err := stimulus.ParseInterruptPolicy(v)
			if err != nil {
				return err
			}

			c.Interrupt = parsed

			return nil
		},
	},
	{
		Name:  "destructive",
		Usage: "destination policy: destructive, non-destructive or random",
		get:   func(c *Config) string { return c.Destructive.String() },
		set: func(c *Config, v string) error {
			parsed, err := stimulus.ParseDestructivePolicy(v)
			if err != nil {
				return err
			}

			c.Destructive = parsed

			return nil
		},
	},
	intOption("rounds", "number of rounds",
		func(c *Config) *int { return &c.Rounds }),
	boolOption("key-reuse", "reuse the loaded key after the first round",
		func(c *Config) *bool { return &c.KeyReuse }),
	intOption("beat-width", "bus beat width in bytes: 4, 8 or 16",
		func(c *Config) *int { return &c.BeatWidth }),
	intOption("min-blocks", "smallest block count of a round",
		func(c *Config) *int { return &c.MinBlocks }),
	intOption("max-blocks", "largest block count of a round",
		func(c *Config) *int { return &c.MaxBlocks }),
	{
		Name:  "seed",
		Usage: "random seed",
		get:   func(c *Config) string { return strconv.FormatInt(c.Seed, 10) },
		set: func(c *Config, v string) error {
			parsed, err := strconv.ParseInt(v, 0, 64)
			if err != nil {
				return err
			}

			c.Seed = parsed

			return nil
		},
	},
	boolOption("keep-going", "continue after a failed round",
		func(c *Config) *bool { return &c.KeepGoing }),
	uintOption("capacity", "bus memory capacity in words",
		func(c *Config) *uint64 { return &c.Capacity }),
	intOption("mem-latency", "bus memory latency in cycles",
		func(c *Config) *int { return &c.MemLatency }),
	uintOption("max-ticks", "tick budget of every wait",
		func(c *Config) *uint64 { return &c.MaxTicks }),
	uintOption("settle-ticks", "cycles waited after the writes when polling",
		func(c *Config) *uint64 { return &c.SettleTicks }),
	uintOption("min-ticks-per-block",
		"cycles always waited per block before detecting completion",
		func(c *Config) *uint64 { return &c.MinTicksPerBlock }),
	intOption("accel-beat-width", "beat width of the accelerator in bytes",
		func(c *Config) *int { return &c.AccelBeatWidth }),
	intOption("key-expansion-latency", "accelerator key expansion cycles",
		func(c *Config) *int { return &c.KeyExpansionLatency }),
	intOption("cipher-latency", "accelerator cycles per block",
		func(c *Config) *int { return &c.CipherLatency }),
	{
		Name: "fault",
		Usage: "fault injected into the accelerator: none, noop, " +
			"premature-idle, stray-write, no-interrupt, swap-byte-order, " +
			"stuck-busy or repeat-status",
		get: func(c *Config) string { return c.Fault.String() },
		set: func(c *Config, v string) error {
			parsed, err := accel.ParseFault(v)
			if err != nil {
				return err
			}

			c.Fault = parsed

			return nil
		},
	},
	stringOption("recorder", "result recorder: sqlite, clickhouse or none",
		func(c *Config) *string { return &c.Recorder }),
	stringOption("recorder-path", "SQLite database file, generated if empty",
		func(c *Config) *string { return &c.RecorderPath }),
	stringOption("clickhouse-dsn", "ClickHouse DSN of the clickhouse recorder",
		func(c *Config) *string { return &c.ClickHouseDSN }),
	boolOption("trace", "record command and bus transaction traces",
		func(c *Config) *bool { return &c.Trace }),
	boolOption("monitor", "serve the monitoring API",
		func(c *Config) *bool { return &c.Monitor }),
	intOption("monitor-port", "monitoring port, random if 0",
		func(c *Config) *int { return &c.MonitorPort }),
	boolOption("open-browser", "open the monitoring page in a browser",
		func(c *Config) *bool { return &c.OpenBrowser }),
	boolOption("verbose", "log every round and bus transaction",
		func(c *Config) *bool { return &c.Verbose }),
}

// Options returns every recognized option.
func Options() []Option {
	return append([]Option(nil), options...)
}

// LookupOption finds an option by name.
func LookupOption(name string) (Option, bool) {
	for _, o := range options {
		if o.Name == name {
			return o, true
		}
	}

	return Option{}, false
}

// Set parses value into the named option.
func (c *Config) Set(name, value string) error {
	o, ok := LookupOption(name)
	if !ok {
		return fmt.Errorf("%w: unknown option %q", ErrInvalid, name)
	}

	err := o.set(c, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: option %s: %w", ErrInvalid, name, err)
	}

	return nil
}

// Properties returns every option and its value, sorted by name.
func (c *Config) Properties() [][2]string {
	props := make([][2]string, 0, len(options))
	for _, o := range options {
		props = append(props, [2]string{o.Name, o.get(c)})
	}

	sort.Slice(props, func(i, j int) bool {
		return props[i][0] < props[j][0]
	})

	return props
}
