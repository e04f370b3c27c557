package main

import (
	"context"
	"fmt"
	"math/bits"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathanmweiss/go-ntt"
	"github.com/jonathanmweiss/go-ntt/field"
	"github.com/jonathanmweiss/go-ntt/internal/bench"
	"github.com/jonathanmweiss/go-ntt/internal/config"
	"github.com/jonathanmweiss/go-ntt/internal/logging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

// VERSION is populated via build flags when packaging binaries.
var VERSION = "SELFBUILD"

func main() {
	checkError(newApp().Run(os.Args))
}

func newApp() *cli.App {
	var cfg config.Config

	myApp := cli.NewApp()
	myApp.Name = "nttcalc"
	myApp.Usage = "number-theoretic transforms and exact convolution modulo a prime"
	myApp.Version = VERSION
	myApp.Writer = os.Stdout
	myApp.ErrWriter = os.Stderr
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "",
			Usage: "JSON config file, flags given on the command line take precedence",
		},
		cli.Uint64Flag{
			Name:  "modulus, p",
			Value: config.DefaultModulus,
			Usage: "prime modulus below 2^63",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: config.DefaultLogLevel,
			Usage: "debug, info, warn, error",
		},
		cli.BoolFlag{
			Name:  "json-log",
			Usage: "log JSON lines instead of console output",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "parallel transforms in batch work, 0 for GOMAXPROCS",
		},
	}

	myApp.Before = func(c *cli.Context) error {
		cfg = config.Default()
		if path := c.GlobalString("config"); path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if c.GlobalIsSet("modulus") {
			cfg.Modulus = c.GlobalUint64("modulus")
		}
		if c.GlobalIsSet("log-level") {
			cfg.LogLevel = c.GlobalString("log-level")
		}
		if c.GlobalIsSet("json-log") {
			cfg.JSONLog = c.GlobalBool("json-log")
		}
		if c.GlobalIsSet("workers") {
			cfg.Workers = c.GlobalInt("workers")
		}

		if _, err := logging.New(cfg.LogLevel, cfg.JSONLog, c.App.ErrWriter); err != nil {
			return errors.Wrap(err, "log level")
		}

		return nil
	}

	myApp.Commands = []cli.Command{
		{
			Name:  "root",
			Usage: "print the generator, the principal root of unity and N^-1 for a size",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "log, l", Value: 4, Usage: "transform size is 2^log"},
			},
			Action: func(c *cli.Context) error {
				if err := cfg.Validate(); err != nil {
					return err
				}

				return rootCmd(c, cfg)
			},
		},
		{
			Name:      "transform",
			Usage:     "transform comma separated values, zero padded to the transform size",
			ArgsUsage: "v0,v1,...",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "log, l", Value: -1, Usage: "transform size is 2^log, by default the smallest that fits"},
				cli.BoolFlag{Name: "inverse, i", Usage: "run the inverse transform"},
			},
			Action: func(c *cli.Context) error {
				if err := cfg.Validate(); err != nil {
					return err
				}

				return transformCmd(c, cfg)
			},
		},
		{
			Name:      "convolve",
			Usage:     "print the product of two coefficient lists",
			ArgsUsage: "a0,a1,... b0,b1,...",
			Action: func(c *cli.Context) error {
				if err := cfg.Validate(); err != nil {
					return err
				}

				return convolveCmd(c, cfg)
			},
		},
		{
			Name:  "bench",
			Usage: "time transforms over a range of sizes and write an HTML chart",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "min-log", Value: config.DefaultMinLog, Usage: "smallest log2 size"},
				cli.IntFlag{Name: "max-log", Value: config.DefaultMaxLog, Usage: "largest log2 size"},
				cli.IntFlag{Name: "rounds", Value: config.DefaultRounds, Usage: "runs per size, the fastest is kept"},
				cli.StringFlag{Name: "seed", Value: config.DefaultSeed, Usage: "SHAKE128 seed of the inputs"},
				cli.StringFlag{Name: "out, o", Value: config.DefaultChart, Usage: "HTML chart path, empty to skip"},
			},
			Action: func(c *cli.Context) error {
				if c.IsSet("min-log") {
					cfg.Bench.MinLog = c.Int("min-log")
				}
				if c.IsSet("max-log") {
					cfg.Bench.MaxLog = c.Int("max-log")
				}
				if c.IsSet("rounds") {
					cfg.Bench.Rounds = c.Int("rounds")
				}
				if c.IsSet("seed") {
					cfg.Bench.Seed = c.String("seed")
				}
				if c.IsSet("out") {
					cfg.Bench.Out = c.String("out")
				}

				if err := cfg.Validate(); err != nil {
					return err
				}
				if err := cfg.ValidateBench(); err != nil {
					return err
				}

				return benchCmd(c, cfg)
			},
		},
	}

	return myApp
}

func rootCmd(c *cli.Context, cfg config.Config) error {
	f, err := field.NewPrimeField(cfg.Modulus)
	if err != nil {
		return errors.Wrap(err, "modulus")
	}

	plan, err := ntt.NewPlanForField(c.Int("log"), f)
	if err != nil {
		return errors.Wrapf(err, "plan of log %d", c.Int("log"))
	}

	w := c.App.Writer
	fmt.Fprintf(w, "modulus:      %d\n", plan.Modulus())
	fmt.Fprintf(w, "p-1 factors:  %v\n", f.Factors())
	fmt.Fprintf(w, "generator:    %d\n", f.Generator())
	fmt.Fprintf(w, "size:         %d\n", plan.Size())
	fmt.Fprintf(w, "root:         %d\n", plan.Root())
	fmt.Fprintf(w, "size inverse: %d\n", plan.SizeInverse())

	return nil
}

func transformCmd(c *cli.Context, cfg config.Config) error {
	if c.NArg() != 1 {
		return errors.New("transform takes exactly one comma separated list")
	}

	values, err := parseValues(c, c.Args().Get(0), cfg.Modulus)
	if err != nil {
		return err
	}

	lg := c.Int("log")
	if lg < 0 {
		lg = bits.Len(uint(len(values) - 1))
	}

	plan, err := ntt.NewPlan(lg, cfg.Modulus)
	if err != nil {
		return errors.Wrapf(err, "plan of log %d", lg)
	}

	if len(values) > plan.Size() {
		return errors.Errorf("%d values do not fit a transform of size %d", len(values), plan.Size())
	}

	buf := make([]uint64, plan.Size())
	copy(buf, values)

	dir := ntt.Forward
	if c.Bool("inverse") {
		dir = ntt.Inverse
	}

	if err := plan.Transform(buf, dir); err != nil {
		return err
	}

	log.Debug().Stringer("direction", dir).Int("size", plan.Size()).Msg("transformed")
	fmt.Fprintln(c.App.Writer, formatValues(buf))

	return nil
}

func convolveCmd(c *cli.Context, cfg config.Config) error {
	if c.NArg() != 2 {
		return errors.New("convolve takes exactly two comma separated lists")
	}

	a, err := parseValues(c, c.Args().Get(0), cfg.Modulus)
	if err != nil {
		return err
	}

	b, err := parseValues(c, c.Args().Get(1), cfg.Modulus)
	if err != nil {
		return err
	}

	conv, err := ntt.NewConvolver(cfg.Modulus, ntt.WithNaiveThreshold(cfg.NaiveThreshold))
	if err != nil {
		return err
	}

	prod, err := conv.Multiply(a, b)
	if err != nil {
		return errors.Wrap(err, "multiply")
	}

	fmt.Fprintln(c.App.Writer, formatValues(prod))

	return nil
}

func benchCmd(c *cli.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := bench.Run(ctx, bench.Options{
		Modulus: cfg.Modulus,
		MinLog:  cfg.Bench.MinLog,
		MaxLog:  cfg.Bench.MaxLog,
		Rounds:  cfg.Bench.Rounds,
		Seed:    cfg.Bench.Seed,
		Workers: cfg.Workers,
	})
	for _, r := range results {
		fmt.Fprintln(c.App.Writer, r)
	}
	if err != nil {
		return err
	}

	if cfg.Bench.Out == "" {
		return nil
	}

	f, err := os.Create(cfg.Bench.Out)
	if err != nil {
		return errors.Wrap(err, "chart")
	}
	defer f.Close()

	if err := bench.Render(f, results, cfg.Modulus); err != nil {
		return errors.Wrap(err, "render chart")
	}

	log.Info().Str("path", cfg.Bench.Out).Msg("chart written")

	return nil
}

func parseValues(c *cli.Context, s string, mod uint64) ([]uint64, error) {
	fields := strings.Split(s, ",")
	values := make([]uint64, len(fields))

	reduced := false
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}

		if v >= mod {
			reduced = true
			v %= mod
		}
		values[i] = v
	}

	if reduced {
		color.New(color.FgRed).Fprintf(c.App.ErrWriter, "WARNING: values reduced modulo %d\n", mod)
	}

	return values, nil
}

func formatValues(v []uint64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatUint(x, 10)
	}

	return strings.Join(parts, ",")
}

func checkError(err error) {
	if err != nil {
		log.Error().Msgf("%+v", err)
		os.Exit(-1)
	}
}
