package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/hscells/sweep"
	"github.com/hscells/sweep/config"
	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/output"
	"github.com/lmittmann/tint"
)

var (
	name    = "sweep"
	version = "17.Oct.2026"
)

type args struct {
	Data       string        `help:"csv file with a header row" arg:"required,positional"`
	Label      string        `help:"name of the label column" arg:"required"`
	Task       string        `help:"classification or regression"`
	Config     string        `help:"sweeping configuration yaml (default: built in)"`
	Settings   string        `help:"run settings properties file"`
	Timeout    time.Duration `help:"wall-clock budget of each sweep batch"`
	EnableDNN  bool          `help:"run sweepers that need a neural network" arg:"--enable-dnn"`
	ForceDNN   bool          `help:"force neural network sweepers to be accepted" arg:"--force-dnn"`
	Language   string        `help:"ISO 639-3 language of the text columns"`
	Seed       int64         `help:"random seed"`
	Progress   bool          `help:"draw a progress bar on stderr"`
	Verbose    bool          `help:"log debug messages"`
	NoFeatures bool          `help:"skip the feature sweep" arg:"--no-features"`
	NoBalance  bool          `help:"skip the class balancing sweep" arg:"--no-balancing"`
	Format     string        `help:"output format, json or tsv"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
decides which featurizations and class balancing strategies improve a model
# %s`, name, version)
}

func main() {
	var args args
	args.Task = "classification"
	args.Format = "json"
	arg.MustParse(&args)

	level := slog.LevelInfo
	if args.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))

	if err := run(args); err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(args args) error {
	task, err := dataset.ParseTask(args.Task)
	if err != nil {
		return err
	}
	format, err := output.Lookup(args.Format)
	if err != nil {
		return err
	}

	settings := config.DefaultSettings()
	if len(args.Settings) > 0 {
		settings, err = config.LoadSettings(args.Settings)
		if err != nil {
			return err
		}
	}
	if args.Timeout > 0 {
		settings.Timeout = args.Timeout
	}
	if args.EnableDNN {
		settings.EnableDNN = true
	}
	if args.ForceDNN {
		settings.ForceDNN = true
	}
	if len(args.Language) > 0 {
		settings.DatasetLanguage = args.Language
	}
	if args.Seed != 0 {
		settings.Seed = args.Seed
	}
	if len(args.Config) > 0 {
		settings.Config = args.Config
	}

	options := []func(*sweep.MetaSweeper){sweep.Settings(settings), sweep.Logger(slog.Default())}
	if len(settings.Config) > 0 {
		c, err := config.Load(settings.Config)
		if err != nil {
			return err
		}
		options = append(options, sweep.Configuration(c))
	}
	if args.Progress {
		options = append(options, sweep.Progress(os.Stderr))
	}
	m, err := sweep.NewMetaSweeper(options...)
	if err != nil {
		return err
	}

	f, err := os.Open(args.Data)
	if err != nil {
		return err
	}
	defer f.Close()
	ds, classes, err := readCSV(f, args.Label, task)
	if err != nil {
		return err
	}
	slog.Info("loaded dataset", "rows", ds.NumRows(), "columns", len(ds.X.Columns), "task", task.String(), "classes", len(classes))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var out output.Reports
	if !args.NoFeatures {
		if out.Features, err = m.SweepFeatures(ctx, ds, task, nil); err != nil {
			return err
		}
	}
	if !args.NoBalance {
		if out.Balancing, err = m.SweepBalancing(ctx, ds, task, nil); err != nil {
			return err
		}
	}

	s, err := format(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, s)
	return err
}
