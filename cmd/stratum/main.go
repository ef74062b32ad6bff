// Command stratum composes layered YAML configuration documents and either
// prints the resolved configuration, reports still-required values, or runs
// the training harness on it.
//
// Usage:
//
//	stratum --config-dir configs print ffsp_base trainer.max_epochs=5
//	stratum --config-dir configs deferred ffsp_base
//	stratum --config-dir configs train ffsp_base trainer.checkpoint_dir=/tmp/run
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/0xalexb/stratum"
	"github.com/0xalexb/stratum/logging"
	"github.com/0xalexb/stratum/store"
	"github.com/0xalexb/stratum/trainer"
)

func main() {
	app := kingpin.New("stratum", "Layered configuration composer for experiment runs")
	app.Version(stratum.Version)

	configDir := app.Flag("config-dir", "Root directory holding the configuration groups").Default(".").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("info").String()
	logFormat := app.Flag("log-format", "Log format (json or text)").Default("text").String()

	printCmd := app.Command("print", "Compose an entry document and print the resolved configuration")
	printEntry := printCmd.Arg("entry", "Entry document as group/name or name").Required().String()
	printOverrides := printCmd.Arg("overrides", "Runtime overrides as dotted.path=value").Strings()

	deferredCmd := app.Command("deferred", "List required (???) values still unset after composition")
	deferredEntry := deferredCmd.Arg("entry", "Entry document as group/name or name").Required().String()
	deferredOverrides := deferredCmd.Arg("overrides", "Runtime overrides as dotted.path=value").Strings()

	trainCmd := app.Command("train", "Compose an entry document and execute the training harness")
	trainEntry := trainCmd.Arg("entry", "Entry document as group/name or name").Required().String()
	trainOverrides := trainCmd.Arg("overrides", "Runtime overrides as dotted.path=value").Strings()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := logging.NewLogger(logging.Config{Level: *logLevel, Format: *logFormat}, os.Stderr)
	slog.SetDefault(logger)

	switch command {
	case printCmd.FullCommand():
		if err := runPrint(*configDir, *printEntry, *printOverrides); err != nil {
			app.Fatalf("%v", err)
		}
	case deferredCmd.FullCommand():
		if err := runDeferred(*configDir, *deferredEntry, *deferredOverrides); err != nil {
			app.Fatalf("%v", err)
		}
	case trainCmd.FullCommand():
		runTrain(*configDir, *trainEntry, *trainOverrides, logger)
	}
}

func compose(configDir, entry string, overrides []string) (*stratum.Config, error) {
	st, err := store.NewDir(configDir)
	if err != nil {
		return nil, err
	}

	return stratum.New(st, stratum.WithOverrides(overrides...)).Compose(entry)
}

func runPrint(configDir, entry string, overrides []string) error {
	cfg, err := compose(configDir, entry, overrides)
	if err != nil {
		return err
	}

	data, err := cfg.Dump()
	if err != nil {
		return err
	}

	fmt.Print(string(data))

	return nil
}

func runDeferred(configDir, entry string, overrides []string) error {
	cfg, err := compose(configDir, entry, overrides)
	if err != nil {
		return err
	}

	paths := cfg.Deferred()
	for _, path := range paths {
		fmt.Println(path)
	}

	if len(paths) > 0 {
		return fmt.Errorf("%d required value(s) still unset", len(paths))
	}

	return nil
}

func runTrain(configDir, entry string, overrides []string, logger *slog.Logger) {
	st, err := store.NewDir(configDir)
	if err != nil {
		slog.Error("opening config store", slog.Any("error", err))
		os.Exit(1)
	}

	fxApp := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		trainer.NewModule(st, entry,
			trainer.WithComposeOptions(stratum.WithOverrides(overrides...)),
			trainer.WithTrainerOptions(trainer.WithLogger(logger)),
		),
	)

	fxApp.Run()
}
