package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"musicagent/internal/config"
	"musicagent/internal/llm"
	"musicagent/internal/logger"
	"musicagent/internal/pipeline"
	"musicagent/internal/progress"
	"musicagent/internal/shutdown"
	"musicagent/internal/tagcodec"

	"github.com/mattn/go-isatty"
)

const version = "0.1.0"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, configPath, act, err := parseArgs(args)
	switch act {
	case actionHelp:
		if err != nil {
			printUsage(stderr)
			return 1
		}
		printUsage(stdout)
		return 0
	case actionInitConfig:
		if err := initConfigFile(stdout, config.GetDefaultConfigPath()); err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return 1
		}
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return 1
	}

	log := logger.New(cfg.Verbose)
	log.SetOutput(stdout, stderr)
	defer log.Close()

	if !cfg.Verbose && cfg.LogDir != "" {
		logFile := logger.FileLogName(cfg.LogDir, time.Now())
		if err := log.SetFileLog(logFile); err != nil {
			log.Warn("Failed to setup file logging: %v", err)
		} else {
			log.Debug("Logging to file: %s", logFile)
		}
	}

	if configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		return 1
	}

	sh := shutdown.New(context.Background())
	sh.OnSignal(func(sig os.Signal) {
		log.Warn("Received %s, stopping...", sig)
	})
	sh.Listen()
	defer sh.Stop()

	if err := run(sh.Context(), cfg, log, stdout); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger, out io.Writer) error {
	codec, err := tagcodec.New(cfg.Codec)
	if err != nil {
		return err
	}

	ollama := llm.NewOllama(cfg.OllamaURL, cfg.Model)
	var client llm.Client = ollama
	if !cfg.Verbose && isTerminal(out) {
		client = waitingClient{Client: ollama, out: out, label: "Waiting for " + ollama.Model()}
	}

	deps := pipeline.Deps{
		Codec:  codec,
		Client: client,
		Log:    log,
		Out:    out,
	}

	log.Info("Music Library Agent v%s", version)
	log.Info("%s", strings.Repeat("=", 62))
	log.Debug("Mode: %s, codec: %s, model: %s", cfg.Mode, codec.Name(), ollama.Model())

	switch cfg.Mode {
	case config.ModeSuggest:
		log.Info("Connecting to Ollama (%s)...", cfg.OllamaURL)
		_, _, err := pipeline.Suggest(ctx, deps, cfg.FilePath, cfg.Format())
		return err

	case config.ModeApply:
		_, err := pipeline.Apply(ctx, deps, pipeline.ApplyOptions{
			SuggestionsFile: cfg.SuggestionsFile,
			Source:          cfg.FilePath,
			Selection:       cfg.Selection(),
		})
		return err

	default:
		log.Info("Connecting to Ollama (%s)...", cfg.OllamaURL)
		_, err := pipeline.Analyze(ctx, deps, cfg.FilePath)
		return err
	}
}

// waitingClient shows a progress indicator while the model answers.
type waitingClient struct {
	llm.Client
	out   io.Writer
	label string
}

func (c waitingClient) Generate(ctx context.Context, prompt string) (string, error) {
	ind := progress.New(c.out, c.label, 0)
	ind.Start()
	defer ind.Stop()
	return c.Client.Generate(ctx, prompt)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
