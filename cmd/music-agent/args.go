package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"musicagent/internal/config"
	"musicagent/internal/errs"
)

// action is what main should do after parsing the command line.
type action int

const (
	actionRun action = iota
	actionHelp
	actionInitConfig
)

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > environment (.env included) > config file > defaults
func parseArgs(args []string) (config.Config, string, action, error) {
	if len(args) == 0 {
		return config.Config{}, "", actionHelp, fmt.Errorf("%w: no audio file given", errs.ErrConfig)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return config.Config{}, "", actionHelp, nil
		}
		if arg == "--init-config" {
			return config.Config{}, "", actionInitConfig, nil
		}
	}

	args = splitAssignments(args)

	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, "", actionRun, fmt.Errorf("%w: --config requires a path argument", errs.ErrConfig)
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", actionRun, fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	if err := config.LoadDotEnv(""); err != nil {
		return config.Config{}, "", actionRun, err
	}
	cfg.ApplyEnv()

	var suggest bool
	var files []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%w: %s requires an argument", errs.ErrConfig, arg)
			}
			i++
			return args[i], nil
		}

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--suggest", "-s":
			suggest = true

		case "--apply", "-a":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.SuggestionsFile = v

		case "--model", "-m":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.Model = v

		case "--ollama-url", "-o":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.OllamaURL = v

		case "--fields":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.Fields = splitList(v)

		case "--min-confidence":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.MinConfidence = v

		case "--codec":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.Codec = v

		case "--format", "-f":
			v, err := value()
			if err != nil {
				return config.Config{}, "", actionRun, err
			}
			cfg.SuggestionsFormat = v

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return config.Config{}, "", actionRun, fmt.Errorf("%w: unknown flag: %s", errs.ErrConfig, arg)
			}
			files = append(files, arg)
		}
	}

	if suggest && cfg.SuggestionsFile != "" {
		return config.Config{}, "", actionRun, fmt.Errorf("%w: --suggest and --apply cannot be used together", errs.ErrConfig)
	}
	if len(files) > 1 {
		return config.Config{}, "", actionRun, fmt.Errorf("%w: only one audio file can be processed at a time, got %d", errs.ErrConfig, len(files))
	}
	if len(files) == 1 {
		cfg.FilePath = files[0]
	}

	switch {
	case suggest:
		cfg.Mode = config.ModeSuggest
	case cfg.SuggestionsFile != "":
		cfg.Mode = config.ModeApply
	default:
		cfg.Mode = config.ModeAnalyze
	}

	return cfg, configPath, actionRun, nil
}

// splitAssignments turns "--flag=value" into "--flag", "value".
func splitAssignments(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			if name, value, ok := strings.Cut(arg, "="); ok {
				out = append(out, name, value)
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// initConfigFile creates a new config file with default values
func initConfigFile(w io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "Config file already exists at: %s\n", path)
		fmt.Fprintln(w, "Delete it first if you want to recreate it.")
		return nil
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(w, "Created default config file at: %s\n", path)
	fmt.Fprintln(w, "\nYou can now edit this file to customize your settings.")
	fmt.Fprintln(w, "Available options:")
	fmt.Fprintln(w, "  model: Ollama model name (default: llama3.2)")
	fmt.Fprintln(w, "  ollama_url: Ollama server URL (default: http://localhost:11434)")
	fmt.Fprintln(w, "  codec: taglib, native")
	fmt.Fprintln(w, "  suggestions_format: json, yaml")
	fmt.Fprintln(w, "  min_confidence: Low, Medium, High (used by --apply)")
	fmt.Fprintln(w, "  verbose: true/false (enable detailed logging)")
	fmt.Fprintln(w, "  log_dir: directory for log files")

	return nil
}

// printUsage displays the help message
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "music-agent - AI-powered music metadata analyzer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: music-agent [options] <FILE>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "  (default)                  Analyze the file's metadata")
	fmt.Fprintln(w, "  -s, --suggest              Generate suggestions and save them for review")
	fmt.Fprintln(w, "  -a, --apply <file>         Apply a suggestions file to a new copy of the audio file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -m, --model <name>         Model to use (default: llama3.2)")
	fmt.Fprintln(w, "  -o, --ollama-url <url>     Ollama server URL (default: http://localhost:11434)")
	fmt.Fprintln(w, "      --fields <a,b,...>     With --apply, only apply these fields")
	fmt.Fprintln(w, "      --min-confidence <lvl> With --apply, only apply Low, Medium or High and above")
	fmt.Fprintln(w, "      --codec <name>         Tag codec: taglib, native (default: taglib)")
	fmt.Fprintln(w, "  -f, --format <format>      Suggestions file format: json, yaml (default: json)")
	fmt.Fprintln(w, "  -c, --config <path>        Path to config file")
	fmt.Fprintln(w, "  -v, --verbose              Show detailed output")
	fmt.Fprintln(w, "  -h, --help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  --init-config              Create a default config file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config file locations (checked in order):")
	fmt.Fprintln(w, "  ./music-agent.yaml")
	fmt.Fprintln(w, "  ~/.config/music-agent/config.yaml")
	fmt.Fprintln(w, "  ~/.music-agent.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (also read from ./.env):")
	fmt.Fprintf(w, "  %s, %s, %s\n", config.EnvModel, config.EnvOllamaURL, config.EnvCodec)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Files:")
	fmt.Fprintln(w, "  Suggestions and updated copies are written next to the source:")
	fmt.Fprintln(w, "    music/originals/song.mp3 -> music/suggestions/, music/updated/")
	fmt.Fprintln(w, "  The original file is never modified.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Ask the model to review a file")
	fmt.Fprintln(w, "  music-agent public/originals/song.mp3")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Save suggestions for review")
	fmt.Fprintln(w, "  music-agent --suggest public/originals/song.mp3")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Apply only the confident title and year edits")
	fmt.Fprintln(w, "  music-agent --apply public/suggestions/song.suggestions.json --fields title,year --min-confidence High")
}
