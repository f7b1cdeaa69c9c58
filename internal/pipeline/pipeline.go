// Package pipeline sequences the analyze, suggest and apply runs.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"musicagent/internal/agent"
	"musicagent/internal/errs"
	"musicagent/internal/llm"
	"musicagent/internal/logger"
	"musicagent/internal/metadata"
	"musicagent/internal/paths"
	"musicagent/internal/suggestion"
	"musicagent/internal/tagcodec"
	"musicagent/pkg/utils"
)

// Deps are the collaborators of a run.
type Deps struct {
	Codec  tagcodec.Codec
	Client llm.Client
	Log    *logger.Logger
	Out    io.Writer
}

// ApplyOptions configures an apply run.
type ApplyOptions struct {
	SuggestionsFile string
	// Source overrides the file_path recorded in the suggestions file.
	Source    string
	Selection suggestion.Selection
}

// Analyze reads the tags of file and prints the model's assessment.
func Analyze(ctx context.Context, d Deps, file string) (*agent.AnalysisReport, error) {
	track, err := readTrack(d, file)
	if err != nil {
		return nil, err
	}

	a := agent.New(d.Client)
	d.Log.Info("Analyzing track with %s...", a.ProviderName())

	report, err := a.Analyze(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	report.Render(d.Out)
	return report, nil
}

// Suggest asks the model for edits to file, saves them next to it and prints
// them. It returns the report and the path of the saved suggestions file.
func Suggest(ctx context.Context, d Deps, file string, format suggestion.Format) (*suggestion.Report, string, error) {
	track, err := readTrack(d, file)
	if err != nil {
		return nil, "", err
	}

	a := agent.New(d.Client)
	d.Log.Info("Generating suggestions with %s...", a.ProviderName())

	report, err := a.Suggest(ctx, track)
	if err != nil {
		return nil, "", fmt.Errorf("suggestion failed: %w", err)
	}
	d.Log.Debug("Parsed %d suggestions from %d characters of model output", len(report.Suggestions), len(report.LLMAnalysis))

	path, err := suggestion.Save(report, format)
	if err != nil {
		return nil, "", err
	}

	suggestion.Render(d.Out, report)
	d.Log.Info("Suggestions saved to: %s", path)
	d.Log.Info("Review them, then run with --apply %s", path)

	return report, path, nil
}

// Apply loads a suggestions file, applies the selected edits and writes the
// result to a new copy of the source. It returns the path of the copy. The
// source file is never written.
func Apply(ctx context.Context, d Deps, opts ApplyOptions) (string, error) {
	report, err := suggestion.Load(opts.SuggestionsFile)
	if err != nil {
		return "", err
	}

	source := report.FilePath
	if opts.Source != "" {
		if !utils.SamePath(opts.Source, report.FilePath) {
			d.Log.Warn("Suggestions were generated for %s, applying to %s", report.FilePath, opts.Source)
		}
		source = opts.Source
	}

	selected := report.Select(opts.Selection)
	if skipped := len(report.Suggestions) - len(selected.Suggestions); skipped > 0 {
		d.Log.Info("Skipping %d suggestions outside the selection", skipped)
	}
	if len(selected.Suggestions) == 0 {
		d.Log.Warn("No suggestions selected, the copy keeps the recorded metadata")
	}

	updated := selected.Apply()
	updated.FilePath = source

	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := writeCopy(ctx, d, source, updated)
	if err != nil {
		return "", err
	}

	d.Log.Info("Applied %d suggestions", len(selected.Suggestions))
	d.Log.Info("Updated copy written to: %s", out)
	return out, nil
}

func readTrack(d Deps, file string) (metadata.Track, error) {
	d.Log.Info("Reading metadata from: %s", file)
	track, err := d.Codec.Read(file)
	if err != nil {
		return metadata.Track{}, err
	}
	d.Log.Debug("Read %s with %s codec", file, d.Codec.Name())
	return track, nil
}

// writeCopy copies source to a freshly allocated path and writes track to
// the copy. The copy is removed if anything fails after it was created.
func writeCopy(ctx context.Context, d Deps, source string, track metadata.Track) (_ string, err error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("%w: file not found: %s: %w", errs.ErrFileAccess, source, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: not a file: %s", errs.ErrFileAccess, source)
	}

	dst, err := paths.AllocateOutput(source)
	if err != nil {
		return "", err
	}
	if utils.SamePath(dst, source) {
		return "", fmt.Errorf("%w: output path %s is the source file", errs.ErrFileAccess, dst)
	}

	if err := utils.CopyFile(source, dst); err != nil {
		return "", fmt.Errorf("%w: failed to create output file: %w", errs.ErrFileAccess, err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
				d.Log.Warn("Failed to remove partial copy %s: %v", dst, rmErr)
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.Log.Debug("Writing tags to %s with %s codec", dst, d.Codec.Name())
	if err := d.Codec.Write(dst, track); err != nil {
		return "", err
	}
	return dst, nil
}
