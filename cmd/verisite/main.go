// Package main provides the command-line interface for verisite.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tkarls/verisite/internal/api"
	"github.com/tkarls/verisite/internal/cli"
	"github.com/tkarls/verisite/internal/logging"
	"github.com/tkarls/verisite/internal/selector"
	"github.com/tkarls/verisite/internal/sites"
	"github.com/tkarls/verisite/internal/storage"
	"github.com/tkarls/verisite/internal/submission"
	"github.com/tkarls/verisite/internal/verify"
)

var Version = "dev"

// Dependencies encapsulates external dependencies for testing
type Dependencies struct {
	GetLocations          func(context.Context, string, logging.LogLevel) ([]sites.Location, error)
	GetVerificationResult func(context.Context, string, string, logging.LogLevel) (*verify.Result, error)
	GetSubmissionProgress func(context.Context, string, string, logging.LogLevel) (*submission.Progress, error)
	OpenSettings          func(string, logging.LogLevel) (storage.Settings, error)
	RunPicker             func(context.Context, selector.Model) error
	Stdout                io.Writer
}

// DefaultDependencies returns production dependencies
func DefaultDependencies() Dependencies {
	return Dependencies{
		GetLocations: func(ctx context.Context, baseURL string, logLevel logging.LogLevel) ([]sites.Location, error) {
			client := api.NewClient(api.WithBaseURL(baseURL), api.WithVersion(Version), api.WithLogLevel(logLevel))
			return client.GetLocations(ctx)
		},
		GetVerificationResult: func(ctx context.Context, baseURL, id string, logLevel logging.LogLevel) (*verify.Result, error) {
			client := api.NewClient(api.WithBaseURL(baseURL), api.WithVersion(Version), api.WithLogLevel(logLevel))
			return client.GetVerificationResult(ctx, id)
		},
		GetSubmissionProgress: func(ctx context.Context, baseURL, id string, logLevel logging.LogLevel) (*submission.Progress, error) {
			client := api.NewClient(api.WithBaseURL(baseURL), api.WithVersion(Version), api.WithLogLevel(logLevel))
			return client.GetSubmissionProgress(ctx, id)
		},
		OpenSettings: func(path string, logLevel logging.LogLevel) (storage.Settings, error) {
			return storage.Open(path, logLevel)
		},
		RunPicker: func(ctx context.Context, model selector.Model) error {
			program := tea.NewProgram(model, tea.WithContext(ctx))
			_, err := program.Run()
			return err
		},
		Stdout: os.Stdout,
	}
}

func main() {
	// Create a context that can be cancelled with SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, os.Args[1:], DefaultDependencies()); err != nil {
		if err == context.Canceled {
			fmt.Fprintln(os.Stderr, "Operation cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context, args []string, deps Dependencies) error {
	config, err := cli.ParseFlags(args)
	if err != nil {
		return err
	}

	if config.ShowHelp {
		cli.PrintUsage(deps.Stdout, Version)
		return nil
	}

	if config.ShowVersion {
		_, _ = fmt.Fprintf(deps.Stdout, "verisite %s\n", Version)
		return nil
	}

	configPath := config.ConfigPath
	explicitConfig := configPath != ""
	if configPath == "" {
		if configDir, dirErr := os.UserConfigDir(); dirErr == nil {
			configPath = filepath.Join(configDir, "verisite", "config.yaml")
		}
	}

	fileConfig := &cli.FileConfig{}
	if configPath != "" {
		fileConfig, err = cli.LoadFile(configPath, explicitConfig)
		if err != nil {
			return err
		}
	}
	if err := config.Merge(fileConfig); err != nil {
		return err
	}

	if config.LogLevel <= logging.LogLevelDebug {
		log.Printf("Config: %+v", config)
	}

	settings := openSettings(config, deps)
	defer func() {
		if settings != nil {
			_ = settings.Close()
		}
	}()

	store := sites.NewStore(settings, config.LogLevel)

	if config.Reset {
		store.Reset()
		_, _ = fmt.Fprintln(deps.Stdout, "Stored selection cleared")
		return nil
	}

	if config.Submit {
		return startSubmission(deps.Stdout, store)
	}

	if config.ResultID != "" {
		return showVerificationResult(ctx, config, deps)
	}

	if config.ProgressID != "" {
		return showSubmissionProgress(ctx, config, deps)
	}

	fetch := func(fetchCtx context.Context) ([]sites.Location, error) {
		return deps.GetLocations(fetchCtx, config.APIBaseURL, config.LogLevel)
	}

	if config.Print {
		return printPickerState(ctx, config, store, fetch, deps.Stdout)
	}

	model := selector.New(store, fetch, config.LogLevel)
	if err := deps.RunPicker(ctx, model); err != nil {
		return fmt.Errorf("picker failed: %w", err)
	}

	printSelection(deps.Stdout, store)
	return nil
}

// openSettings resolves and opens the settings store. Storage being
// unavailable is not fatal: the selection simply will not survive the session.
func openSettings(config *cli.Config, deps Dependencies) storage.Settings {
	dataPath := config.DataPath
	if dataPath == "" {
		var err error
		dataPath, err = storage.DefaultPath()
		if err != nil {
			if config.LogLevel <= logging.LogLevelWarning {
				log.Printf("No settings location available: %v", err)
			}
			return nil
		}
	}

	settings, err := deps.OpenSettings(dataPath, config.LogLevel)
	if err != nil {
		if config.LogLevel <= logging.LogLevelWarning {
			log.Printf("Failed to open settings store: %v", err)
		}
		return nil
	}
	return settings
}

// startSubmission generates a client-side submission id for the selected
// site. The printed id is what later --result and --progress calls take.
func startSubmission(stdout io.Writer, store *sites.Store) error {
	subs := submission.NewStore()
	subs.SetSubmissionID(submission.NewID())

	printSelection(stdout, store)
	_, _ = fmt.Fprintf(stdout, "Submission id: %s\n", subs.SubmissionID())
	return nil
}

func showVerificationResult(ctx context.Context, config *cli.Config, deps Dependencies) error {
	result, err := deps.GetVerificationResult(ctx, config.APIBaseURL, config.ResultID, config.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to fetch verification result: %w", err)
	}
	_, _ = fmt.Fprintln(deps.Stdout, verify.Render(*result))
	return nil
}

func showSubmissionProgress(ctx context.Context, config *cli.Config, deps Dependencies) error {
	progress, err := deps.GetSubmissionProgress(ctx, config.APIBaseURL, config.ProgressID, config.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to fetch submission progress: %w", err)
	}

	subs := submission.NewStore()
	subs.SetSubmissionID(config.ProgressID)
	subs.SetProgress(progress)

	_, _ = fmt.Fprintf(deps.Stdout, "Submission %s: %s (%d%%)\n", subs.SubmissionID(), progress.Stage, progress.Percent)
	return nil
}

// printPickerState performs one picker mount without the interactive UI:
// fetch once, populate the store with first-wins auto-select, print the
// resulting state. Fetch failures are swallowed the same way the interactive
// picker swallows them.
func printPickerState(ctx context.Context, config *cli.Config, store *sites.Store, fetch selector.Fetcher, stdout io.Writer) error {
	locations, err := fetch(ctx)
	if err != nil {
		if config.LogLevel <= logging.LogLevelDebug {
			log.Printf("Location fetch failed (ignored): %v", err)
		}
	} else {
		store.SetLocations(locations)
		if len(locations) > 0 && store.SelectedID() == nil {
			id := locations[0].ID
			store.SetSelectedID(&id)
		}
	}

	known := store.Locations()
	if len(known) > 1 {
		selected := store.SelectedID()
		for _, loc := range known {
			marker := " "
			if selected != nil && loc.ID == *selected {
				marker = "*"
			}
			_, _ = fmt.Fprintf(stdout, "%s %s (id %d)\n", marker, loc.Name, loc.ID)
		}
	}

	printSelection(stdout, store)
	return nil
}

func printSelection(stdout io.Writer, store *sites.Store) {
	selected := store.SelectedID()
	if selected == nil {
		_, _ = fmt.Fprintln(stdout, "No site selected")
		return
	}
	for _, loc := range store.Locations() {
		if loc.ID == *selected {
			_, _ = fmt.Fprintf(stdout, "Selected site: %s (id %d)\n", loc.Name, loc.ID)
			return
		}
	}
	_, _ = fmt.Fprintf(stdout, "Selected site: id %d\n", *selected)
}
