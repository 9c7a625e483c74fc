// Package cli provides command-line interface configuration and flag parsing functionality.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tkarls/verisite/internal/logging"
)

// DefaultAPIBaseURL is used when neither a flag nor a config file sets one.
const DefaultAPIBaseURL = "http://localhost:8080"

// Config holds all command-line configuration options for the application.
type Config struct {
	APIBaseURL  string
	DataPath    string
	ConfigPath  string
	LogLevel    logging.LogLevel
	LogLevelSet bool
	ShowHelp    bool
	ShowVersion bool
	Reset       bool
	Print       bool
	Submit      bool
	ResultID    string
	ProgressID  string
}

// FileConfig is the optional YAML configuration file.
type FileConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	DataFile   string `yaml:"data_file"`
	LogLevel   string `yaml:"log_level"`
}

// ParseFlags parses command-line arguments manually to support GNU-style long flags
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{
		LogLevel: logging.LogLevelError,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			cfg.ShowHelp = true
			return cfg, nil

		case arg == "-v" || arg == "--version":
			cfg.ShowVersion = true
			return cfg, nil

		case arg == "-u" || arg == "--api-url":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			if !strings.HasPrefix(args[i], "http://") && !strings.HasPrefix(args[i], "https://") {
				return nil, fmt.Errorf("invalid api-url: %s (must start with http:// or https://)", args[i])
			}
			cfg.APIBaseURL = args[i]

		case arg == "--data-file":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			cfg.DataPath = args[i]

		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			cfg.ConfigPath = args[i]

		case arg == "-l" || arg == "--log-level":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			level, err := logging.ParseLogLevel(args[i])
			if err != nil {
				return nil, err
			}
			cfg.LogLevel = level
			cfg.LogLevelSet = true

		case arg == "-r" || arg == "--result":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			cfg.ResultID = args[i]

		case arg == "--progress":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			cfg.ProgressID = args[i]

		case arg == "-s" || arg == "--submit":
			cfg.Submit = true

		case arg == "--reset":
			cfg.Reset = true

		case arg == "--print":
			cfg.Print = true

		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag: %s", arg)

		default:
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	return cfg, nil
}

// LoadFile reads the YAML configuration file at path. A missing file is not
// an error unless explicit is set (the user named the path themselves).
func LoadFile(path string, explicit bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &fileCfg, nil
}

// Merge fills unset Config fields from the file config, then from defaults.
// Flags win over the file, the file wins over defaults.
func (c *Config) Merge(fileCfg *FileConfig) error {
	if c.APIBaseURL == "" && fileCfg.APIBaseURL != "" {
		c.APIBaseURL = fileCfg.APIBaseURL
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}

	if c.DataPath == "" && fileCfg.DataFile != "" {
		c.DataPath = fileCfg.DataFile
	}

	if !c.LogLevelSet && fileCfg.LogLevel != "" {
		level, err := logging.ParseLogLevel(fileCfg.LogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = level
	}

	return nil
}

// PrintUsage outputs the usage information and command-line options to the writer.
func PrintUsage(w io.Writer, version string) {
	_, _ = fmt.Fprintf(w, `verisite %s

Pick a verification site and inspect submission results from your terminal.

USAGE:
    verisite [OPTIONS]

MODES:
    Picker Mode (default):        Interactive site picker. Fetches the location list
                                  from the backend and remembers your selection.

    Print Mode (--print):         Fetches once and prints the picker state without
                                  entering the interactive UI. Suitable for pipes.

SUBMISSION OPTIONS:
    -s, --submit                  Generate a new submission id for the selected site
    -r, --result ID               Fetch and display the verification result for a submission
    --progress ID                 Fetch and display the progress of a submission

CONFIGURATION OPTIONS:
    -u, --api-url URL             Backend API base URL (default: %s)
    -c, --config PATH             Path to the YAML configuration file
    --data-file PATH              Path to the settings database

OTHER OPTIONS:
    --reset                       Clear the stored selection and exit
    --print                       Print the picker state without the interactive UI
    -l, --log-level LEVEL         Set log level (debug, info, warning, error; default: error)
    -h, --help                    Show this help message
    -v, --version                 Show version information
`, version, DefaultAPIBaseURL)
}
