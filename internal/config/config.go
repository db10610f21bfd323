package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/keynav/internal/app"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	File    File
	Logging Logging
	Flags   map[string]string
	Args    []string

	// ListKeys asks for the key bindings to be printed instead of running.
	ListKeys bool
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix  = "KEYNAV"
	envBackend = "KEYNAV_BACKEND"
	envTrace   = "KEYNAV_TRACE"
	envLogFile = "KEYNAV_LOG_FILE"
	envConfig  = "KEYNAV_CONFIG"
	envDisplay = "DISPLAY"
)

// Load parses configuration from CLI arguments, environment variables and
// the config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("keynav", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", envOrDefault(env, envConfig, ""), "path to the YAML config file")
	backendName := fs.String("backend", envOrDefault(env, envBackend, defaultBackend(env)), "backend to run (x11 or preview)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	maxRecursion := fs.Int("max-recursion", -1, "override grid.max_recursion")
	previewWidth := fs.Int("preview-width", 0, "preview grid width in cells (0 uses terminal width)")
	previewHeight := fs.Int("preview-height", 0, "preview grid height in rows (0 uses terminal height)")
	listKeys := fs.Bool("list-keys", false, "print the key bindings and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *previewWidth < 0 {
		return Config{}, fmt.Errorf("preview-width must be >= 0 (got %d)", *previewWidth)
	}
	if *previewHeight < 0 {
		return Config{}, fmt.Errorf("preview-height must be >= 0 (got %d)", *previewHeight)
	}

	file, used, err := readFile(*configPath, env)
	if err != nil {
		return Config{}, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["max-recursion"] {
		file.Grid.MaxRecursion = *maxRecursion
	}

	keymap, err := Keymap(file.Keys)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Backend:           *backendName,
			Engine:            file.Settings(),
			Keymap:            keymap,
			ClickPressRelease: file.Timing.ClickPressRelease,
			DoubleClickGap:    file.Timing.DoubleClickGap,
			OverlayAlpha:      file.Overlay.Alpha,
			PreviewWidth:      *previewWidth,
			PreviewHeight:     *previewHeight,
		},
		File: file,
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":        used,
			"backend":       *backendName,
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
			"maxRecursion":  strconv.Itoa(file.Grid.MaxRecursion),
			"previewWidth":  strconv.Itoa(*previewWidth),
			"previewHeight": strconv.Itoa(*previewHeight),
		},
		Args:     append([]string(nil), args...),
		ListKeys: *listKeys,
	}

	return cfg, nil
}

func defaultBackend(env map[string]string) string {
	if strings.TrimSpace(env[envDisplay]) != "" {
		return "x11"
	}
	return "preview"
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}
