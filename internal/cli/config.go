// Config loading for the puzzlelog CLI.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/puzzlelog/internal/activity"
	"github.com/mesh-intelligence/puzzlelog/internal/puzzle"
	"github.com/mesh-intelligence/puzzlelog/internal/syncgate"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "PUZZLELOG"

	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeySyncThreshold     = "sync.threshold"
	cfgKeyHeatmapThresholds = "heatmap.thresholds"
	cfgKeyGuessMin          = "guess.min"
	cfgKeyGuessMax          = "guess.max"
	cfgKeyTargetStrategy    = "target.strategy"
	cfgKeyPlayerName        = "player.name"
	cfgKeyLogLevel          = "log.level"
	cfgKeyMetricsTextfile   = "metrics.textfile"
)

// envKeys may be overridden by PUZZLELOG_* variables. data_dir is absent:
// PUZZLELOG_DATA_DIR ranks below config.yaml and is handled by paths.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeySyncThreshold,
	cfgKeyGuessMin,
	cfgKeyGuessMax,
	cfgKeyTargetStrategy,
	cfgKeyPlayerName,
	cfgKeyLogLevel,
	cfgKeyMetricsTextfile,
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# puzzlelog configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridden by --data-dir)
# data_dir:

sync:
  # Unsynced records needed before a batch sync is due
  threshold: 5

heatmap:
  # Score boundaries between heatmap levels 1|2|3|4
  thresholds: [50, 100, 150]

guess:
  min: 1
  max: 10

target:
  # daily: same number for everyone on a given date; random: new draw per round
  strategy: daily

player:
  name: Guest

log:
  level: info

metrics:
  # Node exporter textfile path; empty disables
  textfile: ""
`

// settings is the validated view of config.yaml.
type settings struct {
	Backend         string
	DataDir         string
	SyncThreshold   int
	Heatmap         activity.Thresholds
	Guess           puzzle.Range
	TargetStrategy  string
	PlayerName      string
	LogLevel        slog.Level
	MetricsTextfile string
}

// errConfig marks configuration problems as user errors.
var errConfig = errors.New("invalid configuration")

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeySyncThreshold, syncgate.DefaultThreshold)
	v.SetDefault(cfgKeyHeatmapThresholds, activity.DefaultThresholds[:])
	v.SetDefault(cfgKeyGuessMin, puzzle.DefaultMin)
	v.SetDefault(cfgKeyGuessMax, puzzle.DefaultMax)
	v.SetDefault(cfgKeyTargetStrategy, puzzle.StrategyDaily)
	v.SetDefault(cfgKeyPlayerName, types.GuestName)
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("%w: read config: %w", errConfig, err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// decodeSettings validates the loaded configuration.
func decodeSettings(v *viper.Viper) (settings, error) {
	s := settings{
		Backend:         v.GetString(cfgKeyBackend),
		DataDir:         v.GetString(cfgKeyDataDir),
		SyncThreshold:   v.GetInt(cfgKeySyncThreshold),
		Guess:           puzzle.Range{Min: v.GetInt(cfgKeyGuessMin), Max: v.GetInt(cfgKeyGuessMax)},
		TargetStrategy:  v.GetString(cfgKeyTargetStrategy),
		PlayerName:      strings.TrimSpace(v.GetString(cfgKeyPlayerName)),
		MetricsTextfile: v.GetString(cfgKeyMetricsTextfile),
	}

	if err := (types.Config{Backend: s.Backend}).Validate(); err != nil {
		return s, fmt.Errorf("%w: %s %q: %w", errConfig, cfgKeyBackend, s.Backend, err)
	}
	if s.SyncThreshold <= 0 {
		return s, fmt.Errorf("%w: %s: %w", errConfig, cfgKeySyncThreshold, types.ErrThresholdInvalid)
	}

	th := v.GetIntSlice(cfgKeyHeatmapThresholds)
	if len(th) != len(s.Heatmap) {
		return s, fmt.Errorf("%w: %s needs %d values, got %v", errConfig, cfgKeyHeatmapThresholds, len(s.Heatmap), th)
	}
	copy(s.Heatmap[:], th)
	if err := s.Heatmap.Validate(); err != nil {
		return s, fmt.Errorf("%w: %w", errConfig, err)
	}

	if err := s.Guess.Validate(); err != nil {
		return s, fmt.Errorf("%w: %w", errConfig, err)
	}
	if _, err := puzzle.New(s.TargetStrategy, s.Guess); err != nil {
		return s, fmt.Errorf("%w: %s: %w", errConfig, cfgKeyTargetStrategy, err)
	}
	if s.PlayerName == "" {
		s.PlayerName = types.GuestName
	}
	if err := s.LogLevel.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return s, fmt.Errorf("%w: %s: %w", errConfig, cfgKeyLogLevel, err)
	}
	return s, nil
}
