package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/puzzlelog/internal/paths"
)

// configFile is the shape of config.yaml written by "init --force".
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	Sync    struct {
		Threshold int `yaml:"threshold"`
	} `yaml:"sync"`
	Heatmap struct {
		Thresholds []int `yaml:"thresholds,flow"`
	} `yaml:"heatmap"`
	Guess struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"guess"`
	Target struct {
		Strategy string `yaml:"strategy"`
	} `yaml:"target"`
	Player struct {
		Name string `yaml:"name"`
	} `yaml:"player"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and database",
		Long: `Create the configuration directory and config.yaml if missing, then create
the database in the data directory. With --force, config.yaml is rewritten
from the effective settings, pinning the resolved data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return err
			}
			dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.DataDir)
			if err != nil {
				return err
			}
			if force {
				if err := writeConfig(filepath.Join(configDir, configFileExt), a.cfg, dataDir); err != nil {
					return err
				}
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			if err := backend.Detach(); err != nil {
				return err
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"config": configDir, "data": dataDir})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "puzzlelog initialized")
			fmt.Fprintln(out, "  config:", configDir)
			fmt.Fprintln(out, "  data:  ", dataDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "rewrite config.yaml from the effective settings")
	return cmd
}

// writeConfig marshals s to path with yaml.v3.
func writeConfig(path string, s settings, dataDir string) error {
	var cfg configFile
	cfg.Backend = s.Backend
	cfg.DataDir = dataDir
	cfg.Sync.Threshold = s.SyncThreshold
	cfg.Heatmap.Thresholds = s.Heatmap[:]
	cfg.Guess.Min = s.Guess.Min
	cfg.Guess.Max = s.Guess.Max
	cfg.Target.Strategy = s.TargetStrategy
	cfg.Player.Name = s.PlayerName
	cfg.Log.Level = s.LogLevel.String()
	cfg.Metrics.Textfile = s.MetricsTextfile

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
