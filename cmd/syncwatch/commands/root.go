package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamed0406/syncwatch/internal/config"
)

const envPrefix = "SYNCWATCH"

//RootCmd is the root command for syncwatch
var RootCmd = &cobra.Command{
	Use:   "syncwatch",
	Short: "Watch node sync status and mail batched alerts",
}

func init() {
	addGlobalFlags(RootCmd)
	RootCmd.AddCommand(runCmd, notifyStoppedCmd, versionCmd)
}

func addGlobalFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String("config", "config.yaml", "path to the YAML configuration file")
	fs.String("log-level", "", "override log_level (debug, info, warn, error)")
	fs.String("log-dir", "", "override log_dir")
	fs.String("http-addr", "", "override http_addr of the status API")
}

// loadConfig reads the YAML file named by --config and layers flag and
// SYNCWATCH_* environment overrides on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return config.Config{}, err
	}

	overridden := false
	if s := v.GetString("log-level"); s != "" {
		cfg.LogLevel = s
		overridden = true
	}
	if s := v.GetString("log-dir"); s != "" {
		cfg.LogDir = s
		overridden = true
	}
	if s := v.GetString("http-addr"); s != "" {
		cfg.HTTPAddr = s
		overridden = true
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}
