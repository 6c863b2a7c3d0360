package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/glyph/internal/config"
	"github.com/zjrosen/glyph/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "glyph",
	Short:   "Headless core of the glyph visualization editor",
	Long:    `Glyph is the model core of an interactive visualization editor: a primitive registry, a spec exporter and a view lifecycle over a declarative rendering engine.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/glyph/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to .glyph/debug.log")
	rootCmd.PersistentFlags().String("target", "",
		"element identifier views bind to")

	_ = viper.BindPFlag("target", rootCmd.PersistentFlags().Lookup("target"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("target", defaults.Target)
	viper.SetDefault("auto_reparse", defaults.AutoReparse)
	viper.SetDefault("auto_reparse_debounce", defaults.AutoReparseDebounce)
	viper.SetDefault("workspace_db", defaults.WorkspaceDB)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .glyph/config.yaml (current directory)
		// 2. ~/.config/glyph/config.yaml (user config)
		if _, err := os.Stat(".glyph/config.yaml"); err == nil {
			viper.SetConfigFile(".glyph/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "glyph"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - continue with defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Unreadable config is worth surfacing but not fatal
			log.ErrorErr(log.CatConfig, "reading config", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func initLogging() {
	if !debug && os.Getenv("GLYPH_DEBUG") == "" {
		return
	}
	if err := os.MkdirAll(".glyph", 0750); err != nil {
		return
	}
	if _, err := log.Init(filepath.Join(".glyph", "debug.log")); err == nil {
		log.Info(log.CatConfig, "debug logging enabled")
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
