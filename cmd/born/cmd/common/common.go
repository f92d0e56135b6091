// Package common implements common born command options and utilities.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/born-ml/cloneable/internal/logging"
	"github.com/born-ml/cloneable/internal/metrics"
)

// SoftwareVersion is the born release.
const SoftwareVersion = "v0.0.1-dev"

const (
	// CfgConfigFile is the flag used to specify the config file. The same
	// file holds the command settings and the model description.
	CfgConfigFile = "config"

	envPrefix = "BORN"
)

// RootFlags has the flags that are common across all commands.
var RootFlags = flag.NewFlagSet("", flag.ContinueOnError)

// InitConfig reads the config file, if one was given, and enables BORN_
// environment overrides, e.g. BORN_LOG_LEVEL for log.level.
func InitConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfgFile := viper.GetString(CfgConfigFile)
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}
	return nil
}

// Init initializes the common environment across all commands. It may be
// called more than once per process; logging keeps its first settings.
func Init() error {
	if err := InitConfig(); err != nil {
		return err
	}
	if err := initLogging(); err != nil && !errors.Is(err, logging.ErrAlreadyInitialized) {
		return err
	}
	return metrics.Register(prometheus.DefaultRegisterer)
}

func init() {
	RootFlags.String(CfgConfigFile, "", "config file (command settings and model description)")
	initLoggingFlags()
	RootFlags.AddFlagSet(loggingFlags)

	_ = viper.BindPFlags(RootFlags)
}
