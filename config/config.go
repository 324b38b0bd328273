// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/impute"
)

// EnvPrefix prefixes every environment override (PLANTQC_IMPUTE_MODE, ...).
const EnvPrefix = "PLANTQC"

// Profile is a complete run configuration.
type Profile struct {
	Flags   FlagsConfig   `mapstructure:"flags"`
	Impute  ImputeConfig  `mapstructure:"impute"`
	Runtime Runtime       `mapstructure:"runtime"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// FlagsConfig holds the tunables of the flag package.
type FlagsConfig struct {
	Unresponsive UnresponsiveConfig `mapstructure:"unresponsive"`
	Std          StdConfig          `mapstructure:"std"`
	Bin          BinConfig          `mapstructure:"bin"`
	Cluster      ClusterConfig      `mapstructure:"cluster"`
}

// UnresponsiveConfig maps to flag.UnresponsiveOptions.
type UnresponsiveConfig struct {
	Threshold int `mapstructure:"threshold" validate:"min=1"`
}

// StdConfig maps to flag.StdRangeOptions.
type StdConfig struct {
	Threshold           float64 `mapstructure:"threshold" validate:"gte=0"`
	R2Threshold         float64 `mapstructure:"r2_threshold" validate:"gte=-1,lte=1"`
	MinCorrelatedAssets int     `mapstructure:"min_correlated_assets" validate:"gte=0"`
	TrackMemory         bool    `mapstructure:"track_memory"`
}

// BinConfig maps to flag.BinOptions.
type BinConfig struct {
	Width         float64 `mapstructure:"width" validate:"gt=0"`
	Threshold     float64 `mapstructure:"threshold" validate:"gte=0"`
	Center        string  `mapstructure:"center" validate:"oneof=mean median"`
	ThresholdType string  `mapstructure:"threshold_type" validate:"oneof=std scalar mad"`
	Direction     string  `mapstructure:"direction" validate:"oneof=all above below"`
}

// ClusterConfig maps to flag.ClusterOptions.
type ClusterConfig struct {
	Clusters      int     `mapstructure:"clusters" validate:"min=1"`
	DistThreshold float64 `mapstructure:"dist_threshold" validate:"gt=0"`
	Seed          int64   `mapstructure:"seed"`
}

// ImputeConfig maps to impute options.
type ImputeConfig struct {
	R2Threshold float64 `mapstructure:"r2_threshold" validate:"gte=-1,lte=1"`
	Method      string  `mapstructure:"method" validate:"oneof=linear polynomial"`
	Degree      int     `mapstructure:"degree" validate:"gte=0,lte=8"`
	Mode        string  `mapstructure:"mode" validate:"oneof=sequential process-pool distributed"`
	Workers     int     `mapstructure:"workers" validate:"gte=0"` // 0 ⇒ GOMAXPROCS
}

// LoggingConfig selects the zap logger built by Logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// Default returns the profile Load starts from.
func Default() Profile {
	return Profile{
		Flags: FlagsConfig{
			Unresponsive: UnresponsiveConfig{Threshold: flag.DefaultUnresponsiveThreshold},
			Std: StdConfig{
				Threshold:           flag.DefaultStdThreshold,
				R2Threshold:         flag.DefaultR2Threshold,
				MinCorrelatedAssets: flag.DefaultMinCorrelatedAssets,
			},
			Bin: BinConfig{
				Width:         1,
				Threshold:     flag.DefaultBinThreshold,
				Center:        string(flag.CenterMean),
				ThresholdType: string(flag.ThresholdStd),
				Direction:     string(flag.DirectionAll),
			},
			Cluster: ClusterConfig{
				Clusters:      flag.DefaultClusters,
				DistThreshold: flag.DefaultDistThreshold,
			},
		},
		Impute: ImputeConfig{
			R2Threshold: impute.DefaultR2Threshold,
			Method:      impute.DefaultMethod,
			Degree:      impute.DefaultDegree,
			Mode:        impute.Sequential.String(),
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds a Profile from the defaults, the YAML files in paths (merged
// in order, missing files skipped) and PLANTQC_* environment variables, in
// increasing priority. A nil logger discards diagnostics.
//
// Errors:
//   - ErrLoad when a present file cannot be parsed.
//   - ErrInvalidProfile when the merged profile fails validation.
func Load(logger *zap.Logger, paths ...string) (*Profile, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	setupViper(v)
	setDefaults(v, Default())

	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Debug("profile not found, skipping", zap.String("path", path))
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
		}
		loaded = append(loaded, path)
	}
	if len(loaded) == 0 {
		logger.Debug("no profile files, using defaults and environment")
	} else {
		logger.Info("profile loaded", zap.Strings("files", loaded))
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks every field constraint of p.
func (p Profile) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	return nil
}

func setupViper(v *viper.Viper) {
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Profile) {
	v.SetDefault("flags.unresponsive.threshold", d.Flags.Unresponsive.Threshold)

	v.SetDefault("flags.std.threshold", d.Flags.Std.Threshold)
	v.SetDefault("flags.std.r2_threshold", d.Flags.Std.R2Threshold)
	v.SetDefault("flags.std.min_correlated_assets", d.Flags.Std.MinCorrelatedAssets)
	v.SetDefault("flags.std.track_memory", d.Flags.Std.TrackMemory)

	v.SetDefault("flags.bin.width", d.Flags.Bin.Width)
	v.SetDefault("flags.bin.threshold", d.Flags.Bin.Threshold)
	v.SetDefault("flags.bin.center", d.Flags.Bin.Center)
	v.SetDefault("flags.bin.threshold_type", d.Flags.Bin.ThresholdType)
	v.SetDefault("flags.bin.direction", d.Flags.Bin.Direction)

	v.SetDefault("flags.cluster.clusters", d.Flags.Cluster.Clusters)
	v.SetDefault("flags.cluster.dist_threshold", d.Flags.Cluster.DistThreshold)
	v.SetDefault("flags.cluster.seed", d.Flags.Cluster.Seed)

	v.SetDefault("impute.r2_threshold", d.Impute.R2Threshold)
	v.SetDefault("impute.method", d.Impute.Method)
	v.SetDefault("impute.degree", d.Impute.Degree)
	v.SetDefault("impute.mode", d.Impute.Mode)
	v.SetDefault("impute.workers", d.Impute.Workers)

	v.SetDefault("runtime.threads", d.Runtime.Threads)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.development", d.Logging.Development)
}
