// SPDX-License-Identifier: MIT

package config

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/impute"
)

// UnresponsiveOptions returns the unresponsive flag options of the profile.
func (p Profile) UnresponsiveOptions(columns ...string) flag.UnresponsiveOptions {
	o := flag.DefaultUnresponsiveOptions()
	o.Columns = columns
	o.Threshold = p.Flags.Unresponsive.Threshold

	return o
}

// StdRangeOptions returns pooled-mode std options; set Over and Features
// on the result for cluster mode.
func (p Profile) StdRangeOptions(logger *zap.Logger) flag.StdRangeOptions {
	o := flag.DefaultStdRangeOptions()
	o.Threshold = []float64{p.Flags.Std.Threshold}
	o.R2Threshold = p.Flags.Std.R2Threshold
	o.MinCorrelatedAssets = p.Flags.Std.MinCorrelatedAssets
	o.TrackMemory = p.Flags.Std.TrackMemory
	o.Logger = logger

	return o
}

// BinOptions returns bin filter options for the given covariate and value columns.
func (p Profile) BinOptions(binColumn, valueColumn string) flag.BinOptions {
	c := p.Flags.Bin
	o := flag.DefaultBinOptions(binColumn, valueColumn, c.Width)
	o.Threshold = c.Threshold
	o.Center = flag.Center(c.Center)
	o.ThresholdType = flag.ThresholdType(c.ThresholdType)
	o.Direction = flag.Direction(c.Direction)

	return o
}

// ClusterOptions returns cluster-distance flag options for the column pair.
func (p Profile) ClusterOptions(column1, column2 string, logger *zap.Logger) flag.ClusterOptions {
	o := flag.DefaultClusterOptions(column1, column2)
	o.Clusters = p.Flags.Cluster.Clusters
	o.DistThreshold = p.Flags.Cluster.DistThreshold
	o.Seed = p.Flags.Cluster.Seed
	o.Logger = logger

	return o
}

// ImputeOptions returns the imputer setters of the profile. The profile
// must have passed Validate.
func (p Profile) ImputeOptions(logger *zap.Logger) ([]impute.Option, error) {
	c := p.Impute
	mode, err := impute.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	opts := []impute.Option{
		impute.WithR2Threshold(c.R2Threshold),
		impute.WithMethod(c.Method),
		impute.WithDegree(c.Degree),
		impute.WithMode(mode),
		impute.WithLogger(logger),
	}
	if c.Workers > 0 {
		opts = append(opts, impute.WithWorkers(c.Workers))
	}

	return opts, nil
}

// Logger builds the zap logger described by the logging section.
func (l LoggingConfig) Logger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = level

	return cfg.Build()
}
