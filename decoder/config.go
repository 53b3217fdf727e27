package decoder

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML decoder configuration. Keys absent from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("decoder: read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoder: parse config: %w", err)
	}

	return cfg, nil
}

// validate checks every value of cfg for a skeleton with nKeypoints joints
// and nChannels edges.
func (cfg Config) validate(nKeypoints, nChannels int) error {
	thresholds := []struct {
		name string
		v    float64
	}{
		{"keypoint_threshold", cfg.KeypointThreshold},
		{"keypoint_threshold_rel", cfg.KeypointThresholdRel},
		{"seed_threshold", cfg.SeedThreshold},
		{"caf_threshold", cfg.CAFThreshold},
	}
	for _, th := range thresholds {
		if th.v < 0 || math.IsNaN(th.v) || math.IsInf(th.v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrBadThreshold, th.name, th.v)
		}
	}
	// negative disables regrowth, only NaN and infinities are invalid
	if math.IsNaN(cfg.Completion.CAFThreshold) || math.IsInf(cfg.Completion.CAFThreshold, 0) {
		return fmt.Errorf("%w: completion.caf_threshold=%v", ErrBadThreshold, cfg.Completion.CAFThreshold)
	}

	switch cfg.ConnectionMethod {
	case Blend, Max:
	default:
		return fmt.Errorf("%w: got %q", ErrBadConnectionMethod, cfg.ConnectionMethod)
	}

	if cfg.ConfidenceScales != nil {
		if len(cfg.ConfidenceScales) != nChannels {
			return fmt.Errorf("%w: %d scales for %d edges", ErrConfidenceScales, len(cfg.ConfidenceScales), nChannels)
		}
		for i, s := range cfg.ConfidenceScales {
			if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
				return fmt.Errorf("%w: scale %d=%v", ErrConfidenceScales, i, s)
			}
		}
	}

	if cfg.ScoreWeights != nil {
		if len(cfg.ScoreWeights) != nKeypoints {
			return fmt.Errorf("%w: %d weights for %d keypoints", ErrScoreWeights, len(cfg.ScoreWeights), nKeypoints)
		}
		for i, w := range cfg.ScoreWeights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: weight %d=%v", ErrScoreWeights, i, w)
			}
		}
	}

	if !(cfg.Occupancy.Reduction > 0) || cfg.Occupancy.MinScale < 0 || math.IsNaN(cfg.Occupancy.MinScale) {
		return fmt.Errorf("%w: reduction=%v min_scale=%v", ErrBadOccupancy, cfg.Occupancy.Reduction, cfg.Occupancy.MinScale)
	}

	return nil
}

// normalize validates cfg and resolves interactions between settings:
//
//  1. Completion relaxes the relative keypoint threshold to zero, and the
//     absolute one too unless IndependentKeypoints is set.
//  2. A seed threshold below the keypoint threshold lowers the keypoint
//     threshold to the seed threshold, with a warning.
func (cfg Config) normalize(nKeypoints, nChannels int, log *slog.Logger) (Config, error) {
	if err := cfg.validate(nKeypoints, nChannels); err != nil {
		return Config{}, err
	}
	cfg.ConfidenceScales = append([]float64(nil), cfg.ConfidenceScales...)
	if len(cfg.ConfidenceScales) == 0 {
		cfg.ConfidenceScales = nil
	}
	cfg.ScoreWeights = append([]float64(nil), cfg.ScoreWeights...)
	if len(cfg.ScoreWeights) == 0 {
		cfg.ScoreWeights = nil
	}

	if cfg.Completion.Enabled {
		if !cfg.Completion.IndependentKeypoints {
			cfg.KeypointThreshold = 0
		}
		cfg.KeypointThresholdRel = 0
	}

	if cfg.SeedThreshold < cfg.KeypointThreshold {
		log.Warn("decoder: consistency: decreasing keypoint threshold to seed threshold",
			"keypoint_threshold", cfg.KeypointThreshold,
			"seed_threshold", cfg.SeedThreshold)
		cfg.KeypointThreshold = cfg.SeedThreshold
	}

	return cfg, nil
}
