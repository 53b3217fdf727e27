package decoder

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/posegraph/field"
)

// Sentinel errors returned by New, LoadConfig and Decode.
var (
	// ErrNilTopology indicates a nil *skeleton.Topology was passed to New.
	ErrNilTopology = errors.New("decoder: topology is nil")

	// ErrBadThreshold indicates a negative or non-finite threshold.
	ErrBadThreshold = errors.New("decoder: threshold must be finite and non-negative")

	// ErrBadConnectionMethod indicates an unknown connection method.
	ErrBadConnectionMethod = errors.New("decoder: connection method must be \"blend\" or \"max\"")

	// ErrScoreWeights indicates score weights whose length differs from the
	// number of keypoints, or a negative weight.
	ErrScoreWeights = errors.New("decoder: score weights must be non-negative, one per keypoint")

	// ErrConfidenceScales indicates confidence scales whose length differs
	// from the number of skeleton edges, or a negative scale.
	ErrConfidenceScales = errors.New("decoder: confidence scales must be non-negative, one per skeleton edge")

	// ErrBadOccupancy indicates a non-positive reduction or negative min scale.
	ErrBadOccupancy = errors.New("decoder: occupancy reduction must be positive and min scale non-negative")

	// ErrMissingCollaborator indicates a nil accumulator, seed extractor or association service.
	ErrMissingCollaborator = errors.New("decoder: accumulator, seed extractor and association service are required")

	// ErrChannelMismatch indicates the association service returned a
	// channel count different from the number of skeleton edges.
	ErrChannelMismatch = errors.New("decoder: association channel count does not match skeleton")
)

// Confidence values that mark joints placed by the completion pass.
const (
	// CompletionCeiling caps joints recovered by the low-threshold regrowth.
	CompletionCeiling = 0.001

	// FloodFillConfidence is assigned to joints copied from a neighbor
	// without any association evidence.
	FloodFillConfidence = 0.00001
)

// ConnectionMethod selects how a directed channel combines nearby associations.
type ConnectionMethod string

const (
	// Blend mixes the two best associations when they agree.
	Blend ConnectionMethod = "blend"
	// Max uses the single best association.
	Max ConnectionMethod = "max"
)

// CompletionConfig controls the completion pass run after the main decode.
type CompletionConfig struct {
	// Enabled turns the completion pass on.
	Enabled bool `yaml:"enabled"`

	// CAFThreshold is the association score floor of the regrowth step.
	// A negative value skips regrowth and only flood-fills.
	CAFThreshold float64 `yaml:"caf_threshold"`

	// IndependentKeypoints keeps the absolute keypoint threshold of the main
	// pass. Enabling completion always relaxes the relative threshold to
	// zero, and by default the absolute one too.
	IndependentKeypoints bool `yaml:"independent_keypoints"`

	// NMSBeforeCompletion applies instance NMS before completing poses.
	NMSBeforeCompletion bool `yaml:"nms_before_completion"`
}

// OccupancyConfig sizes the seed suppression grid.
type OccupancyConfig struct {
	Reduction float64 `yaml:"reduction"`
	MinScale  float64 `yaml:"min_scale"`
}

// Config is the decoder configuration bundle.
type Config struct {
	// KeypointThreshold is the absolute floor of a fused keypoint score.
	KeypointThreshold float64 `yaml:"keypoint_threshold"`

	// KeypointThresholdRel rejects a connection whose score falls below this
	// fraction of its source confidence.
	KeypointThresholdRel float64 `yaml:"keypoint_threshold_rel"`

	// SeedThreshold is the seed floor of the seed extractor; it is only used
	// to keep KeypointThreshold consistent.
	SeedThreshold float64 `yaml:"seed_threshold"`

	// ReverseMatch verifies each connection against the opposite channel.
	ReverseMatch bool `yaml:"reverse_match"`

	// Greedy commits the first admissible connection without re-ranking.
	Greedy bool `yaml:"greedy"`

	// CAFThreshold is the association score floor of the main pass.
	CAFThreshold float64 `yaml:"caf_threshold"`

	// ConfidenceScales weight frontier priorities per skeleton edge.
	// Nil means unweighted.
	ConfidenceScales []float64 `yaml:"confidence_scales"`

	// ScoreWeights weight the sorted joint confidences in Annotation.Score,
	// one per keypoint. Nil means uniform.
	ScoreWeights []float64 `yaml:"score_weights"`

	ConnectionMethod ConnectionMethod `yaml:"connection_method"`
	Completion       CompletionConfig `yaml:"completion"`
	Occupancy        OccupancyConfig  `yaml:"occupancy"`
}

// DefaultConfig returns the defaults:
//   - KeypointThreshold:    0.15
//   - KeypointThresholdRel: 0.5
//   - SeedThreshold:        0.5
//   - ReverseMatch:         true
//   - Greedy:               false
//   - CAFThreshold:         0.1
//   - ConnectionMethod:     Blend
//   - Completion:           disabled, CAFThreshold 0.001
//   - Occupancy:            reduction 2, min scale 4
func DefaultConfig() Config {
	return Config{
		KeypointThreshold:    0.15,
		KeypointThresholdRel: 0.5,
		SeedThreshold:        0.5,
		ReverseMatch:         true,
		Greedy:               false,
		CAFThreshold:         0.1,
		ConnectionMethod:     Blend,
		Completion: CompletionConfig{
			Enabled:      false,
			CAFThreshold: 0.001,
		},
		Occupancy: OccupancyConfig{
			Reduction: 2.0,
			MinScale:  4.0,
		},
	}
}

// Options bundles the configuration with the collaborators of a Decoder.
type Options struct {
	Config      Config
	Logger      *slog.Logger
	Accumulator field.Accumulator
	Seeds       field.SeedExtractor
	Association field.AssociationService
	NMS         field.InstanceNMS
}

// Option represents a functional option for configuring a Decoder.
type Option func(*Options)

// DefaultOptions returns DefaultConfig with slog.Default() and the static
// Frame collaborators (PassThrough accumulator, FrameSeeds at the seed
// threshold, FrameAssociation). No instance NMS is applied.
func DefaultOptions() Options {
	cfg := DefaultConfig()

	return Options{
		Config:      cfg,
		Logger:      slog.Default(),
		Accumulator: &field.PassThrough{},
		Seeds:       field.FrameSeeds{Threshold: cfg.SeedThreshold},
		Association: field.FrameAssociation{},
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *Options) { o.Config = cfg }
}

// WithKeypointThreshold sets the absolute keypoint score floor.
func WithKeypointThreshold(th float64) Option {
	return func(o *Options) { o.Config.KeypointThreshold = th }
}

// WithKeypointThresholdRel sets the relative keypoint score floor.
func WithKeypointThresholdRel(th float64) Option {
	return func(o *Options) { o.Config.KeypointThresholdRel = th }
}

// WithSeedThreshold sets the seed floor used for the consistency check.
func WithSeedThreshold(th float64) Option {
	return func(o *Options) { o.Config.SeedThreshold = th }
}

// WithReverseMatch enables or disables the reverse consistency check.
func WithReverseMatch(on bool) Option {
	return func(o *Options) { o.Config.ReverseMatch = on }
}

// WithGreedy enables or disables greedy resolution.
func WithGreedy(on bool) Option {
	return func(o *Options) { o.Config.Greedy = on }
}

// WithConfidenceScales sets per-edge frontier weights. The slice is copied.
func WithConfidenceScales(scales []float64) Option {
	return func(o *Options) {
		o.Config.ConfidenceScales = append([]float64(nil), scales...)
	}
}

// WithConnectionMethod selects Blend or Max.
func WithConnectionMethod(m ConnectionMethod) Option {
	return func(o *Options) { o.Config.ConnectionMethod = m }
}

// WithCompletion enables the completion pass with the given regrowth floor.
func WithCompletion(cafThreshold float64) Option {
	return func(o *Options) {
		o.Config.Completion.Enabled = true
		o.Config.Completion.CAFThreshold = cafThreshold
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithAccumulator sets the confidence field accumulator.
func WithAccumulator(a field.Accumulator) Option {
	return func(o *Options) { o.Accumulator = a }
}

// WithSeedExtractor sets the seed extractor.
func WithSeedExtractor(s field.SeedExtractor) Option {
	return func(o *Options) { o.Seeds = s }
}

// WithAssociation sets the association service.
func WithAssociation(a field.AssociationService) Option {
	return func(o *Options) { o.Association = a }
}

// WithNMS sets the instance NMS applied at the end of each decode.
func WithNMS(n field.InstanceNMS) Option {
	return func(o *Options) { o.NMS = n }
}
