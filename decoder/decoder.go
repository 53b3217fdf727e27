package decoder

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/field"
	"github.com/katalvlaran/posegraph/occupancy"
	"github.com/katalvlaran/posegraph/skeleton"
)

// Fields are the raw network outputs of one frame.
type Fields struct {
	// Confidence payloads are accumulated in order.
	Confidence []field.Raw

	// Association is handed to the association service.
	Association field.Raw

	// Shape of the confidence field. A zero Fields count defaults to the
	// number of keypoints.
	Shape occupancy.Shape
}

// Decoder assembles pose instances from the fields of one frame at a time.
//
// A Decoder keeps its accumulator and occupancy grid between frames and
// resets both at the start of every Decode, so it must not be used by
// several goroutines at once. Decode frames in parallel with one Decoder
// per goroutine.
type Decoder struct {
	top   *skeleton.Topology
	cfg   Config
	log   *slog.Logger
	acc   field.Accumulator
	seeds field.SeedExtractor
	assoc field.AssociationService
	nms   field.InstanceNMS

	occ *occupancy.Grid

	// onResolve observes every lazy resolution: the bound an entry was
	// queued with and the priority it resolved to.
	onResolve func(source, target int, bound, priority float64)
}

// New builds a Decoder for the skeleton top.
//
// Returns ErrNilTopology for a nil topology, ErrMissingCollaborator when a
// required collaborator is nil, or a configuration error (ErrBadThreshold,
// ErrBadConnectionMethod, ErrConfidenceScales, ErrScoreWeights,
// ErrBadOccupancy). Inconsistent thresholds are corrected with a warning.
func New(top *skeleton.Topology, opts ...Option) (*Decoder, error) {
	if top == nil {
		return nil, ErrNilTopology
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Accumulator == nil || o.Seeds == nil || o.Association == nil {
		return nil, ErrMissingCollaborator
	}

	cfg, err := o.Config.normalize(top.Keypoints(), top.NumChannels(), o.Logger)
	if err != nil {
		return nil, err
	}

	// the built-in extractor follows the configured seed floor
	if fs, ok := o.Seeds.(field.FrameSeeds); ok {
		fs.Threshold = cfg.SeedThreshold
		o.Seeds = fs
	}

	return &Decoder{
		top:   top,
		cfg:   cfg,
		log:   o.Logger,
		acc:   o.Accumulator,
		seeds: o.Seeds,
		assoc: o.Association,
		nms:   o.NMS,
	}, nil
}

// Config returns the effective configuration after normalization.
func (d *Decoder) Config() Config {
	cfg := d.cfg
	cfg.ConfidenceScales = append([]float64(nil), d.cfg.ConfidenceScales...)
	cfg.ScoreWeights = append([]float64(nil), d.cfg.ScoreWeights...)

	return cfg
}

// Topology returns the skeleton the decoder grows along.
func (d *Decoder) Topology() *skeleton.Topology { return d.top }

// Decode assembles the pose instances of one frame.
//
// Steps:
//  1. Reset the accumulator and accumulate the confidence payloads.
//  2. Extract seeds and order them by descending confidence.
//  3. Prepare the association channels at CAFThreshold.
//  4. For every seed not already covered by an earlier instance of the same
//     joint type, grow a new annotation and mark its joints occupied.
//  5. Optionally complete the annotations.
//  6. Optionally apply instance NMS.
//
// Only collaborator failures are returned; edges or seeds without evidence
// are part of the normal search.
func (d *Decoder) Decode(f Fields) ([]*annotation.Annotation, error) {
	start := time.Now()

	// 1) accumulate
	d.acc.Reset()
	for i, raw := range f.Confidence {
		if err := d.acc.Accumulate(raw); err != nil {
			return nil, fmt.Errorf("decoder: accumulate confidence %d: %w", i, err)
		}
	}
	accumulated := d.acc.Accumulated()

	// 2) seeds, stable so equal confidences keep extractor order
	seeds, err := d.seeds.Seeds(accumulated)
	if err != nil {
		return nil, fmt.Errorf("decoder: seeds: %w", err)
	}
	sort.SliceStable(seeds, func(i, j int) bool { return seeds[i].V > seeds[j].V })

	// 3) association channels
	chs, err := d.assoc.Channels(accumulated, f.Association, d.cfg.CAFThreshold)
	if err != nil {
		return nil, fmt.Errorf("decoder: association channels: %w", err)
	}
	if chs.Len() != d.top.NumChannels() {
		return nil, fmt.Errorf("%w: got %d, skeleton has %d", ErrChannelMismatch, chs.Len(), d.top.NumChannels())
	}

	occ, err := d.grid(f.Shape)
	if err != nil {
		return nil, err
	}

	// 4) grow one annotation per unoccupied seed
	anns := make([]*annotation.Annotation, 0, len(seeds))
	suppressed := 0
	var total GrowStats
	for _, s := range seeds {
		if s.Joint < 0 || s.Joint >= d.top.Keypoints() {
			d.log.Debug("decoder: seed joint out of range", "joint", s.Joint)
			continue
		}
		if occ.Get(s.Joint, s.X, s.Y) {
			suppressed++
			continue
		}
		ann, err := d.newAnnotation()
		if err != nil {
			return nil, err
		}
		if err := ann.Add(s.Joint, s.X, s.Y, s.V, s.Scale); err != nil {
			return nil, fmt.Errorf("decoder: seed: %w", err)
		}

		st := d.grow(ann, chs, true)
		total.Queued += st.Queued
		total.Evaluations += st.Evaluations
		total.Rejected += st.Rejected
		total.Committed += st.Committed

		anns = append(anns, ann)
		for _, j := range ann.FilledJoints() {
			occ.Set(j, ann.Data[j].X, ann.Data[j].Y, ann.JointScales[j])
		}
	}
	d.log.Debug("decoder: grown",
		"seeds", len(seeds),
		"suppressed", suppressed,
		"annotations", len(anns),
		"evaluations", total.Evaluations,
		"rejected", total.Rejected,
		"committed", total.Committed)

	// 5) completion
	if d.cfg.Completion.Enabled {
		if d.cfg.Completion.NMSBeforeCompletion && d.nms != nil {
			anns = d.nms.Apply(anns)
		}
		if err := d.complete(anns, accumulated, f.Association); err != nil {
			return nil, err
		}
	}

	// 6) instance NMS
	if d.nms != nil {
		anns = d.nms.Apply(anns)
	}

	d.log.Debug("decoder: decoded",
		"annotations", len(anns),
		"elapsed_ms", float64(time.Since(start).Microseconds())/1000.0)

	return anns, nil
}

// grid returns the decoder's grid for shape, reset for a new frame.
// The grid is reallocated only when the shape changes.
func (d *Decoder) grid(shape occupancy.Shape) (*occupancy.Grid, error) {
	if shape.Fields == 0 {
		shape.Fields = d.top.Keypoints()
	}
	if d.occ != nil && d.occ.Shape() == shape {
		d.occ.Reset()
		return d.occ, nil
	}
	g, err := occupancy.New(shape, d.cfg.Occupancy.Reduction, d.cfg.Occupancy.MinScale)
	if err != nil {
		return nil, fmt.Errorf("decoder: occupancy: %w", err)
	}
	d.occ = g

	return g, nil
}

func (d *Decoder) newAnnotation() (*annotation.Annotation, error) {
	var opts []annotation.Option
	if d.cfg.ScoreWeights != nil {
		opts = append(opts, annotation.WithScoreWeights(d.cfg.ScoreWeights))
	}
	ann, err := annotation.New(d.top.Keypoints(), opts...)
	if err != nil {
		return nil, fmt.Errorf("decoder: annotation: %w", err)
	}

	return ann, nil
}
