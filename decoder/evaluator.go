package decoder

import (
	"math"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/field"
)

// connectionValue evaluates the directed edge source→target of ann against
// the association channels. It returns the zero Candidate when the edge has
// no viable connection; otherwise the predicted target position and scale
// with the fused keypoint score as V.
//
// Steps:
//  1. Query the channel from the source joint's position and scale.
//  2. Fuse as the geometric mean sqrt(V·sourceV).
//  3. Reject below KeypointThreshold or below sourceV·KeypointThresholdRel.
//  4. With reverse matching, query the opposite channel from the candidate
//     and reject unless it lands within the source scale (L1 distance).
func (d *Decoder) connectionValue(ann *annotation.Annotation, chs field.Channels, source, target int, reverseMatch bool) field.Candidate {
	link, ok := d.top.Link(source, target)
	if !ok {
		return field.Candidate{}
	}
	src := ann.Data[source]
	srcScale := math.Max(0, ann.JointScales[source])
	onlyMax := d.cfg.ConnectionMethod == Max

	// 1) forward query
	fwd := chs.Directed(link.Channel, link.Forward).Evaluate(src.X, src.Y, srcScale, onlyMax)
	if fwd.V == 0 {
		return field.Candidate{}
	}

	// 2) geometric mean: neither side can rescue a zero on the other
	score := math.Sqrt(fwd.V * src.V)

	// 3) absolute and relative floors
	if score < d.cfg.KeypointThreshold {
		return field.Candidate{}
	}
	if score < src.V*d.cfg.KeypointThresholdRel {
		return field.Candidate{}
	}

	// 4) reverse match
	if d.cfg.ReverseMatch && reverseMatch {
		back := chs.Directed(link.Channel, !link.Forward).Evaluate(fwd.X, fwd.Y, math.Max(0, fwd.Scale), onlyMax)
		if back.V == 0 {
			return field.Candidate{}
		}
		if math.Abs(src.X-back.X)+math.Abs(src.Y-back.Y) > srcScale {
			return field.Candidate{}
		}
	}

	return field.Candidate{X: fwd.X, Y: fwd.Y, Scale: fwd.Scale, V: score}
}

// channelWeight returns the confidence scale of a skeleton edge, 1 when
// no scales are configured.
func (d *Decoder) channelWeight(channel int) float64 {
	if d.cfg.ConfidenceScales == nil {
		return 1
	}

	return d.cfg.ConfidenceScales[channel]
}
