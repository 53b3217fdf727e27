package decoder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/field"
)

// complete runs the completion pass over anns:
//
//  1. Regrowth against channels prepared with the permissive
//     Completion.CAFThreshold and without reverse matching. Joints filled
//     here are capped at CompletionCeiling. Skipped for a negative floor.
//  2. Flood fill of every joint still unfilled from its filled neighbors.
func (d *Decoder) complete(anns []*annotation.Annotation, accumulated, association field.Raw) error {
	if d.cfg.Completion.CAFThreshold >= 0 {
		chs, err := d.assoc.Channels(accumulated, association, d.cfg.Completion.CAFThreshold)
		if err != nil {
			return fmt.Errorf("decoder: completion channels: %w", err)
		}
		if chs.Len() != d.top.NumChannels() {
			return fmt.Errorf("%w: completion got %d, skeleton has %d", ErrChannelMismatch, chs.Len(), d.top.NumChannels())
		}

		for _, ann := range anns {
			unfilled := ann.Unfilled()
			d.grow(ann, chs, false)
			for _, j := range unfilled {
				if ann.Filled(j) {
					ann.Data[j].V = math.Min(CompletionCeiling, ann.Data[j].V)
				}
			}
		}
	}

	for _, ann := range anns {
		d.floodFill(ann)
	}

	return nil
}

// floodFill copies positions from filled joints into unfilled neighbors
// without consulting any field, assigning FloodFillConfidence. Sources are
// taken best first by confidence times channel weight. Joints without a
// path to a filled joint stay unfilled.
func (d *Decoder) floodFill(ann *annotation.Annotation) int {
	var pq frontier
	addFrom := func(source int) {
		src := ann.Data[source]
		for _, target := range d.top.Neighbors(source) {
			if ann.Filled(target) {
				continue
			}
			link, _ := d.top.Link(source, target)
			pq.push(frontierEntry{
				priority: src.V * d.channelWeight(link.Channel),
				resolved: true,
				cand: field.Candidate{
					X:     src.X,
					Y:     src.Y,
					Scale: ann.JointScales[source],
					V:     FloodFillConfidence,
				},
				source: source,
				target: target,
			})
		}
	}

	for _, j := range ann.FilledJoints() {
		addFrom(j)
	}

	filled := 0
	for pq.Len() > 0 {
		e := pq.pop()
		if ann.Filled(e.target) {
			continue
		}
		ann.Data[e.target] = annotation.Joint{X: e.cand.X, Y: e.cand.Y, V: e.cand.V}
		ann.JointScales[e.target] = e.cand.Scale
		filled++
		addFrom(e.target)
	}

	return filled
}
