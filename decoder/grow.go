package decoder

import (
	"math"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/field"
)

// GrowStats counts what one growth pass did.
type GrowStats struct {
	Queued      int // unresolved entries pushed
	Evaluations int // connection evaluations
	Rejected    int // evaluations without a viable connection
	Committed   int // joints filled
}

// grower holds the mutable state of a single growth pass over one annotation.
type grower struct {
	d            *Decoder
	ann          *annotation.Annotation
	chs          field.Channels
	reverseMatch bool
	pq           frontier
	inFrontier   map[[2]int]bool
	stats        GrowStats
}

// Grow extends ann from its filled joints along the skeleton in best-first
// order until no connection is left to try. Joints that cannot be justified
// stay unfilled. Growing an annotation whose joints are all filled is a
// no-op.
func (d *Decoder) Grow(ann *annotation.Annotation, chs field.Channels) GrowStats {
	return d.grow(ann, chs, true)
}

func (d *Decoder) grow(ann *annotation.Annotation, chs field.Channels, reverseMatch bool) GrowStats {
	g := &grower{
		d:            d,
		ann:          ann,
		chs:          chs,
		reverseMatch: reverseMatch,
		inFrontier:   make(map[[2]int]bool),
	}

	// 1) Seed the frontier from every joint filled so far.
	for _, j := range ann.FilledJoints() {
		g.addFrom(j)
	}

	// 2) Commit the best connection until the frontier is exhausted.
	for {
		e, ok := g.next()
		if !ok {
			break
		}
		if ann.Filled(e.target) {
			continue
		}

		ann.Data[e.target] = annotation.Joint{X: e.cand.X, Y: e.cand.Y, V: e.cand.V}
		ann.JointScales[e.target] = e.cand.Scale
		ann.DecodingOrder = append(ann.DecodingOrder, annotation.Step{
			Source:      e.source,
			Target:      e.target,
			SourceJoint: ann.Data[e.source],
			TargetJoint: ann.Data[e.target],
		})
		g.stats.Committed++

		g.addFrom(e.target)
	}

	return g.stats
}

// addFrom pushes one unresolved entry per outgoing edge of source whose
// target is unfilled and which is not tracked yet. The priority is an upper
// bound of any value connectionValue can return for the edge: the fused
// score sqrt(V·sourceV) cannot exceed sqrt(sourceV) while V <= 1.
func (g *grower) addFrom(source int) {
	bound := math.Sqrt(g.ann.Data[source].V)
	for _, target := range g.d.top.Neighbors(source) {
		if g.ann.Filled(target) {
			continue
		}
		key := [2]int{source, target}
		if g.inFrontier[key] {
			continue
		}
		link, _ := g.d.top.Link(source, target)

		g.pq.push(frontierEntry{
			priority: bound * g.d.channelWeight(link.Channel),
			source:   source,
			target:   target,
		})
		g.inFrontier[key] = true
		g.ann.FrontierOrder = append(g.ann.FrontierOrder, key)
		g.stats.Queued++
	}
}

// next returns the next connection to commit. Unresolved entries are
// evaluated when they reach the top of the heap and pushed back with their
// real priority; since every bound is admissible, a resolved entry at the
// top cannot be beaten by anything still unresolved.
//
// In greedy mode the first viable evaluation is returned directly.
func (g *grower) next() (frontierEntry, bool) {
	for g.pq.Len() > 0 {
		e := g.pq.pop()
		if e.resolved {
			return e, true
		}
		if g.ann.Filled(e.target) {
			continue
		}

		cand := g.d.connectionValue(g.ann, g.chs, e.source, e.target, g.reverseMatch)
		g.stats.Evaluations++
		if cand.Zero() {
			g.stats.Rejected++
			continue
		}

		bound := e.priority
		e.resolved = true
		e.cand = cand
		if g.d.cfg.Greedy {
			e.priority = cand.V
		} else {
			link, _ := g.d.top.Link(e.source, e.target)
			e.priority = cand.V * g.d.channelWeight(link.Channel)
		}
		if g.d.onResolve != nil {
			g.d.onResolve(e.source, e.target, bound, e.priority)
		}
		if g.d.cfg.Greedy {
			return e, true
		}
		g.pq.push(e)
	}

	return frontierEntry{}, false
}
