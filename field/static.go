package field

import (
	"fmt"
	"math"
)

// Frame is a pre-extracted field payload: the seeds and association vectors
// of one image. It serves as both the confidence and the association Raw
// for the static implementations.
type Frame struct {
	Seeds []Seed `json:"seeds"`

	// Forward[i] is anchored at edge i's A joint, Backward[i] at its B joint.
	// A nil Backward mirrors Forward.
	Forward  []Vectors `json:"forward"`
	Backward []Vectors `json:"backward,omitempty"`
}

// PassThrough is an Accumulator that keeps the most recent raw payload as
// its accumulated field.
type PassThrough struct {
	acc Raw
}

// Reset drops the payload of the previous frame.
func (p *PassThrough) Reset() { p.acc = nil }

// Accumulate stores raw. Returns ErrNilRaw for a nil payload.
func (p *PassThrough) Accumulate(raw Raw) error {
	if raw == nil {
		return ErrNilRaw
	}
	p.acc = raw

	return nil
}

// Accumulated returns the stored payload, nil after Reset.
func (p *PassThrough) Accumulated() Raw { return p.acc }

// FrameSeeds extracts the seeds of an accumulated *Frame. Seeds with V
// below Threshold are dropped.
type FrameSeeds struct {
	Threshold float64
}

// Seeds returns the frame's seeds at or above Threshold, in frame order.
func (s FrameSeeds) Seeds(accumulated Raw) ([]Seed, error) {
	f, err := asFrame(accumulated)
	if err != nil {
		return nil, err
	}
	out := make([]Seed, 0, len(f.Seeds))
	for _, seed := range f.Seeds {
		if seed.V < s.Threshold {
			continue
		}
		out = append(out, seed)
	}

	return out, nil
}

// FrameAssociation serves the vectors of an association *Frame.
type FrameAssociation struct{}

// Channels returns the frame's vectors whose V is at least scoreFloor.
func (FrameAssociation) Channels(_, association Raw, scoreFloor float64) (Channels, error) {
	f, err := asFrame(association)
	if err != nil {
		return nil, err
	}
	backward := f.Backward
	if backward == nil {
		backward = mirror(f.Forward)
	}
	if len(f.Forward) != len(backward) {
		return nil, fmt.Errorf("%w: %d forward, %d backward", ErrChannelCount, len(f.Forward), len(backward))
	}

	out := staticChannels{
		forward:  make([]Vectors, len(f.Forward)),
		backward: make([]Vectors, len(backward)),
	}
	for i := range f.Forward {
		out.forward[i] = filter(f.Forward[i], scoreFloor)
		out.backward[i] = filter(backward[i], scoreFloor)
	}

	return out, nil
}

func asFrame(raw Raw) (*Frame, error) {
	switch f := raw.(type) {
	case *Frame:
		if f == nil {
			return nil, ErrNilRaw
		}
		return f, nil
	case Frame:
		return &f, nil
	case nil:
		return nil, ErrNilRaw
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRaw, raw)
	}
}

// Vector is one association: anchored at (X1, Y1) with scale S1, it
// predicts the paired keypoint at (X2, Y2) with scale S2.
type Vector struct {
	V  float64 `json:"v"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	S1 float64 `json:"s1"`
	S2 float64 `json:"s2"`
}

// Reversed swaps anchor and prediction.
func (v Vector) Reversed() Vector {
	return Vector{V: v.V, X1: v.X2, Y1: v.Y2, X2: v.X1, Y2: v.Y1, S1: v.S2, S2: v.S1}
}

// Vectors is a slice-backed directed Channel.
type Vectors []Vector

// Evaluate scores every vector whose anchor lies within 2·scale of (x, y)
// with a Gaussian of variance scale²/4 times its V.
//
// With onlyMax the best vector is returned at its full score. Otherwise the
// two best are blended, weighted by score, when the runner-up scores at
// least 0.01 and at least half the best; a lone best vector is returned at
// half its score.
func (vs Vectors) Evaluate(x, y, scale float64, onlyMax bool) Candidate {
	scale = math.Max(0, scale)
	filter2 := 4 * scale * scale
	sigma2 := 0.25 * scale * scale

	best, second := -1, -1
	var s1, s2 float64
	for i, v := range vs {
		dx, dy := v.X1-x, v.Y1-y
		d2 := dx*dx + dy*dy
		if d2 > filter2 {
			continue
		}
		score := v.V
		if d2 > 0 {
			score *= math.Exp(-0.5 * d2 / sigma2)
		}
		switch {
		case score > s1:
			second, s2 = best, s1
			best, s1 = i, score
		case score > s2:
			second, s2 = i, score
		}
	}
	if best < 0 || s1 == 0 {
		return Candidate{}
	}

	b := vs[best]
	if onlyMax {
		return Candidate{X: b.X2, Y: b.Y2, Scale: b.S2, V: s1}
	}
	if second < 0 || s2 < 0.01 || s2 < 0.5*s1 {
		return Candidate{X: b.X2, Y: b.Y2, Scale: b.S2, V: 0.5 * s1}
	}

	c := vs[second]
	total := s1 + s2

	return Candidate{
		X:     (s1*b.X2 + s2*c.X2) / total,
		Y:     (s1*b.Y2 + s2*c.Y2) / total,
		Scale: (s1*b.S2 + s2*c.S2) / total,
		V:     0.5 * total,
	}
}

type staticChannels struct {
	forward, backward []Vectors
}

func (c staticChannels) Directed(i int, forward bool) Channel {
	if i < 0 || i >= len(c.forward) {
		return Vectors(nil)
	}
	if forward {
		return c.forward[i]
	}

	return c.backward[i]
}

func (c staticChannels) Len() int { return len(c.forward) }

func mirror(forward []Vectors) []Vectors {
	backward := make([]Vectors, len(forward))
	for i, vs := range forward {
		backward[i] = make(Vectors, len(vs))
		for k, v := range vs {
			backward[i][k] = v.Reversed()
		}
	}

	return backward
}

func filter(vs Vectors, floor float64) Vectors {
	out := make(Vectors, 0, len(vs))
	for _, v := range vs {
		if v.V < floor {
			continue
		}
		out = append(out, v)
	}

	return out
}
