package field

import (
	"errors"

	"github.com/katalvlaran/posegraph/annotation"
)

// Sentinel errors for the static implementations.
var (
	// ErrChannelCount indicates forward and backward channel lists of different length.
	ErrChannelCount = errors.New("field: forward and backward channel counts differ")

	// ErrNilRaw indicates an Accumulate call without a payload.
	ErrNilRaw = errors.New("field: raw field is nil")

	// ErrUnsupportedRaw indicates a payload type the implementation cannot read.
	ErrUnsupportedRaw = errors.New("field: unsupported raw field type")
)

// Raw is an opaque field payload handed between collaborators.
type Raw interface{}

// Seed is a ranked candidate start point for pose growth.
type Seed struct {
	Joint int     `json:"joint"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	V     float64 `json:"v"`
	Scale float64 `json:"scale"`
}

// Candidate is the answer of a directed channel query. V == 0 means the
// channel holds no usable evidence near the anchor.
type Candidate struct {
	X, Y  float64
	Scale float64
	V     float64
}

// Zero reports whether c carries no evidence.
func (c Candidate) Zero() bool { return c.V == 0 }

// Accumulator builds the dense confidence field for one frame.
type Accumulator interface {
	Reset()
	Accumulate(raw Raw) error
	Accumulated() Raw
}

// SeedExtractor yields seeds from an accumulated confidence field.
// The decoder sorts the result by descending V itself.
type SeedExtractor interface {
	Seeds(accumulated Raw) ([]Seed, error)
}

// Channel is one directed association channel.
type Channel interface {
	// Evaluate predicts the paired keypoint from an anchor at (x, y) with
	// the given scale. With onlyMax the single best association is used
	// instead of a blend of the two best.
	Evaluate(x, y, scale float64, onlyMax bool) Candidate
}

// Channels gives access to the directed channels of every skeleton edge.
type Channels interface {
	// Directed returns edge channel i read forward (a→b) or backward (b→a).
	Directed(i int, forward bool) Channel
	Len() int
}

// AssociationService prepares the association channels of one frame from
// the raw association field, discarding evidence whose score is below
// scoreFloor. The accumulated confidence field may be used for rescoring.
type AssociationService interface {
	Channels(accumulated, association Raw, scoreFloor float64) (Channels, error)
}

// InstanceNMS removes or merges near-duplicate poses.
type InstanceNMS interface {
	Apply(anns []*annotation.Annotation) []*annotation.Annotation
}
