// Package annotation holds the pose instance produced by the decoder: one
// (x, y, confidence) slot per keypoint type plus per-joint scales and the
// append-only logs recorded while the pose was grown.
//
// A slot with confidence 0 is unfilled. An Annotation is owned by exactly one
// decode call and is never mutated concurrently.
package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Sentinel errors for annotation construction.
var (
	// ErrNoKeypoints indicates a non-positive keypoint count.
	ErrNoKeypoints = errors.New("annotation: keypoint count must be positive")

	// ErrJointOutOfRange indicates a joint index outside [0, n).
	ErrJointOutOfRange = errors.New("annotation: joint index out of range")

	// ErrScoreWeights indicates score weights whose length differs from the keypoint count.
	ErrScoreWeights = errors.New("annotation: score weights length mismatch")
)

// Joint is one keypoint slot.
type Joint struct {
	X, Y float64
	V    float64 // confidence; 0 means unfilled
}

// Step records one committed connection, with snapshots of both joints
// taken right after the commit.
type Step struct {
	Source, Target int
	SourceJoint    Joint
	TargetJoint    Joint
}

// Annotation is a single pose instance.
type Annotation struct {
	// ID identifies the instance for downstream tracking.
	ID uuid.UUID

	Data        []Joint
	JointScales []float64

	// DecodingOrder is the audit trail of committed connections.
	DecodingOrder []Step
	// FrontierOrder lists every (source, target) edge pushed to a frontier.
	FrontierOrder [][2]int

	// ScoreWeights are normalized to sum to 1.
	ScoreWeights []float64
}

// Option configures a new Annotation.
type Option func(*Annotation) error

// WithScoreWeights sets per-rank weights for Score. The weights are copied
// and normalized; their length must match the keypoint count.
func WithScoreWeights(w []float64) Option {
	return func(a *Annotation) error {
		if len(w) != len(a.Data) {
			return fmt.Errorf("%w: %d weights for %d keypoints", ErrScoreWeights, len(w), len(a.Data))
		}
		a.ScoreWeights = normalize(w)

		return nil
	}
}

// WithID overrides the generated instance ID.
func WithID(id uuid.UUID) Option {
	return func(a *Annotation) error {
		a.ID = id

		return nil
	}
}

// New returns an empty Annotation with n unfilled keypoint slots.
func New(n int, opts ...Option) (*Annotation, error) {
	if n <= 0 {
		return nil, ErrNoKeypoints
	}
	a := &Annotation{
		ID:          uuid.New(),
		Data:        make([]Joint, n),
		JointScales: make([]float64, n),
	}
	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1
	}
	a.ScoreWeights = normalize(uniform)

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Add fills joint j with the given position, confidence and scale.
func (a *Annotation) Add(j int, x, y, v, scale float64) error {
	if j < 0 || j >= len(a.Data) {
		return fmt.Errorf("%w: %d of %d", ErrJointOutOfRange, j, len(a.Data))
	}
	a.Data[j] = Joint{X: x, Y: y, V: v}
	a.JointScales[j] = scale

	return nil
}

// Filled reports whether joint j has a positive confidence.
func (a *Annotation) Filled(j int) bool {
	return j >= 0 && j < len(a.Data) && a.Data[j].V > 0
}

// FilledJoints returns the indices of filled joints in ascending order.
func (a *Annotation) FilledJoints() []int {
	out := make([]int, 0, len(a.Data))
	for j, d := range a.Data {
		if d.V > 0 {
			out = append(out, j)
		}
	}

	return out
}

// Unfilled returns the indices of unfilled joints in ascending order.
func (a *Annotation) Unfilled() []int {
	out := make([]int, 0, len(a.Data))
	for j, d := range a.Data {
		if d.V <= 0 {
			out = append(out, j)
		}
	}

	return out
}

// Complete reports whether every joint is filled.
func (a *Annotation) Complete() bool {
	for _, d := range a.Data {
		if d.V <= 0 {
			return false
		}
	}

	return true
}

// Score is the weighted sum of the joint confidences sorted in descending
// order. With the default uniform weights it is the mean confidence.
func (a *Annotation) Score() float64 {
	v := make([]float64, len(a.Data))
	for i, d := range a.Data {
		v[i] = d.V
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(v)))

	var s float64
	for i := range v {
		s += a.ScoreWeights[i] * v[i]
	}

	return s
}

// Clone returns a deep copy sharing only the ID.
func (a *Annotation) Clone() *Annotation {
	c := &Annotation{
		ID:            a.ID,
		Data:          append([]Joint(nil), a.Data...),
		JointScales:   append([]float64(nil), a.JointScales...),
		DecodingOrder: append([]Step(nil), a.DecodingOrder...),
		FrontierOrder: append([][2]int(nil), a.FrontierOrder...),
		ScoreWeights:  append([]float64(nil), a.ScoreWeights...),
	}

	return c
}

// jsonAnnotation is the wire shape: keypoints flattened as x, y, v triples.
type jsonAnnotation struct {
	ID          string    `json:"id"`
	Keypoints   []float64 `json:"keypoints"`
	JointScales []float64 `json:"joint_scales"`
	Score       float64   `json:"score"`
}

// MarshalJSON encodes the annotation with coordinates rounded to 2 decimals
// and confidences to 3.
func (a *Annotation) MarshalJSON() ([]byte, error) {
	kps := make([]float64, 0, 3*len(a.Data))
	for _, d := range a.Data {
		kps = append(kps, round(d.X, 2), round(d.Y, 2), round(d.V, 3))
	}
	scales := make([]float64, len(a.JointScales))
	for i, s := range a.JointScales {
		scales[i] = round(s, 2)
	}

	return json.Marshal(jsonAnnotation{
		ID:          a.ID.String(),
		Keypoints:   kps,
		JointScales: scales,
		Score:       round(a.Score(), 3),
	})
}

func normalize(w []float64) []float64 {
	out := make([]float64, len(w))
	var sum float64
	for _, x := range w {
		sum += x
	}
	if sum == 0 {
		return out
	}
	for i, x := range w {
		out[i] = x / sum
	}

	return out
}

func round(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))

	return math.Round(x*p) / p
}
