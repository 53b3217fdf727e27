package decoder_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/field"
	"github.com/katalvlaran/posegraph/skeleton"
)

// anchor is an exact query position of a fakeChannel.
type anchor struct{ x, y float64 }

// fakeChannel answers queries at known anchors only, regardless of scale.
type fakeChannel map[anchor]field.Candidate

func (c fakeChannel) Evaluate(x, y, _ float64, _ bool) field.Candidate {
	return c[anchor{x, y}]
}

// fakeChannels serves one forward and one backward fakeChannel per edge.
type fakeChannels struct {
	fwd, bwd []fakeChannel
}

func newFakeChannels(n int) *fakeChannels {
	c := &fakeChannels{fwd: make([]fakeChannel, n), bwd: make([]fakeChannel, n)}
	for i := 0; i < n; i++ {
		c.fwd[i] = fakeChannel{}
		c.bwd[i] = fakeChannel{}
	}

	return c
}

func (c *fakeChannels) Directed(i int, forward bool) field.Channel {
	if forward {
		return c.fwd[i]
	}

	return c.bwd[i]
}

func (c *fakeChannels) Len() int { return len(c.fwd) }

// recordingAssociation wraps an AssociationService and records the score
// floors it is asked for.
type recordingAssociation struct {
	inner  field.AssociationService
	floors []float64
}

func (r *recordingAssociation) Channels(acc, assoc field.Raw, floor float64) (field.Channels, error) {
	r.floors = append(r.floors, floor)

	return r.inner.Channels(acc, assoc, floor)
}

// countingNMS keeps the first keep annotations and counts its calls.
type countingNMS struct {
	keep  int
	calls int
}

func (n *countingNMS) Apply(anns []*annotation.Annotation) []*annotation.Annotation {
	n.calls++
	if len(anns) > n.keep {
		return anns[:n.keep]
	}

	return anns
}

func mustTopology(t testing.TB, n int, edges ...skeleton.Edge) *skeleton.Topology {
	t.Helper()
	top, err := skeleton.New(n, edges)
	require.NoError(t, err)

	return top
}

func mustAnnotation(t testing.TB, n int) *annotation.Annotation {
	t.Helper()
	ann, err := annotation.New(n)
	require.NoError(t, err)

	return ann
}

// bufferLogger returns a text logger writing to the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// values returns the confidences of ann.
func values(ann *annotation.Annotation) []float64 {
	out := make([]float64, len(ann.Data))
	for i, d := range ann.Data {
		out[i] = d.V
	}

	return out
}

// targets returns the target joints of ann's decoding order.
func targets(ann *annotation.Annotation) []int {
	out := make([]int, len(ann.DecodingOrder))
	for i, s := range ann.DecodingOrder {
		out[i] = s.Target
	}

	return out
}
