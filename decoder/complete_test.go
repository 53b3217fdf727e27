package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/decoder"
	"github.com/katalvlaran/posegraph/field"
	"github.com/katalvlaran/posegraph/skeleton"
)

// weakChainFrame is a three-joint chain whose only association is too weak
// for the main pass: 0.05 from joint 0 at (10, 10) to joint 1 at (12, 10).
func weakChainFrame() *field.Frame {
	return &field.Frame{
		Seeds: []field.Seed{{Joint: 0, X: 10, Y: 10, V: 0.9, Scale: 2}},
		Forward: []field.Vectors{
			{{V: 0.05, X1: 10, Y1: 10, X2: 12, Y2: 10, S1: 2, S2: 2}},
			{},
		},
	}
}

func decodeWeakChain(t *testing.T, opts ...decoder.Option) ([]*annotation.Annotation, *recordingAssociation) {
	t.Helper()
	top := mustTopology(t, 3, skeleton.Edge{A: 0, B: 1}, skeleton.Edge{A: 1, B: 2})
	rec := &recordingAssociation{inner: field.FrameAssociation{}}
	opts = append([]decoder.Option{
		decoder.WithConnectionMethod(decoder.Max),
		decoder.WithAssociation(rec),
	}, opts...)
	d, err := decoder.New(top, opts...)
	require.NoError(t, err)

	frame := weakChainFrame()
	anns, err := d.Decode(decoder.Fields{
		Confidence:  []field.Raw{frame},
		Association: frame,
		Shape:       shape40,
	})
	require.NoError(t, err)
	require.Len(t, anns, 1)

	return anns, rec
}

func TestComplete_Disabled(t *testing.T) {
	anns, rec := decodeWeakChain(t)

	assert.Equal(t, []int{1, 2}, anns[0].Unfilled())
	assert.Equal(t, []float64{0.1}, rec.floors)
}

func TestComplete_RegrowthAndFloodFill(t *testing.T) {
	anns, rec := decodeWeakChain(t, decoder.WithCompletion(0.001))
	ann := anns[0]

	assert.Equal(t, []float64{0.1, 0.001}, rec.floors)
	require.True(t, ann.Complete())

	// regrown joint keeps its position, confidence capped
	assert.Equal(t, annotation.Joint{X: 12, Y: 10, V: decoder.CompletionCeiling}, ann.Data[1])
	assert.Equal(t, 2.0, ann.JointScales[1])

	// flood-filled joint copies its neighbor
	assert.Equal(t, annotation.Joint{X: 12, Y: 10, V: decoder.FloodFillConfidence}, ann.Data[2])
	assert.Equal(t, 2.0, ann.JointScales[2])

	// the seed is untouched
	assert.Equal(t, annotation.Joint{X: 10, Y: 10, V: 0.9}, ann.Data[0])
}

func TestComplete_FloodFillOnly(t *testing.T) {
	anns, rec := decodeWeakChain(t, decoder.WithCompletion(-1))
	ann := anns[0]

	assert.Equal(t, []float64{0.1}, rec.floors)
	assert.Equal(t, annotation.Joint{X: 10, Y: 10, V: decoder.FloodFillConfidence}, ann.Data[1])
	assert.Equal(t, annotation.Joint{X: 10, Y: 10, V: decoder.FloodFillConfidence}, ann.Data[2])
}

func TestComplete_NMSOrder(t *testing.T) {
	top := mustTopology(t, 3, skeleton.Edge{A: 0, B: 1}, skeleton.Edge{A: 1, B: 2})
	cfg := decoder.DefaultConfig()
	cfg.Completion.Enabled = true
	cfg.Completion.NMSBeforeCompletion = true
	nms := &countingNMS{keep: 1}

	d, err := decoder.New(top, decoder.WithConfig(cfg), decoder.WithNMS(nms))
	require.NoError(t, err)

	frame := weakChainFrame()
	frame.Seeds = append(frame.Seeds, field.Seed{Joint: 0, X: 30, Y: 30, V: 0.8, Scale: 2})
	anns, err := d.Decode(decoder.Fields{Confidence: []field.Raw{frame}, Association: frame, Shape: shape40})
	require.NoError(t, err)

	assert.Equal(t, 2, nms.calls)
	require.Len(t, anns, 1)
	assert.True(t, anns[0].Complete())
}

func TestFloodFill_BestSource(t *testing.T) {
	build := func(t *testing.T, opts ...decoder.Option) (*decoder.Decoder, *annotation.Annotation) {
		top := mustTopology(t, 3, skeleton.Edge{A: 0, B: 1}, skeleton.Edge{A: 1, B: 2})
		d, err := decoder.New(top, opts...)
		require.NoError(t, err)
		ann := mustAnnotation(t, 3)
		require.NoError(t, ann.Add(0, 0, 0, 0.9, 1))
		require.NoError(t, ann.Add(2, 5, 5, 0.5, 3))

		return d, ann
	}

	d, ann := build(t)
	assert.Equal(t, 1, decoder.ExportedFloodFill(d, ann))
	assert.Equal(t, annotation.Joint{X: 0, Y: 0, V: decoder.FloodFillConfidence}, ann.Data[1])
	assert.Equal(t, 1.0, ann.JointScales[1])

	// the weighted edge from joint 2 now ranks first
	d, ann = build(t, decoder.WithConfidenceScales([]float64{1, 3}))
	assert.Equal(t, 1, decoder.ExportedFloodFill(d, ann))
	assert.Equal(t, annotation.Joint{X: 5, Y: 5, V: decoder.FloodFillConfidence}, ann.Data[1])
	assert.Equal(t, 3.0, ann.JointScales[1])
}

func TestFloodFill_Unreachable(t *testing.T) {
	top := mustTopology(t, 4, skeleton.Edge{A: 0, B: 1})
	d, err := decoder.New(top)
	require.NoError(t, err)
	ann := mustAnnotation(t, 4)
	require.NoError(t, ann.Add(0, 1, 2, 0.9, 1))

	assert.Equal(t, 1, decoder.ExportedFloodFill(d, ann))
	assert.Equal(t, []int{2, 3}, ann.Unfilled())
}

func TestComplete_PairWithoutEvidence(t *testing.T) {
	frame := &field.Frame{
		Seeds:   []field.Seed{{Joint: 0, X: 10, Y: 10, V: 0.9, Scale: 2}},
		Forward: []field.Vectors{{}},
	}

	anns, err := newPairDecoder(t).Decode(fieldsOf(frame))
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.False(t, anns[0].Filled(1))

	anns, err = newPairDecoder(t, decoder.WithCompletion(0.001)).Decode(fieldsOf(frame))
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, annotation.Joint{X: 10, Y: 10, V: 0.9}, anns[0].Data[0])
	assert.Equal(t, annotation.Joint{X: 10, Y: 10, V: decoder.FloodFillConfidence}, anns[0].Data[1])
	assert.Equal(t, 2.0, anns[0].JointScales[1])
}
