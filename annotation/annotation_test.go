package annotation_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/posegraph/annotation"
)

func TestNew_Errors(t *testing.T) {
	_, err := annotation.New(0)
	assert.ErrorIs(t, err, annotation.ErrNoKeypoints)

	_, err = annotation.New(3, annotation.WithScoreWeights([]float64{1, 2}))
	assert.ErrorIs(t, err, annotation.ErrScoreWeights)
}

func TestNew_Unfilled(t *testing.T) {
	a, err := annotation.New(4)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Empty(t, a.FilledJoints())
	assert.Equal(t, []int{0, 1, 2, 3}, a.Unfilled())
	assert.False(t, a.Complete())
	assert.InDelta(t, 0.0, a.Score(), 1e-12)
}

func TestAdd(t *testing.T) {
	a, err := annotation.New(3)
	require.NoError(t, err)
	require.NoError(t, a.Add(1, 10, 12, 0.8, 2))

	assert.True(t, a.Filled(1))
	assert.False(t, a.Filled(0))
	assert.False(t, a.Filled(9))
	assert.Equal(t, annotation.Joint{X: 10, Y: 12, V: 0.8}, a.Data[1])
	assert.Equal(t, 2.0, a.JointScales[1])
	assert.Equal(t, []int{1}, a.FilledJoints())

	assert.ErrorIs(t, a.Add(3, 0, 0, 1, 1), annotation.ErrJointOutOfRange)
}

func TestScore_Weighted(t *testing.T) {
	// weights apply to confidences sorted descending
	a, err := annotation.New(3, annotation.WithScoreWeights([]float64{3, 1, 0}))
	require.NoError(t, err)
	require.NoError(t, a.Add(0, 0, 0, 0.2, 1))
	require.NoError(t, a.Add(2, 0, 0, 0.6, 1))

	assert.InDelta(t, 0.75*0.6+0.25*0.2, a.Score(), 1e-12)
}

func TestScore_UniformMean(t *testing.T) {
	a, err := annotation.New(2)
	require.NoError(t, err)
	require.NoError(t, a.Add(0, 0, 0, 0.4, 1))
	require.NoError(t, a.Add(1, 0, 0, 0.8, 1))
	assert.InDelta(t, 0.6, a.Score(), 1e-12)
	assert.True(t, a.Complete())
}

func TestClone_Independent(t *testing.T) {
	a, err := annotation.New(2)
	require.NoError(t, err)
	require.NoError(t, a.Add(0, 1, 1, 0.5, 1))
	a.FrontierOrder = append(a.FrontierOrder, [2]int{0, 1})

	c := a.Clone()
	require.NoError(t, c.Add(1, 2, 2, 0.5, 1))
	c.FrontierOrder[0] = [2]int{1, 0}

	assert.Equal(t, a.ID, c.ID)
	assert.False(t, a.Filled(1))
	assert.Equal(t, [2]int{0, 1}, a.FrontierOrder[0])
}

func TestMarshalJSON(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	a, err := annotation.New(2, annotation.WithID(id))
	require.NoError(t, err)
	require.NoError(t, a.Add(0, 10.123, 20.456, 0.91234, 2.5))

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, id.String(), got["id"])
	assert.Equal(t, []interface{}{10.12, 20.46, 0.912, 0.0, 0.0, 0.0}, got["keypoints"])
	assert.Equal(t, []interface{}{2.5, 0.0}, got["joint_scales"])
	assert.InDelta(t, 0.456, got["score"], 1e-9)
}
