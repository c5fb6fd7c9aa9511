package codec

import (
	"testing"
	"time"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripValue(t *testing.T, v model.Value) model.Value {
	t.Helper()
	buf := EncodeValue(nil, v)
	out, n, err := DecodeValue(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	return out
}

func TestValueRoundTrip(t *testing.T) {
	cases := []model.Value{
		model.Empty,
		model.String("hello"),
		model.Integer(-42),
		model.Float(3.14159),
		model.Boolean(true),
		model.Array([]model.Value{model.Integer(1), model.String("x")}),
		model.Object(map[string]model.Value{"a": model.Integer(1)}),
		model.Date(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
	for _, c := range cases {
		out := roundTripValue(t, c)
		assert.Equal(t, c.Kind, out.Kind)
		switch c.Kind {
		case model.ValueString:
			assert.Equal(t, c.Str, out.Str)
		case model.ValueInteger:
			assert.Equal(t, c.Int, out.Int)
		case model.ValueFloat:
			assert.Equal(t, c.Float, out.Float)
		case model.ValueBoolean:
			assert.Equal(t, c.Bool, out.Bool)
		case model.ValueDate:
			assert.True(t, c.Date.Equal(out.Date))
		}
	}
}

func TestPropertiesRoundTrip(t *testing.T) {
	props := model.Properties{
		"name": model.String("alice"),
		"age":  model.Integer(30),
	}
	buf := EncodeProperties(nil, props)
	out, n, err := DecodeProperties(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, "alice", out["name"].Str)
	assert.Equal(t, int64(30), out["age"].Int)
}

func TestEmptyPropertiesRoundTrip(t *testing.T) {
	buf := EncodeProperties(nil, nil)
	out, _, err := DecodeProperties(buf)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestNodeBodyRoundTrip(t *testing.T) {
	id := model.NewID()
	n := &model.Node{
		ID:         id,
		Label:      "person",
		Properties: model.Properties{"name": model.String("alice")},
		Version:    model.CurrentVersion,
	}
	buf := EncodeNodeBody(n)
	out, err := DecodeNodeBody(id, buf)
	require.NoError(t, err)
	assert.Equal(t, n.ID, out.ID)
	assert.Equal(t, n.Label, out.Label)
	assert.Equal(t, n.Version, out.Version)
	assert.Equal(t, "alice", out.Properties["name"].Str)
}

func TestEdgeBodyRoundTrip(t *testing.T) {
	id, from, to := model.NewID(), model.NewID(), model.NewID()
	e := &model.Edge{
		ID:         id,
		Label:      "knows",
		From:       from,
		To:         to,
		Properties: model.Properties{"since": model.Integer(2020)},
		Version:    model.CurrentVersion,
	}
	buf := EncodeEdgeBody(e)
	out, err := DecodeEdgeBody(id, buf)
	require.NoError(t, err)
	assert.Equal(t, from, out.From)
	assert.Equal(t, to, out.To)
	assert.Equal(t, "knows", out.Label)
	assert.Equal(t, int64(2020), out.Properties["since"].Int)
}

func TestVectorCoreRoundTrip(t *testing.T) {
	id := model.NewID()
	v := &model.Vector{
		ID:        id,
		Data:      []float64{1, 0.5, -0.25},
		Label:     "embedding",
		IsDeleted: true,
		Version:   model.CurrentVersion,
	}
	buf := EncodeVectorCore(v)
	out, err := DecodeVectorCore(id, buf)
	require.NoError(t, err)
	assert.Equal(t, v.Data, out.Data)
	assert.Equal(t, "embedding", out.Label)
	assert.True(t, out.IsDeleted)
	assert.Nil(t, out.Properties, "vectors table body must not carry the property map")
}

func TestVectorDataRoundTrip(t *testing.T) {
	props := model.Properties{"source": model.String("doc1")}
	buf := EncodeVectorData(props)
	out, err := DecodeVectorData(buf)
	require.NoError(t, err)
	assert.Equal(t, "doc1", out["source"].Str)
}

func TestDecodeValueTruncatedIsCorruption(t *testing.T) {
	_, _, err := DecodeValue(nil)
	require.Error(t, err)
	var ce *ErrCorruption
	require.ErrorAs(t, err, &ce)
}
