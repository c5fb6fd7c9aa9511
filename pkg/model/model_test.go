package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundTrip(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestIDFromUint64Ordering(t *testing.T) {
	a := IDFromUint64(1)
	b := IDFromUint64(2)
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestPropertiesMerge(t *testing.T) {
	base := Properties{"name": String("alice"), "age": Integer(30)}
	patched := base.Merge(Properties{"age": Integer(31), "city": String("nyc")})

	assert.Equal(t, "alice", patched["name"].Str)
	assert.Equal(t, int64(31), patched["age"].Int)
	assert.Equal(t, "nyc", patched["city"].Str)
	// original untouched
	assert.Equal(t, int64(30), base["age"].Int)
}

func TestValueAnyRoundTrip(t *testing.T) {
	v := FromAny(map[string]any{
		"a": "x",
		"b": int64(3),
		"c": []any{1.5, true},
	})
	back := v.Any().(map[string]any)
	assert.Equal(t, "x", back["a"])
}

func TestSplitMergeVectorProperties(t *testing.T) {
	props := Properties{"source": String("doc1"), reservedLabel: String("embedding"), reservedDeleted: Boolean(true)}
	rest, label, deleted := SplitVectorProperties(props)
	assert.Equal(t, "embedding", label)
	assert.True(t, deleted)
	_, hasLabel := rest[reservedLabel]
	assert.False(t, hasLabel)

	merged := MergeVectorProperties(rest, label, deleted)
	assert.Equal(t, "embedding", merged[reservedLabel].Str)
	assert.True(t, merged[reservedDeleted].Bool)
}

func TestMigrationRegistryUpgrade(t *testing.T) {
	reg := NewMigrationRegistry()
	reg.Register("person", 0, func(p Properties) Properties {
		out := p.Clone()
		out["migrated"] = Boolean(true)
		return out
	})

	props, version := reg.Upgrade("person", 0, Properties{"name": String("bob")})
	assert.Equal(t, CurrentVersion, version)
	assert.True(t, props["migrated"].Bool)
}

func TestMigrationRegistryNoChainIsPassthrough(t *testing.T) {
	reg := NewMigrationRegistry()
	props, version := reg.Upgrade("unregistered", 0, Properties{"x": Integer(1)})
	assert.Equal(t, CurrentVersion, version)
	assert.Equal(t, int64(1), props["x"].Int)
}

func TestTraversalValueID(t *testing.T) {
	n := &Node{ID: NewID()}
	tv := TVFromNode(n)
	assert.Equal(t, n.ID, tv.ID())

	empty := TraversalValue{Kind: TVEmpty}
	assert.Equal(t, NilID, empty.ID())
}
