package seqlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec/anyvec32"
)

func TestEmbeddingApplyShape(t *testing.T) {
	c := anyvec32.CurrentCreator()
	emb := NewEmbedding(c, 5, 3)

	in := anydiff.NewConst(oneHot(5, 1))
	out := emb.Apply(in, 1)
	assert.Equal(t, 3, out.Output().Len())
}

func TestEmbeddingApplyMatchesLookup(t *testing.T) {
	c := anyvec32.CurrentCreator()
	emb := NewEmbedding(c, 4, 2)

	applied := emb.Apply(anydiff.NewConst(oneHot(4, 2)), 1)
	looked := emb.Lookup(2)
	assert.Equal(t, vecFloats(looked.Output()), vecFloats(applied.Output()))
}

func TestEmbeddingSerialize(t *testing.T) {
	c := anyvec32.CurrentCreator()
	emb := NewEmbedding(c, 3, 4)

	data, err := emb.Serialize()
	require.NoError(t, err)
	back, err := DeserializeEmbedding(data)
	require.NoError(t, err)

	assert.Equal(t, emb.Count, back.Count)
	assert.Equal(t, emb.Dim, back.Dim)
	assert.Equal(t, vecFloats(emb.Matrix.Vector), vecFloats(back.Matrix.Vector))
}

func TestEmbeddingParameters(t *testing.T) {
	emb := NewEmbedding(anyvec32.CurrentCreator(), 2, 2)
	require.Len(t, emb.Parameters(), 1)
	assert.Equal(t, emb.Matrix, emb.Parameters()[0])
}
