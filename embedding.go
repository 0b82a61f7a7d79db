package seqlab

import (
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var e Embedding
	serializer.RegisterTypedDeserializer(e.SerializerType(), DeserializeEmbedding)
}

// An Embedding is a learnable lookup table mapping token
// indices to dense vectors.
//
// As an anynet.Layer it consumes batches of one-hot rows, so
// it can sit in front of a recurrent block; Lookup gives
// direct differentiable access to a single row.
type Embedding struct {
	Matrix *anydiff.Var
	Count  int
	Dim    int
}

// NewEmbedding creates an embedding table for count tokens
// with the given vector dimension, initialized like a
// fully-connected layer.
func NewEmbedding(c anyvec.Creator, count, dim int) *Embedding {
	res := &Embedding{
		Matrix: anydiff.NewVar(c.MakeVector(count * dim)),
		Count:  count,
		Dim:    dim,
	}
	anyvec.Rand(res.Matrix.Vector, anyvec.Normal, nil)
	res.Matrix.Vector.Scale(c.MakeNumeric(1 / math.Sqrt(float64(dim))))
	return res
}

// DeserializeEmbedding deserializes an Embedding.
func DeserializeEmbedding(d []byte) (*Embedding, error) {
	var matrix *anyvecsave.S
	var count, dim int
	if err := serializer.DeserializeAny(d, &matrix, &count, &dim); err != nil {
		return nil, essentials.AddCtx("deserialize Embedding", err)
	}
	return &Embedding{
		Matrix: anydiff.NewVar(matrix.Vector),
		Count:  count,
		Dim:    dim,
	}, nil
}

// Apply treats the input as n one-hot rows and returns the
// corresponding table rows.
func (e *Embedding) Apply(in anydiff.Res, n int) anydiff.Res {
	if in.Output().Len() != n*e.Count {
		panic("invalid input length for Embedding")
	}
	inMat := &anydiff.Matrix{Data: in, Rows: n, Cols: e.Count}
	table := &anydiff.Matrix{Data: e.Matrix, Rows: e.Count, Cols: e.Dim}
	return anydiff.MatMul(false, false, inMat, table).Data
}

// Lookup returns the table row for a single token index.
func (e *Embedding) Lookup(idx int) anydiff.Res {
	if idx < 0 || idx >= e.Count {
		panic("embedding index out of range")
	}
	return anydiff.Slice(e.Matrix, idx*e.Dim, (idx+1)*e.Dim)
}

// Parameters returns the embedding table variable.
func (e *Embedding) Parameters() []*anydiff.Var {
	return []*anydiff.Var{e.Matrix}
}

// SerializerType returns the unique ID used to serialize
// Embeddings with the serializer package.
func (e *Embedding) SerializerType() string {
	return "github.com/seqlab/seqlab.Embedding"
}

// Serialize serializes the Embedding.
func (e *Embedding) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		&anyvecsave.S{Vector: e.Matrix.Vector},
		e.Count,
		e.Dim,
	)
}
