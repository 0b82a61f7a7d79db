package seqlab

import (
	"encoding/json"
	"fmt"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

// A Vocab assigns dense integer indices to string tokens in
// first-occurrence order.
//
// Indices are contiguous and start at zero, so a Vocab of N
// tokens can index one-hot vectors of length N directly.
type Vocab struct {
	tokens  []string
	indices map[string]int
}

// NewVocab creates an empty vocabulary.
func NewVocab() *Vocab {
	return &Vocab{indices: map[string]int{}}
}

// VocabFromTokens builds a vocabulary from a token stream,
// keeping the first occurrence of each distinct token.
func VocabFromTokens(tokens []string) *Vocab {
	v := NewVocab()
	for _, t := range tokens {
		v.Add(t)
	}
	return v
}

// Add inserts a token and returns its index.
// Adding a known token is a no-op that returns the existing
// index.
func (v *Vocab) Add(token string) int {
	if idx, ok := v.indices[token]; ok {
		return idx
	}
	idx := len(v.tokens)
	v.tokens = append(v.tokens, token)
	v.indices[token] = idx
	return idx
}

// Index looks up a token's index.
func (v *Vocab) Index(token string) (int, bool) {
	idx, ok := v.indices[token]
	return idx, ok
}

// MustIndex is like Index but panics for unknown tokens.
func (v *Vocab) MustIndex(token string) int {
	idx, ok := v.indices[token]
	if !ok {
		panic("unknown token: " + token)
	}
	return idx
}

// Token returns the token at an index.
func (v *Vocab) Token(idx int) string {
	return v.tokens[idx]
}

// Len returns the number of distinct tokens.
func (v *Vocab) Len() int {
	return len(v.tokens)
}

// Tokens returns the tokens in index order.
// The caller must not modify the result.
func (v *Vocab) Tokens() []string {
	return v.tokens
}

// Encode maps tokens to their indices.
// It fails on the first unknown token.
func (v *Vocab) Encode(tokens []string) ([]int, error) {
	res := make([]int, len(tokens))
	for i, t := range tokens {
		idx, ok := v.indices[t]
		if !ok {
			return nil, fmt.Errorf("encode: unknown token %q", t)
		}
		res[i] = idx
	}
	return res, nil
}

// Decode maps indices back to their tokens.
func (v *Vocab) Decode(indices []int) ([]string, error) {
	res := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(v.tokens) {
			return nil, fmt.Errorf("decode: index %d out of range", idx)
		}
		res[i] = v.tokens[idx]
	}
	return res, nil
}

// OneHot produces a one-hot vector of length v.Len() for the
// given token.
func (v *Vocab) OneHot(token string) anyvec.Vector {
	return oneHot(v.Len(), v.MustIndex(token))
}

// MarshalJSON encodes the vocabulary as its token list.
func (v *Vocab) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.tokens)
}

// UnmarshalJSON decodes a vocabulary from a token list.
func (v *Vocab) UnmarshalJSON(d []byte) error {
	var tokens []string
	if err := json.Unmarshal(d, &tokens); err != nil {
		return err
	}
	*v = *VocabFromTokens(tokens)
	return nil
}

func oneHot(size, index int) anyvec.Vector {
	res := make([]float32, size)
	res[index] = 1
	return anyvec32.MakeVectorData(res)
}

func vecFloats(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	case []float64:
		return data
	}
	panic("unsupported numeric type")
}

func maxIndex(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}
