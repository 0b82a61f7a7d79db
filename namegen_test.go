package seqlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anynet/anysgd"
)

func testNameCorpus(t *testing.T) *NameCorpus {
	t.Helper()
	dir := writeNameFiles(t, map[string]string{
		"English.txt": "Abel\nBaker\n",
		"Spanish.txt": "Abano\n",
	})
	corpus, err := ReadCategoryLines(dir)
	require.NoError(t, err)
	return corpus
}

func testNameGenConfig() TrainConfig {
	cfg := DefaultNameGenConfig()
	cfg.HiddenSize = 8
	cfg.Iters = 5
	cfg.LogEvery = 0
	cfg.Validation = 0
	return cfg
}

func TestNameGenEOSIsLast(t *testing.T) {
	gen := NewNameGen(testNameCorpus(t), testNameGenConfig())
	idx, ok := gen.Letters.Index(EOSToken)
	require.True(t, ok)
	assert.Equal(t, gen.Letters.Len()-1, idx)
}

func TestDecodeNameMaxLen(t *testing.T) {
	step := func(letter int) []float64 {
		return []float64{0, -1, -2}
	}
	out := decodeName(step, maxIndex, 1, 2, 5)
	assert.Len(t, out, 5)
	for _, idx := range out {
		assert.NotEqual(t, 2, idx)
	}
}

func TestDecodeNameHaltsOnEOS(t *testing.T) {
	calls := 0
	step := func(letter int) []float64 {
		calls++
		return []float64{-2, -1, 0}
	}
	out := decodeName(step, maxIndex, 1, 2, 10)
	assert.Equal(t, []int{1}, out)
	assert.Equal(t, 1, calls)
}

func TestDecodeNameFeedsBackOutput(t *testing.T) {
	var inputs []int
	step := func(letter int) []float64 {
		inputs = append(inputs, letter)
		return []float64{0, -1, -2}
	}
	decodeName(step, maxIndex, 1, 2, 4)
	assert.Equal(t, []int{1, 0, 0}, inputs)
}

func TestNameSampleAlignment(t *testing.T) {
	corpus := testNameCorpus(t)
	gen := NewNameGen(corpus, testNameGenConfig())

	samples, err := gen.sampleList(corpus)
	require.NoError(t, err)
	require.Equal(t, corpus.NumNames(), samples.Len())

	name := []rune(samples[0].name)
	sample, err := samples.GetSample(0)
	require.NoError(t, err)
	require.Len(t, sample.Input, len(name))
	require.Len(t, sample.Output, len(name))

	numCats := len(gen.Categories)
	eos := gen.Letters.MustIndex(EOSToken)
	for i := range sample.Input {
		in := vecFloats(sample.Input[i])
		letterIdx := maxIndex(in[numCats:])
		assert.Equal(t, string(name[i]), gen.Letters.Token(letterIdx))

		target := maxIndex(vecFloats(sample.Output[i]))
		if i+1 < len(name) {
			assert.Equal(t, string(name[i+1]), gen.Letters.Token(target))
		} else {
			assert.Equal(t, eos, target)
		}
	}
}

func TestNameSampleRoundTrip(t *testing.T) {
	corpus := testNameCorpus(t)
	gen := NewNameGen(corpus, testNameGenConfig())
	samples, err := gen.sampleList(corpus)
	require.NoError(t, err)

	numCats := len(gen.Categories)
	sample, err := samples.GetSample(1)
	require.NoError(t, err)
	var decoded string
	for _, in := range sample.Input {
		letterIdx := maxIndex(vecFloats(in)[numCats:])
		decoded += gen.Letters.Token(letterIdx)
	}
	assert.Equal(t, samples[1].name, decoded)
}

func TestNameSampleListInterfaces(t *testing.T) {
	corpus := testNameCorpus(t)
	gen := NewNameGen(corpus, testNameGenConfig())
	samples, err := gen.sampleList(corpus)
	require.NoError(t, err)

	var _ anys2s.SampleList = samples
	var _ anysgd.Hasher = samples

	assert.NotNil(t, samples.Creator())
	assert.Len(t, samples.Hash(0), 16)
	assert.NotEqual(t, samples.Hash(0), samples.Hash(1))
	assert.Equal(t, samples.Hash(0), samples.Hash(0))
}

func TestNameGenTrainReducesCost(t *testing.T) {
	corpus := testNameCorpus(t)
	cfg := testNameGenConfig()
	cfg.StepSize = 0.01
	cfg.Iters = 200
	gen := NewNameGen(corpus, cfg)

	hist, err := gen.Train(corpus, cfg)
	require.NoError(t, err)
	require.Len(t, hist.Losses, cfg.Iters)

	var early, late float64
	for i := 0; i < 10; i++ {
		early += hist.Losses[i]
		late += hist.Losses[len(hist.Losses)-1-i]
	}
	assert.Less(t, late, early)
	assert.False(t, gen.Cell.Dropout.Enabled)
}

func TestNameGenSampleBounds(t *testing.T) {
	gen := NewNameGen(testNameCorpus(t), testNameGenConfig())

	name, err := gen.Sample("English", 'A', 8, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(name)), 8)
	assert.Equal(t, "A", string([]rune(name)[0]))
}

func TestNameGenSampleUnknownCategory(t *testing.T) {
	gen := NewNameGen(testNameCorpus(t), testNameGenConfig())
	_, err := gen.Sample("Klingon", 'A', 8, 0)
	assert.Error(t, err)
}

func TestNameGenInputVector(t *testing.T) {
	gen := NewNameGen(testNameCorpus(t), testNameGenConfig())
	vec := vecFloats(gen.inputVector(1, 2))

	require.Len(t, vec, len(gen.Categories)+gen.Letters.Len())
	var ones []int
	for i, x := range vec {
		if x == 1 {
			ones = append(ones, i)
		} else {
			assert.Equal(t, 0.0, x)
		}
	}
	assert.Equal(t, []int{1, len(gen.Categories) + 2}, ones)
}

func TestNameGenSerializeRoundTrip(t *testing.T) {
	gen := NewNameGen(testNameCorpus(t), testNameGenConfig())

	serialized, err := gen.Serialize()
	require.NoError(t, err)
	restored, err := DeserializeNameGen(serialized)
	require.NoError(t, err)

	assert.Equal(t, gen.Categories, restored.Categories)
	assert.Equal(t, gen.Letters.Tokens(), restored.Letters.Tokens())
	assert.Equal(t, gen.Cell.HiddenSize, restored.Cell.HiddenSize)
}
