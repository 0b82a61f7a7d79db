package seqlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameMarkovTrainAndSample(t *testing.T) {
	corpus := testNameCorpus(t)
	m := NewNameMarkov(2)
	m.Train(corpus)

	alphabet := map[string]bool{}
	for _, name := range append(corpus.Lines["English"], corpus.Lines["Spanish"]...) {
		for _, r := range name {
			alphabet[string(r)] = true
		}
	}

	for i := 0; i < 10; i++ {
		name, err := m.Sample("English", 'A', 12)
		require.NoError(t, err)
		require.NotEmpty(t, name)
		assert.LessOrEqual(t, len([]rune(name)), 12)
		for _, r := range name {
			assert.True(t, alphabet[string(r)], "letter %q not in corpus", string(r))
		}
	}
}

func TestNameMarkovUnknownCategory(t *testing.T) {
	m := NewNameMarkov(2)
	m.Train(testNameCorpus(t))
	_, err := m.Sample("Klingon", 'A', 12)
	assert.Error(t, err)
}

func TestNameMarkovSerializeRoundTrip(t *testing.T) {
	m := NewNameMarkov(3)
	m.Train(testNameCorpus(t))

	data, err := m.Serialize()
	require.NoError(t, err)
	restored, err := DeserializeNameMarkov(data)
	require.NoError(t, err)

	assert.Equal(t, m.History, restored.History)
	assert.Equal(t, m.Tables, restored.Tables)
}

func TestMarkovAppendState(t *testing.T) {
	m := NewNameMarkov(2)
	state := m.appendState("", "a")
	state = m.appendState(state, "b")
	state = m.appendState(state, "c")
	assert.Equal(t, "bc", state)
}
