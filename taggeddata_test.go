package seqlab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anynet/anysgd"
)

func TestToyTaggingData(t *testing.T) {
	data := ToyTaggingData()
	require.Len(t, data, 2)
	for _, sent := range data {
		assert.Equal(t, len(sent.Words), len(sent.Tags))
	}
}

func TestBuildTaggerVocabs(t *testing.T) {
	words, tags := BuildTaggerVocabs(ToyTaggingData())
	// "The" and "the" are distinct tokens, so the toy corpus
	// has 9 words.
	assert.Equal(t, 9, words.Len())
	assert.Equal(t, []string{"DET", "NN", "V"}, tags.Tokens())

	idx, ok := words.Index("The")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestReadTaggedSentences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	contents := "The/DET dog/NN barked/V\n\nshe/PRON ran/V\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	data, err := ReadTaggedSentences(path)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, []string{"The", "dog", "barked"}, data[0].Words)
	assert.Equal(t, []string{"PRON", "V"}, data[1].Tags)
}

func TestReadTaggedSentencesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("dog/NN cat\n"), 0644))

	_, err := ReadTaggedSentences(path)
	assert.Error(t, err)
}

func TestTaggedSampleList(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	list := NewTaggedSampleList(data, words, tags)

	require.Equal(t, 2, list.Len())
	assert.Equal(t, len(data[1].Words), list.LenAt(1))

	sample, err := list.GetSample(0)
	require.NoError(t, err)
	require.Len(t, sample.Input, len(data[0].Words))
	require.Len(t, sample.Output, len(data[0].Tags))
	for i := range sample.Input {
		wordIdx := maxIndex(vecFloats(sample.Input[i]))
		tagIdx := maxIndex(vecFloats(sample.Output[i]))
		assert.Equal(t, data[0].Words[i], words.Token(wordIdx))
		assert.Equal(t, data[0].Tags[i], tags.Token(tagIdx))
	}

	sub := list.Slice(1, 2).(*TaggedSampleList)
	assert.Equal(t, 1, sub.Len())
	assert.Equal(t, data[1].Words, sub.Sentences[0].Words)
}

func TestTaggedSampleListInterfaces(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	list := NewTaggedSampleList(data, words, tags)

	var _ anys2s.SampleList = list
	var _ anysgd.Hasher = list

	assert.NotNil(t, list.Creator())
	assert.Len(t, list.Hash(0), 16)
	assert.NotEqual(t, list.Hash(0), list.Hash(1))
	assert.Equal(t, list.Hash(0), list.Hash(0))
}
