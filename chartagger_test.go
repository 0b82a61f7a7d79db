package seqlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharTaggerCharVocab(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	tagger := NewCharTagger(words, tags, testTaggerConfig())

	for _, w := range words.Tokens() {
		for _, r := range w {
			_, ok := tagger.Chars.Index(string(r))
			assert.True(t, ok, "missing letter %q", string(r))
		}
	}
}

func TestCharTaggerTag(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	tagger := NewCharTagger(words, tags, testTaggerConfig())

	predicted, err := tagger.Tag(data[0].Words)
	require.NoError(t, err)
	require.Len(t, predicted, len(data[0].Words))
	for _, tag := range predicted {
		_, ok := tags.Index(tag)
		assert.True(t, ok)
	}
}

func TestCharTaggerScoresShape(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	tagger := NewCharTagger(words, tags, testTaggerConfig())

	scores, err := tagger.Scores(data[1].Words)
	require.NoError(t, err)
	require.Len(t, scores, len(data[1].Words))
	for _, row := range scores {
		require.Len(t, row, tags.Len())
	}
}

func TestCharTaggerTrainReducesCost(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	tagger := NewCharTagger(words, tags, testTaggerConfig())

	hist := tagger.Train(data, testTaggerConfig())
	require.NotEmpty(t, hist.Losses)
	assert.Less(t, hist.Final(), hist.Losses[0])
}

func TestCharTaggerSerializeRoundTrip(t *testing.T) {
	data := ToyTaggingData()
	words, tags := BuildTaggerVocabs(data)
	tagger := NewCharTagger(words, tags, testTaggerConfig())

	serialized, err := tagger.Serialize()
	require.NoError(t, err)
	restored, err := DeserializeCharTagger(serialized)
	require.NoError(t, err)

	assert.Equal(t, tagger.Words.Tokens(), restored.Words.Tokens())
	assert.Equal(t, tagger.Chars.Tokens(), restored.Chars.Tokens())
	assert.Equal(t, tagger.CharHidden, restored.CharHidden)

	want, err := tagger.Scores(data[0].Words)
	require.NoError(t, err)
	got, err := restored.Scores(data[0].Words)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDeltaSlice(t, want[i], got[i], 1e-4)
	}
}
