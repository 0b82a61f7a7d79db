package seqlab

import (
	"encoding/json"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var t Tagger
	serializer.RegisterTypedDeserializer(t.SerializerType(), DeserializeTagger)
}

// A Tagger is a word-level LSTM part-of-speech tagger: a word
// embedding feeds an LSTM whose per-word outputs are
// projected to tag log-probabilities.
type Tagger struct {
	Words *Vocab
	Tags  *Vocab
	Block anyrnn.Stack
}

// NewTagger creates an untrained tagger for the given
// vocabularies.
func NewTagger(words, tags *Vocab, cfg TrainConfig) *Tagger {
	c := anyvec32.CurrentCreator()
	return &Tagger{
		Words: words,
		Tags:  tags,
		Block: anyrnn.Stack{
			&anyrnn.LayerBlock{Layer: NewEmbedding(c, words.Len(), cfg.EmbedDim)},
			anyrnn.NewLSTM(c, cfg.EmbedDim, cfg.HiddenSize),
			&anyrnn.LayerBlock{Layer: anynet.Net{
				anynet.NewFC(c, cfg.HiddenSize, tags.Len()),
				anynet.LogSoftmax,
			}},
		},
	}
}

// DeserializeTagger deserializes a Tagger.
func DeserializeTagger(d []byte) (*Tagger, error) {
	var wordData, tagData serializer.Bytes
	var block anyrnn.Stack
	if err := serializer.DeserializeAny(d, &wordData, &tagData, &block); err != nil {
		return nil, essentials.AddCtx("deserialize Tagger", err)
	}
	res := &Tagger{Words: NewVocab(), Tags: NewVocab(), Block: block}
	if err := json.Unmarshal(wordData, res.Words); err != nil {
		return nil, essentials.AddCtx("deserialize Tagger", err)
	}
	if err := json.Unmarshal(tagData, res.Tags); err != nil {
		return nil, essentials.AddCtx("deserialize Tagger", err)
	}
	return res, nil
}

func (t *Tagger) Name() string {
	return "tagger"
}

// Parameters returns every trainable variable.
func (t *Tagger) Parameters() []*anydiff.Var {
	return anynet.AllParameters(t.Block)
}

// Train fits the tagger to the corpus and returns the loss
// history.
func (t *Tagger) Train(data []TaggedSentence, cfg TrainConfig) *History {
	samples := NewTaggedSampleList(data, t.Words, t.Tags)
	tr := &anys2s.Trainer{
		Func: func(s anyseq.Seq) anyseq.Seq {
			return anyrnn.Map(s, t.Block)
		},
		Cost:    anynet.DotCost{},
		Params:  t.Parameters(),
		Average: true,
	}
	return trainLoop(tr, tr, samples, cfg, func() anyvec.Numeric {
		return tr.LastCost
	})
}

// Scores runs the sentence through the network and returns
// one row of tag log-probabilities per word.
func (t *Tagger) Scores(words []string) ([][]float64, error) {
	if _, err := t.Words.Encode(words); err != nil {
		return nil, essentials.AddCtx("tag scores", err)
	}
	ins := make([]anyvec.Vector, len(words))
	for i, w := range words {
		ins[i] = t.Words.OneHot(w)
	}
	seq := anyseq.ConstSeqList(anyvec32.CurrentCreator(), [][]anyvec.Vector{ins})
	out := anyrnn.Map(seq, t.Block)

	res := make([][]float64, 0, len(words))
	for _, b := range out.Output() {
		res = append(res, vecFloats(b.Packed))
	}
	return res, nil
}

// Tag predicts the most likely tag for each word.
func (t *Tagger) Tag(words []string) ([]string, error) {
	scores, err := t.Scores(words)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(scores))
	for i, row := range scores {
		res[i] = t.Tags.Token(maxIndex(row))
	}
	return res, nil
}

// TagVocab returns the tag vocabulary.
func (t *Tagger) TagVocab() *Vocab {
	return t.Tags
}

// SerializerType returns the unique ID used to serialize
// Taggers with the serializer package.
func (t *Tagger) SerializerType() string {
	return "github.com/seqlab/seqlab.Tagger"
}

// Serialize serializes the Tagger.
func (t *Tagger) Serialize() ([]byte, error) {
	wordData, err := json.Marshal(t.Words)
	if err != nil {
		return nil, err
	}
	tagData, err := json.Marshal(t.Tags)
	if err != nil {
		return nil, err
	}
	return serializer.SerializeAny(
		serializer.Bytes(wordData),
		serializer.Bytes(tagData),
		t.Block,
	)
}
