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
	var c CharTagger
	serializer.RegisterTypedDeserializer(c.SerializerType(), DeserializeCharTagger)
}

// A CharTagger augments the word-level tagger with character
// features: a second LSTM reads each word's letters, and its
// final output is concatenated with the word embedding before
// the tagging LSTM.
type CharTagger struct {
	Words *Vocab
	Tags  *Vocab
	Chars *Vocab

	Embed      *Embedding
	CharRNN    *anyrnn.LSTM
	CharHidden int
	Tagging    anyrnn.Stack
}

// NewCharTagger creates an untrained character-augmented
// tagger. The character vocabulary is built from the letters
// of every word in the word vocabulary.
func NewCharTagger(words, tags *Vocab, cfg TrainConfig) *CharTagger {
	c := anyvec32.CurrentCreator()
	chars := NewVocab()
	for _, w := range words.Tokens() {
		for _, r := range w {
			chars.Add(string(r))
		}
	}
	return &CharTagger{
		Words:   words,
		Tags:    tags,
		Chars:   chars,
		Embed:      NewEmbedding(c, words.Len(), cfg.EmbedDim),
		CharRNN:    anyrnn.NewLSTM(c, chars.Len(), cfg.CharHidden),
		CharHidden: cfg.CharHidden,
		Tagging: anyrnn.Stack{
			anyrnn.NewLSTM(c, cfg.EmbedDim+cfg.CharHidden, cfg.HiddenSize),
			&anyrnn.LayerBlock{Layer: anynet.Net{
				anynet.NewFC(c, cfg.HiddenSize, tags.Len()),
				anynet.LogSoftmax,
			}},
		},
	}
}

// DeserializeCharTagger deserializes a CharTagger.
func DeserializeCharTagger(d []byte) (*CharTagger, error) {
	var wordData, tagData, charData serializer.Bytes
	var embed *Embedding
	var charRNN *anyrnn.LSTM
	var charHidden int
	var tagging anyrnn.Stack
	err := serializer.DeserializeAny(d, &wordData, &tagData, &charData,
		&embed, &charRNN, &charHidden, &tagging)
	if err != nil {
		return nil, essentials.AddCtx("deserialize CharTagger", err)
	}
	res := &CharTagger{
		Words:      NewVocab(),
		Tags:       NewVocab(),
		Chars:      NewVocab(),
		Embed:      embed,
		CharRNN:    charRNN,
		CharHidden: charHidden,
		Tagging:    tagging,
	}
	for _, pair := range []struct {
		data  serializer.Bytes
		vocab *Vocab
	}{{wordData, res.Words}, {tagData, res.Tags}, {charData, res.Chars}} {
		if err := json.Unmarshal(pair.data, pair.vocab); err != nil {
			return nil, essentials.AddCtx("deserialize CharTagger", err)
		}
	}
	return res, nil
}

func (c *CharTagger) Name() string {
	return "char-tagger"
}

// Parameters returns every trainable variable.
func (c *CharTagger) Parameters() []*anydiff.Var {
	return anynet.AllParameters(c.Embed, c.CharRNN, c.Tagging)
}

// Train fits the tagger to the corpus and returns the loss
// history. Sentences are processed one at a time.
func (c *CharTagger) Train(data []TaggedSentence, cfg TrainConfig) *History {
	cfg.BatchSize = 1
	samples := NewTaggedSampleList(data, c.Words, c.Tags)
	tr := &anys2s.Trainer{
		Func:    c.applySeq,
		Cost:    anynet.DotCost{},
		Params:  c.Parameters(),
		Average: true,
	}
	return trainLoop(tr, tr, samples, cfg, func() anyvec.Numeric {
		return tr.LastCost
	})
}

// applySeq maps a sequence of one-hot word vectors (batch
// size one) to a sequence of tag log-probabilities.
func (c *CharTagger) applySeq(in anyseq.Seq) anyseq.Seq {
	steps := make([]*anyseq.ResBatch, 0, len(in.Output()))
	for _, b := range in.Output() {
		wordIdx := maxIndex(vecFloats(b.Packed))
		word := c.Words.Token(wordIdx)
		joined := anynet.ConcatMixer{}.Mix(c.Embed.Lookup(wordIdx),
			c.charFeature(word), 1)
		steps = append(steps, &anyseq.ResBatch{
			Packed:  joined,
			Present: b.Present,
		})
	}
	return anyrnn.Map(anyseq.ResSeq(in.Creator(), steps), c.Tagging)
}

// charFeature runs the character LSTM over a word's letters
// and returns its final output.
func (c *CharTagger) charFeature(word string) anydiff.Res {
	creator := anyvec32.CurrentCreator()
	var letters []anyvec.Vector
	for _, r := range word {
		if _, ok := c.Chars.Index(string(r)); ok {
			letters = append(letters, c.Chars.OneHot(string(r)))
		}
	}
	if len(letters) == 0 {
		return anydiff.NewConst(creator.MakeVector(c.CharHidden))
	}
	seq := anyseq.ConstSeqList(creator, [][]anyvec.Vector{letters})
	return anyseq.Tail(anyrnn.Map(seq, c.CharRNN))
}

// Scores runs the sentence through the network and returns
// one row of tag log-probabilities per word.
func (c *CharTagger) Scores(words []string) ([][]float64, error) {
	if _, err := c.Words.Encode(words); err != nil {
		return nil, essentials.AddCtx("tag scores", err)
	}
	ins := make([]anyvec.Vector, len(words))
	for i, w := range words {
		ins[i] = c.Words.OneHot(w)
	}
	seq := anyseq.ConstSeqList(anyvec32.CurrentCreator(), [][]anyvec.Vector{ins})
	out := c.applySeq(seq)

	res := make([][]float64, 0, len(words))
	for _, b := range out.Output() {
		res = append(res, vecFloats(b.Packed))
	}
	return res, nil
}

// Tag predicts the most likely tag for each word.
func (c *CharTagger) Tag(words []string) ([]string, error) {
	scores, err := c.Scores(words)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(scores))
	for i, row := range scores {
		res[i] = c.Tags.Token(maxIndex(row))
	}
	return res, nil
}

// TagVocab returns the tag vocabulary.
func (c *CharTagger) TagVocab() *Vocab {
	return c.Tags
}

// SerializerType returns the unique ID used to serialize
// CharTaggers with the serializer package.
func (c *CharTagger) SerializerType() string {
	return "github.com/seqlab/seqlab.CharTagger"
}

// Serialize serializes the CharTagger.
func (c *CharTagger) Serialize() ([]byte, error) {
	var vocabData []serializer.Serializer
	for _, v := range []*Vocab{c.Words, c.Tags, c.Chars} {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		vocabData = append(vocabData, serializer.Bytes(data))
	}
	return serializer.SerializeAny(vocabData[0], vocabData[1], vocabData[2],
		c.Embed, c.CharRNN, c.CharHidden, c.Tagging)
}
