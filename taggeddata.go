package seqlab

import (
	"crypto/md5"
	"fmt"
	"os"
	"strings"

	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
)

// A TaggedSentence pairs a sentence's words with their
// part-of-speech tags.
type TaggedSentence struct {
	Words []string
	Tags  []string
}

// ToyTaggingData returns the built-in two-sentence training
// corpus.
func ToyTaggingData() []TaggedSentence {
	return []TaggedSentence{
		{
			Words: strings.Fields("The dog ate the apple"),
			Tags:  []string{"DET", "NN", "V", "DET", "NN"},
		},
		{
			Words: strings.Fields("Everybody read that book"),
			Tags:  []string{"NN", "V", "DET", "NN"},
		},
	}
}

// ReadTaggedSentences loads additional training sentences
// from a file with one sentence per line, words annotated as
// "word/TAG".
func ReadTaggedSentences(path string) ([]TaggedSentence, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, essentials.AddCtx("read tagged sentences", err)
	}
	var res []TaggedSentence
	for i, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var sent TaggedSentence
		for _, field := range strings.Fields(line) {
			slash := strings.LastIndex(field, "/")
			if slash <= 0 || slash == len(field)-1 {
				return nil, fmt.Errorf("read tagged sentences: line %d: "+
					"malformed token %q", i+1, field)
			}
			sent.Words = append(sent.Words, field[:slash])
			sent.Tags = append(sent.Tags, field[slash+1:])
		}
		res = append(res, sent)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("read tagged sentences: %s is empty", path)
	}
	return res, nil
}

// BuildTaggerVocabs builds the word and tag vocabularies over
// a training corpus, in first-occurrence order.
func BuildTaggerVocabs(data []TaggedSentence) (words, tags *Vocab) {
	words = NewVocab()
	tags = NewVocab()
	for _, sent := range data {
		for _, w := range sent.Words {
			words.Add(w)
		}
		for _, t := range sent.Tags {
			tags.Add(t)
		}
	}
	return
}

// A TaggedSampleList adapts tagged sentences to the sample
// interface used by the sequence-to-sequence trainer. Inputs
// are one-hot word vectors and outputs are one-hot tags.
type TaggedSampleList struct {
	Sentences []TaggedSentence
	Words     *Vocab
	Tags      *Vocab
}

// NewTaggedSampleList creates a sample list over sentences
// whose words and tags are all present in the vocabularies.
func NewTaggedSampleList(data []TaggedSentence, words, tags *Vocab) *TaggedSampleList {
	return &TaggedSampleList{Sentences: data, Words: words, Tags: tags}
}

func (t *TaggedSampleList) Len() int {
	return len(t.Sentences)
}

func (t *TaggedSampleList) Swap(i, j int) {
	t.Sentences[i], t.Sentences[j] = t.Sentences[j], t.Sentences[i]
}

func (t *TaggedSampleList) Slice(start, end int) anysgd.SampleList {
	return &TaggedSampleList{
		Sentences: append([]TaggedSentence{}, t.Sentences[start:end]...),
		Words:     t.Words,
		Tags:      t.Tags,
	}
}

func (t *TaggedSampleList) LenAt(idx int) int {
	return len(t.Sentences[idx].Words)
}

func (t *TaggedSampleList) GetSample(idx int) (*anys2s.Sample, error) {
	sent := t.Sentences[idx]
	var res anys2s.Sample
	for i, w := range sent.Words {
		res.Input = append(res.Input, t.Words.OneHot(w))
		res.Output = append(res.Output, t.Tags.OneHot(sent.Tags[i]))
	}
	return &res, nil
}

func (t *TaggedSampleList) Creator() anyvec.Creator {
	return anyvec32.CurrentCreator()
}

func (t *TaggedSampleList) Hash(idx int) []byte {
	sent := t.Sentences[idx]
	sum := md5.Sum([]byte(strings.Join(sent.Words, " ") + "\n" +
		strings.Join(sent.Tags, " ")))
	return sum[:]
}
