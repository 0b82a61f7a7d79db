package seqlab

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strconv"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

// EOSToken is the reserved vocabulary entry whose index marks
// the end of a generated name.
const EOSToken = "<eos>"

// DefaultMaxNameLen bounds generated names when no explicit
// limit is given.
const DefaultMaxNameLen = 20

func init() {
	var n NameGen
	serializer.RegisterTypedDeserializer(n.SerializerType(), DeserializeNameGen)
}

// A NameGen generates names one letter at a time, conditioned
// on a category (e.g. the name's language).
type NameGen struct {
	Categories []string
	Letters    *Vocab
	Cell       *NameCell
}

// NewNameGen creates an untrained generator for a corpus. The
// letter vocabulary is the corpus's letters plus a trailing
// end-of-sequence entry.
func NewNameGen(corpus *NameCorpus, cfg TrainConfig) *NameGen {
	letters := corpus.LetterVocab()
	letters.Add(EOSToken)
	cell := NewNameCell(anyvec32.CurrentCreator(), len(corpus.Categories),
		letters.Len(), cfg.HiddenSize, cfg.KeepProb)
	return &NameGen{
		Categories: append([]string{}, corpus.Categories...),
		Letters:    letters,
		Cell:       cell,
	}
}

// DeserializeNameGen deserializes a NameGen.
func DeserializeNameGen(d []byte) (*NameGen, error) {
	var catData, letterData serializer.Bytes
	var cell *NameCell
	if err := serializer.DeserializeAny(d, &catData, &letterData, &cell); err != nil {
		return nil, essentials.AddCtx("deserialize NameGen", err)
	}
	res := &NameGen{Letters: NewVocab(), Cell: cell}
	if err := json.Unmarshal(catData, &res.Categories); err != nil {
		return nil, essentials.AddCtx("deserialize NameGen", err)
	}
	if err := json.Unmarshal(letterData, res.Letters); err != nil {
		return nil, essentials.AddCtx("deserialize NameGen", err)
	}
	return res, nil
}

func (g *NameGen) Name() string {
	return "namegen"
}

// Parameters returns every trainable variable.
func (g *NameGen) Parameters() []*anydiff.Var {
	return g.Cell.Parameters()
}

// Train fits the generator to the corpus and returns the loss
// history.
func (g *NameGen) Train(corpus *NameCorpus, cfg TrainConfig) (*History, error) {
	samples, err := g.sampleList(corpus)
	if err != nil {
		return nil, err
	}
	anysgd.Shuffle(samples)

	var validation anysgd.SampleList
	training := anysgd.SampleList(samples)
	if cfg.Validation > 0 {
		validation, training = anysgd.HashSplit(samples, cfg.Validation)
		log.Printf("Training: %d names", training.Len())
		log.Printf("Validation: %d names", validation.Len())
	}

	g.setTraining(true)
	defer g.setTraining(false)

	tr := &anys2s.Trainer{
		Func: func(s anyseq.Seq) anyseq.Seq {
			return anyrnn.Map(s, g.Cell.Block())
		},
		Cost:    anynet.DotCost{},
		Params:  g.Parameters(),
		Average: true,
	}
	hist := trainLoop(tr, tr, training, cfg, func() anyvec.Numeric {
		return tr.LastCost
	})

	if validation != nil && validation.Len() > 0 {
		g.setTraining(false)
		batch, err := tr.Fetch(validation)
		if err != nil {
			return nil, essentials.AddCtx("validation", err)
		}
		cost := tr.TotalCost(batch.(*anys2s.Batch))
		log.Printf("Validation cost: %f",
			numericFloat(anyvec.Sum(cost.Output())))
	}
	return hist, nil
}

// Sample generates one name for a category, beginning with
// the start letter and decoding until the end-of-sequence
// index or maxLen letters.
//
// A temperature of zero decodes greedily; a positive
// temperature samples from the softened distribution.
func (g *NameGen) Sample(category string, start rune, maxLen int,
	temperature float64) (string, error) {
	catIdx := -1
	for i, c := range g.Categories {
		if c == category {
			catIdx = i
			break
		}
	}
	if catIdx < 0 {
		return "", fmt.Errorf("sample: unknown category %q", category)
	}
	startIdx, ok := g.Letters.Index(string(start))
	if !ok {
		return "", fmt.Errorf("sample: unknown start letter %q", start)
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLen
	}

	g.setTraining(false)
	block := g.Cell.Block()
	state := block.Start(1)
	step := func(letter int) []float64 {
		res := block.Step(state, g.inputVector(catIdx, letter))
		state = res.State()
		return vecFloats(res.Output())
	}
	pick := maxIndex
	if temperature > 0 {
		pick = func(logProbs []float64) int {
			return chooseLogIndex(logProbs, temperature)
		}
	}

	indices := decodeName(step, pick, startIdx, g.Letters.MustIndex(EOSToken), maxLen)
	var out []rune
	for _, idx := range indices {
		out = append(out, []rune(g.Letters.Token(idx))[0])
	}
	return string(out), nil
}

// SampleMany generates one name per start letter.
func (g *NameGen) SampleMany(category, startLetters string, maxLen int,
	temperature float64) ([]string, error) {
	var res []string
	for _, r := range startLetters {
		name, err := g.Sample(category, r, maxLen, temperature)
		if err != nil {
			return nil, err
		}
		res = append(res, name)
	}
	return res, nil
}

// SerializerType returns the unique ID used to serialize
// NameGens with the serializer package.
func (g *NameGen) SerializerType() string {
	return "github.com/seqlab/seqlab.NameGen"
}

// Serialize serializes the NameGen.
func (g *NameGen) Serialize() ([]byte, error) {
	catData, err := json.Marshal(g.Categories)
	if err != nil {
		return nil, err
	}
	letterData, err := json.Marshal(g.Letters)
	if err != nil {
		return nil, err
	}
	return serializer.SerializeAny(serializer.Bytes(catData),
		serializer.Bytes(letterData), g.Cell)
}

func (g *NameGen) setTraining(training bool) {
	g.Cell.Dropout.Enabled = training
}

// inputVector builds one timestep of input: the category
// one-hot concatenated with the letter one-hot.
func (g *NameGen) inputVector(category, letter int) anyvec.Vector {
	data := make([]float32, len(g.Categories)+g.Letters.Len())
	data[category] = 1
	data[len(g.Categories)+letter] = 1
	return anyvec32.MakeVectorData(data)
}

func (g *NameGen) sampleList(corpus *NameCorpus) (nameSampleList, error) {
	if len(corpus.Categories) != len(g.Categories) {
		return nil, fmt.Errorf("train: corpus categories do not match model")
	}
	var res nameSampleList
	for i, cat := range corpus.Categories {
		if g.Categories[i] != cat {
			return nil, fmt.Errorf("train: corpus categories do not match model")
		}
		for _, name := range corpus.Lines[cat] {
			res = append(res, nameSample{gen: g, category: i, name: name})
		}
	}
	return res, nil
}

// decodeName autoregressively decodes letter indices: each
// emitted index is fed back as the next input. The result
// always includes the start index, never includes eos, and
// never exceeds maxLen indices.
func decodeName(step func(letter int) []float64, pick func([]float64) int,
	start, eos, maxLen int) []int {
	out := []int{start}
	cur := start
	for len(out) < maxLen {
		idx := pick(step(cur))
		if idx == eos {
			break
		}
		out = append(out, idx)
		cur = idx
	}
	return out
}

func chooseLogIndex(logProbs []float64, temp float64) int {
	n := rand.Float64()
	var sum float64
	for _, x := range logProbs {
		sum += math.Exp(x / temp)
	}
	var curSum float64
	for i, x := range logProbs {
		curSum += math.Exp(x / temp)
		if curSum/sum > n {
			return i
		}
	}
	return len(logProbs) - 1
}

type nameSample struct {
	gen      *NameGen
	category int
	name     string
}

type nameSampleList []nameSample

func (n nameSampleList) Len() int {
	return len(n)
}

func (n nameSampleList) Swap(i, j int) {
	n[i], n[j] = n[j], n[i]
}

func (n nameSampleList) Slice(start, end int) anysgd.SampleList {
	return append(nameSampleList{}, n[start:end]...)
}

func (n nameSampleList) LenAt(idx int) int {
	return len([]rune(n[idx].name))
}

// GetSample encodes a name as a next-letter prediction
// sequence: the input at step t is the category plus letter
// t, and the target is letter t+1 (or end-of-sequence after
// the final letter).
func (n nameSampleList) GetSample(idx int) (*anys2s.Sample, error) {
	s := n[idx]
	letters := []rune(s.name)
	eos := s.gen.Letters.MustIndex(EOSToken)

	var res anys2s.Sample
	for i, r := range letters {
		res.Input = append(res.Input,
			s.gen.inputVector(s.category, s.gen.Letters.MustIndex(string(r))))
		target := eos
		if i+1 < len(letters) {
			target = s.gen.Letters.MustIndex(string(letters[i+1]))
		}
		res.Output = append(res.Output, oneHot(s.gen.Letters.Len(), target))
	}
	return &res, nil
}

func (n nameSampleList) Creator() anyvec.Creator {
	return anyvec32.CurrentCreator()
}

func (n nameSampleList) Hash(idx int) []byte {
	s := n[idx]
	sum := md5.Sum([]byte(strconv.Itoa(s.category) + "\n" + s.name))
	return sum[:]
}
