package seqlab

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/serializer"
)

func init() {
	var m NameMarkov
	serializer.RegisterTypedDeserializer(m.SerializerType(), DeserializeNameMarkov)
}

const entropySoftener = 1e-5

// markovEnd is the table key marking the end of a name.
const markovEnd = ""

// A NameMarkov is a per-category letter-level Markov chain.
// It is a cheap baseline next to the recurrent NameGen.
type NameMarkov struct {
	// Tables maps category -> state -> next letter -> probability,
	// where states are strings of up to History letters and the
	// empty next-letter key ends a name.
	Tables  map[string]map[string]map[string]float64
	History int

	Validation float64 `json:"-"`
}

// NewNameMarkov creates an empty chain with the given history
// size.
func NewNameMarkov(history int) *NameMarkov {
	return &NameMarkov{History: history}
}

// DeserializeNameMarkov deserializes a NameMarkov.
func DeserializeNameMarkov(d []byte) (*NameMarkov, error) {
	var res NameMarkov
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *NameMarkov) Name() string {
	return "markov"
}

// Train counts letter transitions per category and normalizes
// them into probabilities.
func (m *NameMarkov) Train(corpus *NameCorpus) {
	pairs := corpusPairs(corpus)
	validation, training := anysgd.HashSplit(pairs, m.Validation)
	log.Printf("Training: %d names", training.Len())
	log.Printf("Validation: %d names", validation.Len())

	m.Tables = map[string]map[string]map[string]float64{}
	totals := map[string]map[string]float64{}

	log.Println("Producing chains...")
	for _, pair := range training.(categoryNames) {
		table := m.Tables[pair.Category]
		if table == nil {
			table = map[string]map[string]float64{}
			m.Tables[pair.Category] = table
			totals[pair.Category] = map[string]float64{}
		}
		state := ""
		for _, letter := range append(letterStrings(pair.Name), markovEnd) {
			if table[state] == nil {
				table[state] = map[string]float64{}
			}
			table[state][letter]++
			totals[pair.Category][state]++
			state = m.appendState(state, letter)
		}
	}

	log.Println("Normalizing chains...")
	for cat, table := range m.Tables {
		for state := range table {
			total := totals[cat][state]
			for k, v := range table[state] {
				table[state][k] = v / total
			}
		}
	}

	log.Println("Training entropy:", m.averageEntropy(training.(categoryNames)))
	if validation.Len() > 0 {
		log.Println("Validation entropy:", m.averageEntropy(validation.(categoryNames)))
	}
}

// Sample generates a name for a category starting with the
// given letter, bounded by maxLen letters.
func (m *NameMarkov) Sample(category string, start rune, maxLen int) (string, error) {
	table := m.Tables[category]
	if table == nil {
		return "", fmt.Errorf("sample: unknown category %q", category)
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLen
	}
	out := string(start)
	state := m.appendState("", string(start))
	for len([]rune(out)) < maxLen {
		next := m.selectRandom(table, state)
		if next == markovEnd {
			break
		}
		out += next
		state = m.appendState(state, next)
	}
	return out, nil
}

// SerializerType returns the unique ID used to serialize
// NameMarkovs with the serializer package.
func (m *NameMarkov) SerializerType() string {
	return "github.com/seqlab/seqlab.NameMarkov"
}

// Serialize serializes the NameMarkov.
func (m *NameMarkov) Serialize() ([]byte, error) {
	return json.Marshal(m)
}

func (m *NameMarkov) averageEntropy(pairs categoryNames) float64 {
	var totalEntropy float64
	var letterCount float64
	for _, pair := range pairs {
		totalEntropy += m.nameEntropy(pair.Category, pair.Name)
		letterCount += float64(len([]rune(pair.Name)))
	}
	return totalEntropy / letterCount
}

func (m *NameMarkov) nameEntropy(category, name string) float64 {
	entropy := 0.0
	state := ""
	for _, letter := range letterStrings(name) {
		p := m.Tables[category][state][letter]
		if p == 0 {
			p = entropySoftener
		}
		entropy += math.Log(p)
		state = m.appendState(state, letter)
	}
	return -entropy
}

func (m *NameMarkov) selectRandom(table map[string]map[string]float64,
	state string) string {
	next := table[state]
	if len(next) == 0 {
		return markovEnd
	}
	selection := rand.Float64()
	for letter, prob := range next {
		selection -= prob
		if selection < 0 {
			return letter
		}
	}
	return markovEnd
}

func (m *NameMarkov) appendState(state, letter string) string {
	runes := append([]rune(state), []rune(letter)...)
	if len(runes) > m.History {
		runes = runes[len(runes)-m.History:]
	}
	return string(runes)
}

func letterStrings(name string) []string {
	var res []string
	for _, r := range name {
		res = append(res, string(r))
	}
	return res
}

type categoryName struct {
	Category string
	Name     string
}

type categoryNames []categoryName

func corpusPairs(corpus *NameCorpus) categoryNames {
	var res categoryNames
	for _, cat := range corpus.Categories {
		for _, name := range corpus.Lines[cat] {
			res = append(res, categoryName{Category: cat, Name: name})
		}
	}
	return res
}

func (c categoryNames) Len() int {
	return len(c)
}

func (c categoryNames) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

func (c categoryNames) Slice(start, end int) anysgd.SampleList {
	return append(categoryNames{}, c[start:end]...)
}

func (c categoryNames) Hash(idx int) []byte {
	sum := md5.Sum([]byte(c[idx].Category + "\n" + c[idx].Name))
	return sum[:]
}
