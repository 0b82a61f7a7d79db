package seqlab

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/unixpickle/essentials"
	"golang.org/x/text/unicode/norm"
)

// A NameCorpus is a set of names grouped by category, where
// each category came from one newline-delimited text file.
type NameCorpus struct {
	// Categories lists the category names in sorted order.
	Categories []string

	// Lines maps a category to its names, in file order.
	Lines map[string][]string
}

// ReadCategoryLines loads a name corpus from a directory of
// per-category text files (e.g. "English.txt"), normalizing
// every name from Unicode to plain ASCII.
//
// If the directory is missing or contains no data files, the
// error tells the user how to obtain the dataset.
func ReadCategoryLines(dir string) (*NameCorpus, error) {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, dataMissingError(dir)
	}

	res := &NameCorpus{Lines: map[string][]string{}}
	for _, item := range listing {
		if item.IsDir() || !strings.HasSuffix(item.Name(), ".txt") {
			continue
		}
		category := strings.TrimSuffix(item.Name(), ".txt")
		contents, err := os.ReadFile(filepath.Join(dir, item.Name()))
		if err != nil {
			return nil, essentials.AddCtx("read name corpus", err)
		}
		var lines []string
		for _, line := range strings.Split(string(contents), "\n") {
			line = unicodeToASCII(strings.TrimSpace(line))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		res.Categories = append(res.Categories, category)
		res.Lines[category] = lines
	}

	if len(res.Categories) == 0 {
		return nil, dataMissingError(dir)
	}
	sort.Strings(res.Categories)
	return res, nil
}

func dataMissingError(dir string) error {
	return fmt.Errorf("no name data in %s: download the dataset from "+
		"https://download.pytorch.org/tutorial/data.zip and extract "+
		"its data/names directory", dir)
}

// NumNames returns the total name count across categories.
func (n *NameCorpus) NumNames() int {
	var total int
	for _, lines := range n.Lines {
		total += len(lines)
	}
	return total
}

// LetterVocab builds the letter vocabulary over every name in
// the corpus, in first-occurrence order.
func (n *NameCorpus) LetterVocab() *Vocab {
	v := NewVocab()
	for _, cat := range n.Categories {
		for _, name := range n.Lines[cat] {
			for _, r := range name {
				v.Add(string(r))
			}
		}
	}
	return v
}

// unicodeToASCII decomposes a string and strips combining
// marks and non-ASCII runes, so e.g. "Béringer" becomes
// "Beringer".
func unicodeToASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) || r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
