package seqlab

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatScores renders per-word tag log-probabilities as a
// text table: one row per word, one column per tag, and a
// final column naming the best-scoring tag.
func FormatScores(words []string, tags *Vocab, scores [][]float64) string {
	t := table.NewWriter()
	header := table.Row{"word"}
	for _, tag := range tags.Tokens() {
		header = append(header, tag)
	}
	header = append(header, "best")
	t.AppendHeader(header)

	for i, word := range words {
		row := table.Row{word}
		for _, s := range scores[i] {
			row = append(row, fmt.Sprintf("%.3f", s))
		}
		row = append(row, tags.Token(maxIndex(scores[i])))
		t.AppendRow(row)
	}
	return t.Render()
}
