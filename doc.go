// Package seqlab implements small recurrent sequence models
// over toy text corpora: an LSTM part-of-speech tagger (with
// an optional character-augmented variant) and a conditional
// character-level name generator.
//
// The heavy lifting (automatic differentiation, LSTM cells,
// gradient descent) is delegated to the anynet family of
// packages; seqlab supplies the vocabularies, data pipelines,
// model wiring, and sampling loops.
package seqlab
