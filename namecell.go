package seqlab

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var n NameCell
	serializer.RegisterTypedDeserializer(n.SerializerType(), DeserializeNameCell)
}

// A NameCell is a hand-rolled recurrent cell for conditional
// letter prediction. Each step combines the category one-hot,
// the input letter one-hot, and the hidden state through
// three linear layers:
//
//	hidden' = I2H(category ‖ letter ‖ hidden)
//	output  = O2O(hidden' ‖ I2O(category ‖ letter ‖ hidden))
//
// followed by dropout and a log-softmax over the letters.
type NameCell struct {
	NumCategories int
	NumLetters    int
	HiddenSize    int

	I2H     *anynet.FC
	I2O     *anynet.FC
	O2O     *anynet.FC
	Dropout *anynet.Dropout
}

// NewNameCell creates a randomly-initialized cell.
func NewNameCell(c anyvec.Creator, numCategories, numLetters, hidden int,
	keepProb float64) *NameCell {
	combined := numCategories + numLetters + hidden
	return &NameCell{
		NumCategories: numCategories,
		NumLetters:    numLetters,
		HiddenSize:    hidden,

		I2H:     anynet.NewFC(c, combined, hidden),
		I2O:     anynet.NewFC(c, combined, numLetters),
		O2O:     anynet.NewFC(c, hidden+numLetters, numLetters),
		Dropout: &anynet.Dropout{KeepProb: keepProb},
	}
}

// DeserializeNameCell deserializes a NameCell.
func DeserializeNameCell(d []byte) (*NameCell, error) {
	var res NameCell
	var keepProb float64
	err := serializer.DeserializeAny(d, &res.NumCategories, &res.NumLetters,
		&res.HiddenSize, &res.I2H, &res.I2O, &res.O2O, &keepProb)
	if err != nil {
		return nil, essentials.AddCtx("deserialize NameCell", err)
	}
	res.Dropout = &anynet.Dropout{KeepProb: keepProb}
	return &res, nil
}

// Block returns the cell as a recurrent block whose state is
// the hidden vector (initially zero).
func (n *NameCell) Block() anyrnn.Block {
	return &anyrnn.FuncBlock{
		Func:      n.step,
		MakeStart: n.makeStart,
	}
}

func (n *NameCell) makeStart(num int) anydiff.Res {
	c := n.I2H.Parameters()[0].Vector.Creator()
	return anydiff.NewConst(c.MakeVector(num * n.HiddenSize))
}

func (n *NameCell) step(in, state anydiff.Res, batch int) (anydiff.Res, anydiff.Res) {
	combined := anynet.ConcatMixer{}.Mix(in, state, batch)
	hidden := n.I2H.Apply(combined, batch)
	preOut := n.I2O.Apply(combined, batch)
	joined := anynet.ConcatMixer{}.Mix(hidden, preOut, batch)
	out := n.O2O.Apply(joined, batch)
	out = n.Dropout.Apply(out, batch)
	out = anynet.LogSoftmax.Apply(out, batch)
	return out, hidden
}

// Parameters returns every trainable variable.
func (n *NameCell) Parameters() []*anydiff.Var {
	return anynet.AllParameters(n.I2H, n.I2O, n.O2O)
}

// SerializerType returns the unique ID used to serialize
// NameCells with the serializer package.
func (n *NameCell) SerializerType() string {
	return "github.com/seqlab/seqlab.NameCell"
}

// Serialize serializes the NameCell.
func (n *NameCell) Serialize() ([]byte, error) {
	return serializer.SerializeAny(n.NumCategories, n.NumLetters, n.HiddenSize,
		n.I2H, n.I2O, n.O2O, n.Dropout.KeepProb)
}
