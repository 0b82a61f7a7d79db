package seqlab

import (
	"fmt"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

const checkpointPerms = 0755

// A Model is a trainable sequence model that can be saved to
// and restored from a checkpoint file.
type Model interface {
	serializer.Serializer

	Name() string
}

// LoadModel restores a model from a checkpoint file.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, essentials.AddCtx("load model", err)
	}
	obj, err := serializer.DeserializeWithType(data)
	if err != nil {
		return nil, essentials.AddCtx("load model", err)
	}
	model, ok := obj.(Model)
	if !ok {
		return nil, fmt.Errorf("load model: not a model but a %T", obj)
	}
	return model, nil
}

// SaveModel writes a model checkpoint.
func SaveModel(path string, m Model) error {
	data, err := serializer.SerializeWithType(m)
	if err != nil {
		return essentials.AddCtx("save model", err)
	}
	if err := os.WriteFile(path, data, checkpointPerms); err != nil {
		return essentials.AddCtx("save model", err)
	}
	return nil
}
