package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqlab/seqlab"
)

// A tagModel is either the word-level or the
// character-augmented tagger.
type tagModel interface {
	seqlab.Model

	Tag(words []string) ([]string, error)
	Scores(words []string) ([][]float64, error)
	TagVocab() *seqlab.Vocab
}

func taggerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagger",
		Short: "LSTM part-of-speech tagging",
	}
	cmd.AddCommand(taggerTrainCommand())
	cmd.AddCommand(taggerTagCommand())
	return cmd
}

func taggerTrainCommand() *cobra.Command {
	cfg := seqlab.DefaultTaggerConfig()
	var configPath, dataPath, plotPath string
	var useChars bool

	cmd := &cobra.Command{
		Use:   "train <checkpoint>",
		Short: "Train a tagger on the built-in toy corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := seqlab.LoadConfig(configPath, &cfg); err != nil {
					return err
				}
			}
			data := seqlab.ToyTaggingData()
			if dataPath != "" {
				extra, err := seqlab.ReadTaggedSentences(dataPath)
				if err != nil {
					return err
				}
				data = append(data, extra...)
			}

			model, err := loadOrNewTagger(args[0], data, cfg, useChars)
			if err != nil {
				return err
			}

			probe := data[0].Words
			printScores(model, probe, "Scores before training:")

			var hist *seqlab.History
			switch m := model.(type) {
			case *seqlab.Tagger:
				hist = m.Train(data, cfg)
			case *seqlab.CharTagger:
				hist = m.Train(data, cfg)
			}

			printScores(model, probe, "Scores after training:")
			if plotPath != "" {
				if err := seqlab.SaveLossPlot(plotPath, hist); err != nil {
					return err
				}
				log.Println("Wrote loss plot to", plotPath)
			}
			return seqlab.SaveModel(args[0], model)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&cfg.StepSize, "stepsize", cfg.StepSize, "SGD step size")
	fl.IntVar(&cfg.Iters, "iters", cfg.Iters, "training iterations")
	fl.IntVar(&cfg.EmbedDim, "embedding", cfg.EmbedDim, "word embedding size")
	fl.IntVar(&cfg.HiddenSize, "hidden", cfg.HiddenSize, "LSTM hidden size")
	fl.IntVar(&cfg.CharHidden, "charhidden", cfg.CharHidden,
		"character LSTM hidden size (char variant)")
	fl.BoolVar(&useChars, "chars", false, "use the character-augmented tagger")
	fl.StringVar(&dataPath, "data", "", "extra word/TAG training file")
	fl.StringVar(&configPath, "config", "", "YAML hyper-parameter file")
	fl.StringVar(&plotPath, "plot", "", "write a loss plot image")
	return cmd
}

func taggerTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <checkpoint> <word>...",
		Short: "Tag a sentence with a trained model",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadTagModel(args[0])
			if err != nil {
				return err
			}
			words := args[1:]
			scores, err := model.Scores(words)
			if err != nil {
				return err
			}
			fmt.Println(seqlab.FormatScores(words, model.TagVocab(), scores))
			return nil
		},
	}
	return cmd
}

// loadOrNewTagger restores a checkpoint when one exists,
// otherwise it builds a fresh model over the corpus vocabs.
func loadOrNewTagger(path string, data []seqlab.TaggedSentence,
	cfg seqlab.TrainConfig, useChars bool) (tagModel, error) {
	if _, err := os.Stat(path); err == nil {
		model, err := loadTagModel(path)
		if err != nil {
			return nil, err
		}
		log.Println("Loaded model from file.")
		return model, nil
	}
	log.Println("Created new model.")
	words, tags := seqlab.BuildTaggerVocabs(data)
	if useChars {
		return seqlab.NewCharTagger(words, tags, cfg), nil
	}
	return seqlab.NewTagger(words, tags, cfg), nil
}

func loadTagModel(path string) (tagModel, error) {
	model, err := seqlab.LoadModel(path)
	if err != nil {
		return nil, err
	}
	tagger, ok := model.(tagModel)
	if !ok {
		return nil, fmt.Errorf("checkpoint is not a tagger but a %T", model)
	}
	return tagger, nil
}

func printScores(model tagModel, words []string, heading string) {
	scores, err := model.Scores(words)
	if err != nil {
		log.Println("Could not compute scores:", err)
		return
	}
	fmt.Println(heading)
	fmt.Println(seqlab.FormatScores(words, model.TagVocab(), scores))
}
