package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqlab/seqlab"
)

func namegenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "namegen",
		Short: "Conditional character-level name generation",
	}
	cmd.AddCommand(namegenTrainCommand())
	cmd.AddCommand(namegenSampleCommand())
	return cmd
}

func namegenTrainCommand() *cobra.Command {
	cfg := seqlab.DefaultNameGenConfig()
	var configPath, plotPath, modelKind string
	var history int

	cmd := &cobra.Command{
		Use:   "train <checkpoint> <data-dir>",
		Short: "Train a name generator on a directory of per-category name files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := seqlab.LoadConfig(configPath, &cfg); err != nil {
					return err
				}
			}
			corpus, err := seqlab.ReadCategoryLines(args[1])
			if err != nil {
				return err
			}

			if modelKind == "markov" {
				model := seqlab.NewNameMarkov(history)
				model.Validation = cfg.Validation
				model.Train(corpus)
				return seqlab.SaveModel(args[0], model)
			}

			model, err := loadOrNewNameGen(args[0], corpus, cfg)
			if err != nil {
				return err
			}
			hist, err := model.Train(corpus, cfg)
			if err != nil {
				return err
			}
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
	fl.StringVar(&modelKind, "model", "rnn", "model type (rnn or markov)")
	fl.Float64Var(&cfg.StepSize, "stepsize", cfg.StepSize, "SGD step size")
	fl.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "mini-batch size")
	fl.IntVar(&cfg.Iters, "iters", cfg.Iters, "training iterations")
	fl.IntVar(&cfg.HiddenSize, "hidden", cfg.HiddenSize, "hidden state size")
	fl.Float64Var(&cfg.KeepProb, "dropout", cfg.KeepProb,
		"dropout keep probability (1=no dropout)")
	fl.Float64Var(&cfg.Validation, "validation", cfg.Validation,
		"validation fraction")
	fl.IntVar(&history, "history", 3, "letter history size (markov)")
	fl.StringVar(&configPath, "config", "", "YAML hyper-parameter file")
	fl.StringVar(&plotPath, "plot", "", "write a loss plot image")
	return cmd
}

func namegenSampleCommand() *cobra.Command {
	var maxLen int
	var temperature float64

	cmd := &cobra.Command{
		Use:   "sample <checkpoint> <category> [start-letters]",
		Short: "Generate names, one per start letter",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			starts := "A"
			if len(args) == 3 {
				starts = args[2]
			}
			model, err := seqlab.LoadModel(args[0])
			if err != nil {
				return err
			}
			category := args[1]

			switch m := model.(type) {
			case *seqlab.NameGen:
				names, err := m.SampleMany(category, starts, maxLen, temperature)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Println(name)
				}
			case *seqlab.NameMarkov:
				for _, r := range starts {
					name, err := m.Sample(category, r, maxLen)
					if err != nil {
						return err
					}
					fmt.Println(name)
				}
			default:
				return fmt.Errorf("checkpoint is not a name generator but a %T", model)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLen, "maxlen", seqlab.DefaultMaxNameLen,
		"maximum name length")
	cmd.Flags().Float64Var(&temperature, "temperature", 0,
		"sampling temperature (0=greedy)")
	return cmd
}

func loadOrNewNameGen(path string, corpus *seqlab.NameCorpus,
	cfg seqlab.TrainConfig) (*seqlab.NameGen, error) {
	if _, err := os.Stat(path); err == nil {
		model, err := seqlab.LoadModel(path)
		if err != nil {
			return nil, err
		}
		gen, ok := model.(*seqlab.NameGen)
		if !ok {
			return nil, fmt.Errorf("checkpoint is not a name generator but a %T",
				model)
		}
		log.Println("Loaded model from file.")
		return gen, nil
	}
	log.Println("Created new model.")
	return seqlab.NewNameGen(corpus, cfg), nil
}
