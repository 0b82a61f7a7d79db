package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	root := &cobra.Command{
		Use:           "seqlab",
		Short:         "Train and sample toy recurrent sequence models",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(taggerCommand())
	root.AddCommand(namegenCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
