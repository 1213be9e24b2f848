package main

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/nash/internal/experiment"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model.born>",
		Short: "Print a saved model checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, header, err := experiment.LoadModel(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "model\t%s\n", header.ModelType)
			fmt.Fprintf(w, "created\t%s\n", header.CreatedAt.Format("2006-01-02 15:04:05"))
			for _, key := range slices.Sorted(maps.Keys(header.Metadata)) {
				fmt.Fprintf(w, "%s\t%s\n", key, header.Metadata[key])
			}
			if t := header.Training; t != nil {
				fmt.Fprintf(w, "epochs\t%d\n", t.Epochs)
				fmt.Fprintf(w, "final_loss\t%g\n", t.FinalLoss)
				fmt.Fprintf(w, "seed\t%d\n", t.Seed)
			}
			for i, v := range model.Weights.Data() {
				fmt.Fprintf(w, "v%d\t%g\n", i+1, v)
			}
			fmt.Fprintf(w, "b\t%g\n", model.Bias.Item())
			return w.Flush()
		},
	}
}
