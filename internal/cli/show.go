package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath string
}

// HistoryView is the JSON payload for show output.
type HistoryView struct {
	ModelName string     `json:"model_name,omitempty"`
	ModelHash string     `json:"model_hash"`
	Passes    []PassView `json:"passes"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <model-file>",
		Short: "Show a model's stored schedule history",
		Long: `List every stored pass for the model's content hash, oldest first.
The model file is only used to compute the hash; the schedules come from
the database.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "schedule database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, modelPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, err := LoadModel(modelPath)
	if err != nil {
		return reportError(formatter, err)
	}
	hash, err := ir.ModelHash(spec)
	if err != nil {
		return reportError(formatter, err)
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return reportError(formatter, err)
	}
	defer s.Close()

	history, err := s.History(cmd.Context(), hash)
	if err != nil {
		return reportError(formatter, err)
	}

	view := HistoryView{ModelName: spec.Name, ModelHash: hash}
	for _, rec := range history {
		view.Passes = append(view.Passes, PassView{
			PassID:    rec.PassID.String(),
			ModelName: rec.ModelName,
			ModelHash: rec.ModelHash,
			Schedule:  rec.Schedule,
			Repaired:  rec.Repaired,
			Seq:       rec.Seq,
		})
	}

	return outputHistory(formatter, view)
}

func outputHistory(formatter *OutputFormatter, view HistoryView) error {
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	fmt.Fprintf(formatter.Writer, "model %s\n", view.ModelHash)
	if len(view.Passes) == 0 {
		fmt.Fprintln(formatter.Writer, "  no stored passes")
		return nil
	}
	for _, p := range view.Passes {
		kind := "full"
		if p.Repaired {
			kind = "repair"
		}
		fmt.Fprintf(formatter.Writer, "  seq %d  %-6s  %s  [%s]\n", p.Seq, kind, p.PassID, p.Schedule)
	}
	return nil
}
