package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferkit/schedc/internal/compile"
	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	DBPath string // schedule database; empty means don't persist
}

// PassView is the wire form of one compiled pass, shared by compile, repair
// and show output.
type PassView struct {
	PassID    string      `json:"pass_id"`
	ModelName string      `json:"model_name,omitempty"`
	ModelHash string      `json:"model_hash"`
	Schedule  ir.Schedule `json:"schedule"`
	Repaired  bool        `json:"repaired"`
	Seq       int64       `json:"seq,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <model-file>",
		Short: "Compile a model into a full execution schedule",
		Long: `Compile a model description (CUE, YAML or JSON) into a schedule that
executes every statement once, respecting dependency edges and keeping
group members contiguous.

With --db, the pass is appended to the model's schedule history so a later
"schedc repair" can reuse it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Errors are rendered by our own formatter
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "schedule database path")

	return cmd
}

func runCompile(opts *CompileOptions, modelPath string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Loaded model %q: %d statement(s), %d edge(s)",
		spec.Name, spec.Statements, len(spec.Edges))

	res, err := compile.Compile(spec)
	if err != nil {
		return reportError(formatter, err)
	}

	view := PassView{
		PassID:    res.PassID.String(),
		ModelName: spec.Name,
		ModelHash: res.ModelHash,
		Schedule:  res.Schedule,
		Repaired:  res.Repaired,
	}

	if opts.DBPath != "" {
		seq, err := savePass(cmd.Context(), opts.DBPath, spec.Name, res)
		if err != nil {
			return reportError(formatter, err)
		}
		view.Seq = seq
		formatter.VerboseLog("Saved pass %s as seq %d in %s", view.PassID, seq, opts.DBPath)
	}

	return outputPass(formatter, view)
}

// savePass appends one pass to the schedule database.
func savePass(ctx context.Context, dbPath, modelName string, res *compile.Result) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	return s.SavePass(ctx, store.PassRecord{
		PassID:    res.PassID,
		ModelHash: res.ModelHash,
		ModelName: modelName,
		Schedule:  res.Schedule,
		Repaired:  res.Repaired,
	})
}

// outputPass renders one pass in the configured format.
func outputPass(formatter *OutputFormatter, view PassView) error {
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	kind := "compiled"
	if view.Repaired {
		kind = "repaired"
	}
	name := view.ModelName
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(formatter.Writer, "✓ %s model %s\n", kind, name)
	fmt.Fprintf(formatter.Writer, "  pass:     %s\n", view.PassID)
	fmt.Fprintf(formatter.Writer, "  model:    %s\n", view.ModelHash)
	fmt.Fprintf(formatter.Writer, "  schedule: %s\n", view.Schedule)
	if view.Seq > 0 {
		fmt.Fprintf(formatter.Writer, "  saved:    seq %d\n", view.Seq)
	}
	return nil
}
