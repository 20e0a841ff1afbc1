package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferkit/schedc/internal/compile"
	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/store"
)

// RepairOptions holds flags for the repair command.
type RepairOptions struct {
	*RootOptions
	DBPath      string
	Prior       string // explicit prior schedule, overrides the database
	Invalid     string
	Stale       string
	Initialized string
}

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RepairOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repair <model-file>",
		Short: "Incrementally repair a model's schedule",
		Long: `Repair a previously compiled schedule after model edits, reusing as much
of the prior execution order as validity allows.

The prior schedule comes from --prior, or from the latest stored pass for
the model's hash when --db is given. The invalidation state is described by
--invalid (statement indices), --stale (target:source pairs) and
--initialized (statement indices).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "schedule database path")
	cmd.Flags().StringVar(&opts.Prior, "prior", "", "prior schedule, comma-separated statement indices")
	cmd.Flags().StringVar(&opts.Invalid, "invalid", "", "invalidated statement indices, comma-separated")
	cmd.Flags().StringVar(&opts.Stale, "stale", "", "stale obligations as target:source pairs, comma-separated")
	cmd.Flags().StringVar(&opts.Initialized, "initialized", "", "externally initialized statement indices, comma-separated")

	return cmd
}

func runRepair(opts *RepairOptions, modelPath string, cmd *cobra.Command) error {
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

	state, err := parseState(opts)
	if err != nil {
		return reportError(formatter, &LoadError{Code: ErrCodeModel, Message: err.Error()})
	}

	prior, err := resolvePrior(opts, spec, cmd, formatter)
	if err != nil {
		return reportError(formatter, err)
	}

	res, err := compile.Recompile(spec, prior, state)
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
	}

	return outputPass(formatter, view)
}

// parseState builds the invalidation state from the flag strings.
func parseState(opts *RepairOptions) (ir.InvalidationState, error) {
	var state ir.InvalidationState
	var err error

	if state.Invalid, err = parseIntListArg(opts.Invalid); err != nil {
		return state, fmt.Errorf("--invalid: %w", err)
	}
	if state.Stale, err = parseStaleArg(opts.Stale); err != nil {
		return state, fmt.Errorf("--stale: %w", err)
	}
	if state.Initialized, err = parseIntListArg(opts.Initialized); err != nil {
		return state, fmt.Errorf("--initialized: %w", err)
	}
	return state, nil
}

// resolvePrior picks the prior schedule: an explicit --prior wins, otherwise
// the latest stored pass for the model's hash.
func resolvePrior(opts *RepairOptions, spec ir.ModelSpec, cmd *cobra.Command, formatter *OutputFormatter) (ir.Schedule, error) {
	if opts.Prior != "" {
		prior, err := parseScheduleArg(opts.Prior)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeModel, Message: fmt.Sprintf("--prior: %v", err)}
		}
		return prior, nil
	}

	if opts.DBPath == "" {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "repair needs a prior schedule: pass --prior or --db"}
	}

	hash, err := ir.ModelHash(spec)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	ctx := cmd.Context()
	rec, err := s.LatestPass(ctx, hash)
	if errors.Is(err, store.ErrNoPass) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no stored pass for model hash %s; run \"schedc compile --db\" first", hash)}
	}
	if err != nil {
		return nil, err
	}

	formatter.VerboseLog("Using stored pass %s (seq %d) as prior", rec.PassID, rec.Seq)
	return rec.Schedule, nil
}
