package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferkit/schedc/internal/compile"
	"github.com/inferkit/schedc/internal/sched"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Schedule string // optional schedule to check against the model
}

// ValidationView is the JSON payload for validate output.
type ValidationView struct {
	Model      string                    `json:"model,omitempty"`
	Valid      bool                      `json:"valid"`
	Errors     []compile.ValidationError `json:"errors,omitempty"`
	Violations []string                  `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <model-file>",
		Short: "Validate a model description without scheduling",
		Long: `Check a model description against the graph invariants: edge indices in
range, non-empty kind sets, group ids disjoint from statement indices,
acyclic group nesting.

With --schedule, additionally checks the given execution order against the
model's re-execution obligations.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "schedule to check, comma-separated statement indices")

	return cmd
}

func runValidate(opts *ValidateOptions, modelPath string, cmd *cobra.Command) error {
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

	view := ValidationView{Model: spec.Name, Valid: true}
	if errs := compile.Validate(spec); len(errs) > 0 {
		view.Valid = false
		view.Errors = errs
		return outputValidation(formatter, view)
	}

	if opts.Schedule != "" {
		schedule, err := parseScheduleArg(opts.Schedule)
		if err != nil {
			return reportError(formatter, &LoadError{Code: ErrCodeModel, Message: fmt.Sprintf("--schedule: %v", err)})
		}
		g, _, err := compile.BuildGraph(spec)
		if err != nil {
			return reportError(formatter, err)
		}
		for _, v := range sched.CheckSchedule(g, schedule, nil) {
			view.Violations = append(view.Violations, v.String())
		}
		if len(view.Violations) > 0 {
			view.Valid = false
		}
	}

	return outputValidation(formatter, view)
}

// outputValidation renders the validation verdict. Invalid models carry
// ExitFailure so scripts can branch on the exit code.
func outputValidation(formatter *OutputFormatter, view ValidationView) error {
	if formatter.Format == "json" {
		if err := formatter.Success(view); err != nil {
			return err
		}
	} else if view.Valid {
		fmt.Fprintln(formatter.Writer, "✓ model valid")
	} else {
		fmt.Fprintln(formatter.Writer, "✗ model invalid")
		for _, e := range view.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
		}
		for _, v := range view.Violations {
			fmt.Fprintf(formatter.Writer, "  %s\n", v)
		}
	}

	if !view.Valid {
		return NewExitError(ExitFailure, "model invalid")
	}
	return nil
}
