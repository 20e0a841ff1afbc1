package cli

import (
	"errors"

	"github.com/inferkit/schedc/internal/compile"
	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/sched"
)

// classifyError maps library errors onto a CLI error code, message and
// details payload, plus the exit code the command should carry.
//
// Unsatisfiable schedules are model failures (exit 1); everything else at
// this layer is a command error (exit 2).
func classifyError(err error) (code, message string, details interface{}, exit int) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message, loadErr.Path, ExitCommandError
	}

	var verrs compile.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs[0].Code, verrs[0].Message, verrs, ExitCommandError
	}

	var mge *depgraph.MalformedGraphError
	if errors.As(err, &mge) {
		return string(mge.Code), mge.Message, mge.Nodes, ExitCommandError
	}

	var se *sched.ScheduleError
	if errors.As(err, &se) {
		return string(se.Code), se.Message, se.Statements, ExitFailure
	}

	return ErrCodeGeneric, err.Error(), nil, ExitCommandError
}

// reportError renders err in the configured format and returns the ExitError
// the command should propagate.
func reportError(formatter *OutputFormatter, err error) error {
	code, message, details, exit := classifyError(err)
	_ = formatter.Error(code, message, details)
	return WrapExitError(exit, message, err)
}
