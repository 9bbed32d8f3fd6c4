// Package lifecycle drives a build tool through the configure, build, test
// and install steps of a package invocation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/woorton/clickhouse-cpp/recipe"
)

// BuildTool is the external build system. Each method runs one lifecycle
// step; Configure receives the whole plan and the later steps reuse it.
type BuildTool interface {
	Configure(ctx context.Context, plan Plan) error
	Build(ctx context.Context) error
	Test(ctx context.Context) error
	Install(ctx context.Context) error
}

// Plan is everything a build tool needs to configure a variant.
type Plan struct {
	Definitions  recipe.Definitions
	Requirements recipe.Requirements
	Mode         recipe.Mode
}

// NewPlan resolves the plan for opts built with tc.
func NewPlan(opts recipe.Options, tc recipe.Toolchain) Plan {
	return Plan{
		Definitions:  recipe.Translate(opts, tc),
		Requirements: recipe.ResolveRequirements(opts),
		Mode:         recipe.ModeOf(opts),
	}
}

// Step is one lifecycle step.
type Step string

const (
	StepConfigure Step = "configure"
	StepBuild     Step = "build"
	StepTest      Step = "test"
	StepInstall   Step = "install"
)

// Request selects which steps an invocation runs.
type Request int

const (
	// RequestBuild runs configure, build and, in test mode, test.
	RequestBuild Request = iota
	// RequestPackage runs configure and install.
	RequestPackage
	// RequestCreate runs every step.
	RequestCreate
)

func (r Request) String() string {
	switch r {
	case RequestBuild:
		return "build"
	case RequestPackage:
		return "package"
	case RequestCreate:
		return "create"
	}
	return fmt.Sprintf("Request(%d)", int(r))
}

// Steps returns the steps r runs in mode.
func (r Request) Steps(mode recipe.Mode) []Step {
	var steps []Step
	switch r {
	case RequestBuild:
		steps = []Step{StepConfigure, StepBuild}
		if mode.Tests {
			steps = append(steps, StepTest)
		}
	case RequestPackage:
		steps = []Step{StepConfigure, StepInstall}
	case RequestCreate:
		steps = []Step{StepConfigure, StepBuild}
		if mode.Tests {
			steps = append(steps, StepTest)
		}
		steps = append(steps, StepInstall)
	default:
		panic(fmt.Sprintf("lifecycle: unknown request %d", int(r)))
	}
	return steps
}

// Status is the outcome of a run.
type Status string

const (
	Succeeded       Status = "Succeeded"
	ConfigureFailed Status = "ConfigureFailed"
	BuildFailed     Status = "BuildFailed"
	TestFailed      Status = "TestFailed"
	InstallFailed   Status = "InstallFailed"
)

var failedStatus = map[Step]Status{
	StepConfigure: ConfigureFailed,
	StepBuild:     BuildFailed,
	StepTest:      TestFailed,
	StepInstall:   InstallFailed,
}

// Result reports a run. Steps lists the steps that were started, including
// the failed one.
type Result struct {
	Status     Status
	Steps      []Step
	Failed     Step
	Diagnostic string
	Err        error
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return r.Status == Succeeded }

// AsError returns nil on success and an *Error otherwise.
func (r Result) AsError() error {
	if r.OK() {
		return nil
	}
	return &Error{Status: r.Status, Step: r.Failed, Diagnostic: r.Diagnostic, Err: r.Err}
}

// Error is a failed lifecycle run.
type Error struct {
	Status     Status
	Step       Step
	Diagnostic string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s step: %v", e.Status, e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Diagnoser is implemented by build tool errors that carry tool output.
type Diagnoser interface {
	Diagnostic() string
}

// Diagnostic returns the diagnostic text of err.
func Diagnostic(err error) string {
	var d Diagnoser
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return err.Error()
}

// Run executes the steps of req against tool. The first failing step ends
// the run; nothing is retried.
func Run(ctx context.Context, tool BuildTool, plan Plan, req Request) Result {
	logger := log.Ctx(ctx).With().Str("request", req.String()).Logger()

	var res Result
	for _, step := range req.Steps(plan.Mode) {
		res.Steps = append(res.Steps, step)
		logger.Debug().Str("step", string(step)).Msg("step started")

		if err := runStep(ctx, tool, plan, step); err != nil {
			res.Status = failedStatus[step]
			res.Failed = step
			res.Err = err
			res.Diagnostic = Diagnostic(err)
			logger.Error().Err(err).Str("step", string(step)).Str("status", string(res.Status)).Msg("step failed")
			return res
		}
		logger.Debug().Str("step", string(step)).Msg("step finished")
	}
	res.Status = Succeeded
	return res
}

func runStep(ctx context.Context, tool BuildTool, plan Plan, step Step) error {
	switch step {
	case StepConfigure:
		return tool.Configure(ctx, plan)
	case StepBuild:
		return tool.Build(ctx)
	case StepTest:
		return tool.Test(ctx)
	case StepInstall:
		return tool.Install(ctx)
	}
	panic(fmt.Sprintf("lifecycle: unknown step %q", step))
}
