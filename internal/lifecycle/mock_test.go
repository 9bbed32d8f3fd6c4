package lifecycle

import (
	"context"
	"fmt"
)

// diagError mimics a tool error that carries captured output.
type diagError struct {
	msg    string
	output string
}

func (e *diagError) Error() string      { return e.msg }
func (e *diagError) Diagnostic() string { return e.output }

// fakeTool records the steps it is asked to run and fails the ones listed
// in fail.
type fakeTool struct {
	calls []Step
	plans []Plan
	fail  map[Step]error
}

func newFakeTool() *fakeTool {
	return &fakeTool{fail: make(map[Step]error)}
}

func (f *fakeTool) failOn(step Step, err error) *fakeTool {
	f.fail[step] = err
	return f
}

func (f *fakeTool) step(s Step) error {
	f.calls = append(f.calls, s)
	return f.fail[s]
}

func (f *fakeTool) Configure(ctx context.Context, plan Plan) error {
	f.plans = append(f.plans, plan)
	return f.step(StepConfigure)
}

func (f *fakeTool) Build(ctx context.Context) error   { return f.step(StepBuild) }
func (f *fakeTool) Test(ctx context.Context) error    { return f.step(StepTest) }
func (f *fakeTool) Install(ctx context.Context) error { return f.step(StepInstall) }

var errPlain = fmt.Errorf("exit status 1")
