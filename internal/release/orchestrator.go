package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/joss/devtask/internal/session"
)

// State is a step of the release workflow. Steps run in declaration order.
type State int

const (
	Start State = iota
	CleanChecked
	BranchChecked
	ArgParsed
	Confirmed
	SeedsUpdated
	ToolInstalled
	Bumped
	Pushed
	Failed
)

var stateNames = [...]string{
	"START",
	"CLEAN_CHECKED",
	"BRANCH_CHECKED",
	"ARG_PARSED",
	"CONFIRMED",
	"SEEDS_UPDATED",
	"TOOL_INSTALLED",
	"BUMPED",
	"PUSHED",
	"FAILED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Repository is the version-control surface a release needs.
type Repository interface {
	HasChanges(ctx context.Context) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	Push(ctx context.Context) error
	PushTags(ctx context.Context) error
}

// Options configures an Orchestrator.
type Options struct {
	Repo          Repository
	Confirmer     Confirmer
	DefaultBranch string
	Seeds         []string
	BumpTool      string
}

// Orchestrator drives a single release.
type Orchestrator struct {
	opts  Options
	state State
	// last state reached before failing
	reached State
}

// NewOrchestrator creates an orchestrator in the Start state.
func NewOrchestrator(opts Options) *Orchestrator {
	return &Orchestrator{opts: opts, state: Start}
}

// State returns the current state. After a failure it is Failed; Reached
// tells how far the release got.
func (o *Orchestrator) State() State { return o.state }

// Reached returns the last successful state.
func (o *Orchestrator) Reached() State { return o.reached }

func (o *Orchestrator) advance(s State) {
	o.state = s
	o.reached = s
}

func (o *Orchestrator) fail(err error) error {
	o.state = Failed
	return err
}

// Release runs the whole workflow with the session's positional arguments.
// Nothing is rolled back on failure: a bump that succeeded before a failed
// push leaves the local commit and tag in place.
func (o *Orchestrator) Release(ctx context.Context, s *session.Session) (Kind, error) {
	dirty, err := o.opts.Repo.HasChanges(ctx)
	if err != nil {
		return "", o.fail(err)
	}
	if dirty {
		return "", o.fail(s.Error("All changes must be committed or removed before release"))
	}
	o.advance(CleanChecked)

	branch, err := o.opts.Repo.CurrentBranch(ctx)
	if err != nil {
		return "", o.fail(err)
	}
	if branch != o.opts.DefaultBranch {
		return "", o.fail(s.Error("Must be on '%s' branch. Currently on '%s' branch", o.opts.DefaultBranch, branch))
	}
	o.advance(BranchChecked)

	kind, err := ParseArgs(s.Posargs())
	if err != nil {
		return "", o.fail(err)
	}
	o.advance(ArgParsed)

	answer, err := o.opts.Confirmer.Confirm(fmt.Sprintf("You are about to bump the '%s' version. Are you sure? [y/n]: ", kind))
	if err != nil {
		return kind, o.fail(err)
	}
	if !IsAffirmative(answer) {
		return kind, o.fail(s.Error("You said no when prompted to bump the '%s' version.", kind))
	}
	o.advance(Confirmed)

	seeds := append([]string{"--upgrade"}, o.opts.Seeds...)
	if err := s.Install(ctx, seeds...); err != nil {
		return kind, o.fail(err)
	}
	o.advance(SeedsUpdated)

	if err := s.Install(ctx, o.opts.BumpTool); err != nil {
		return kind, o.fail(err)
	}
	o.advance(ToolInstalled)

	s.Log("Bumping the '%s' version", kind)
	if err := s.Run(ctx, []string{o.opts.BumpTool, string(kind)}); err != nil {
		return kind, o.fail(err)
	}
	o.advance(Bumped)

	s.Log("Pushing the new tag")
	pushErr := o.opts.Repo.Push(ctx)
	tagsErr := o.opts.Repo.PushTags(ctx)
	if err := errors.Join(pushErr, tagsErr); err != nil {
		return kind, o.fail(err)
	}
	o.advance(Pushed)
	return kind, nil
}
