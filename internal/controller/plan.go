package controller

import (
	"context"
	"slices"
	"strings"

	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/study"
)

// Day range accepted by the plan inputs.
const (
	MinDays     = 1
	MaxDays     = 60
	DefaultDays = 7
)

// PlanFailedMessage is shown when plan generation fails.
const PlanFailedMessage = "Failed to generate plan. Please try again."

// PlanService generates study plans.
type PlanService interface {
	StudyPlan(ctx context.Context, syllabus string, days int) (normalize.Result[study.StudyPlanDay], error)
}

// PlanState is a snapshot of the exam planner.
type PlanState struct {
	Phase    Phase
	Syllabus string
	Days     int
	Plan     normalize.Result[study.StudyPlanDay]
	Error    string
	Err      error
}

// PlanController drives the exam planner.
type PlanController struct {
	base
	svc PlanService

	syllabus string
	days     int
	plan     normalize.Result[study.StudyPlanDay]
	errMsg   string
	err      error
}

// NewPlanController creates a planner in the Idle phase.
func NewPlanController(svc PlanService, opts ...Option) *PlanController {
	c := &PlanController{svc: svc, days: DefaultDays}
	c.init(opts)
	return c
}

// SetSyllabus updates the syllabus input.
func (c *PlanController) SetSyllabus(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syllabus = s
}

// SetDays updates the day count, clamped to [MinDays, MaxDays].
func (c *PlanController) SetDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = min(max(n, MinDays), MaxDays)
}

// Submit moves to Pending and returns the call to run. It is a no-op when
// the syllabus is empty, a call is pending, or the controller is closed.
// A failed call keeps the previous plan on display.
func (c *PlanController) Submit() (run func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	syllabus := strings.TrimSpace(c.syllabus)
	if c.busy() || syllabus == "" {
		return nil, false
	}
	c.phase = Pending
	c.errMsg, c.err = "", nil
	days, ctx := c.days, c.ctx

	return func() {
		plan, err := c.svc.StudyPlan(ctx, syllabus, days)
		c.settle(func() {
			if err != nil {
				c.phase = Failed
				c.errMsg, c.err = PlanFailedMessage, err
				return
			}
			c.phase = Succeeded
			c.plan = plan
		})
	}, true
}

// State returns a copy of the current state.
func (c *PlanController) State() PlanState {
	c.mu.Lock()
	defer c.mu.Unlock()

	plan := c.plan
	plan.Items = slices.Clone(plan.Items)
	return PlanState{
		Phase:    c.phase,
		Syllabus: c.syllabus,
		Days:     c.days,
		Plan:     plan,
		Error:    c.errMsg,
		Err:      c.err,
	}
}
