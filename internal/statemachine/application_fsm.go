package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/PGohila/LMS/internal/models"
)

// ApplicationFSM wraps a loan application with its state machine
type ApplicationFSM struct {
	application *models.LoanApplication
	fsm         *fsm.FSM
}

// NewApplicationFSM creates a new loan application state machine
func NewApplicationFSM(application *models.LoanApplication) *ApplicationFSM {
	afsm := &ApplicationFSM{
		application: application,
	}

	afsm.fsm = fsm.NewFSM(
		application.Status,
		fsm.Events{
			// draft → submitted
			{Name: "submit", Src: []string{models.ApplicationStatusDraft}, Dst: models.ApplicationStatusSubmitted},

			// submitted → under_review
			{Name: "review", Src: []string{models.ApplicationStatusSubmitted}, Dst: models.ApplicationStatusUnderReview},

			// submitted/under_review → approved
			{Name: "approve", Src: []string{models.ApplicationStatusSubmitted, models.ApplicationStatusUnderReview}, Dst: models.ApplicationStatusApproved},

			// submitted/under_review → rejected
			{Name: "reject", Src: []string{models.ApplicationStatusSubmitted, models.ApplicationStatusUnderReview}, Dst: models.ApplicationStatusRejected},

			// approved/modified → modified
			{Name: "modify", Src: []string{models.ApplicationStatusApproved, models.ApplicationStatusModified}, Dst: models.ApplicationStatusModified},

			// approved/modified → closed
			{Name: "close", Src: []string{models.ApplicationStatusApproved, models.ApplicationStatusModified}, Dst: models.ApplicationStatusClosed},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Submit transitions the application to submitted state
func (a *ApplicationFSM) Submit(ctx context.Context) error {
	if !a.application.MaySubmit() {
		return fmt.Errorf("application cannot be submitted in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "submit"); err != nil {
		return fmt.Errorf("failed to submit application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Review transitions the application to under_review state
func (a *ApplicationFSM) Review(ctx context.Context) error {
	if !a.application.MayReview() {
		return fmt.Errorf("application cannot be moved to review in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "review"); err != nil {
		return fmt.Errorf("failed to move application to review: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Approve transitions the application to approved state
func (a *ApplicationFSM) Approve(ctx context.Context) error {
	if !a.application.MayApprove() {
		return fmt.Errorf("application cannot be approved in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Reject transitions the application to rejected state
func (a *ApplicationFSM) Reject(ctx context.Context) error {
	if !a.application.MayReject() {
		return fmt.Errorf("application cannot be rejected in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Modify marks the application as modified after an approved change of terms
func (a *ApplicationFSM) Modify(ctx context.Context) error {
	if !a.application.MayModify() {
		return fmt.Errorf("application terms cannot be modified in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "modify"); err != nil {
		return fmt.Errorf("failed to modify application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Close transitions the application to closed state once the loan is repaid or settled
func (a *ApplicationFSM) Close(ctx context.Context) error {
	if err := a.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *ApplicationFSM) Current() string {
	return a.fsm.Current()
}

// Can checks if a transition is possible
func (a *ApplicationFSM) Can(event string) bool {
	return a.fsm.Can(event)
}
