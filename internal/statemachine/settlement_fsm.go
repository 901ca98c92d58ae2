package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/PGohila/LMS/internal/models"
)

// SettlementFSM wraps a settlement offer with its state machine
type SettlementFSM struct {
	settlement *models.Settlement
	fsm        *fsm.FSM
}

// NewSettlementFSM creates a new settlement state machine
func NewSettlementFSM(settlement *models.Settlement) *SettlementFSM {
	sfsm := &SettlementFSM{
		settlement: settlement,
	}

	sfsm.fsm = fsm.NewFSM(
		settlement.Status,
		fsm.Events{
			// proposed → accepted
			{Name: "accept", Src: []string{models.SettlementStatusProposed}, Dst: models.SettlementStatusAccepted},

			// proposed → rejected
			{Name: "reject", Src: []string{models.SettlementStatusProposed}, Dst: models.SettlementStatusRejected},

			// accepted → completed (offered amount received in full)
			{Name: "complete", Src: []string{models.SettlementStatusAccepted}, Dst: models.SettlementStatusCompleted},
		},
		fsm.Callbacks{},
	)

	return sfsm
}

// Accept transitions the settlement to accepted state
func (s *SettlementFSM) Accept(ctx context.Context) error {
	if !s.settlement.MayAccept() {
		return fmt.Errorf("settlement cannot be accepted in current state: %s", s.settlement.Status)
	}

	if err := s.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept settlement: %w", err)
	}

	s.settlement.Status = s.fsm.Current()
	return nil
}

// Reject transitions the settlement to rejected state
func (s *SettlementFSM) Reject(ctx context.Context) error {
	if !s.settlement.MayReject() {
		return fmt.Errorf("settlement cannot be rejected in current state: %s", s.settlement.Status)
	}

	if err := s.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject settlement: %w", err)
	}

	s.settlement.Status = s.fsm.Current()
	return nil
}

// Complete transitions the settlement to completed state
func (s *SettlementFSM) Complete(ctx context.Context) error {
	if !s.settlement.MayComplete() {
		return fmt.Errorf("settlement cannot be completed in current state: %s", s.settlement.Status)
	}

	if err := s.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete settlement: %w", err)
	}

	s.settlement.Status = s.fsm.Current()
	return nil
}

// Current returns the current state
func (s *SettlementFSM) Current() string {
	return s.fsm.Current()
}

// Can checks if a transition is possible
func (s *SettlementFSM) Can(event string) bool {
	return s.fsm.Can(event)
}
