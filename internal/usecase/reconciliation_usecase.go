package usecase

import (
	"context"

	"github.com/teolin/gobank/internal/domain"
)

// ReconciliationUseCase verifies the core ledger invariant: every stored
// account balance equals the replay of the signed movements recorded against
// it in the transaction log.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport summarizes a ledger replay.
type ConsistencyReport struct {
	Consistent bool
	Drifts     []domain.BalanceDrift
}

// CheckConsistency replays the transaction log and compares it against the
// stored balances.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	drifts, err := uc.ledgerRepo.ReplayBalances(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		Consistent: len(drifts) == 0,
		Drifts:     drifts,
	}, nil
}
