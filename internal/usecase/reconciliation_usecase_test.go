package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
	"github.com/teolin/gobank/internal/usecase/mocks"
)

func TestReconciliationUseCase_CheckConsistency(t *testing.T) {
	t.Run("clean ledger", func(t *testing.T) {
		uc := usecase.NewReconciliationUseCase(&mocks.MockLedgerRepository{})

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Consistent {
			t.Error("empty drift list should be consistent")
		}
	})

	t.Run("drifted account reported", func(t *testing.T) {
		repo := &mocks.MockLedgerRepository{
			ReplayBalancesFunc: func(ctx context.Context) ([]domain.BalanceDrift, error) {
				return []domain.BalanceDrift{{
					AccountNum: 7,
					Stored:     decimal.NewFromInt(100),
					Replayed:   decimal.NewFromInt(90),
				}}, nil
			},
		}
		uc := usecase.NewReconciliationUseCase(repo)

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Consistent {
			t.Error("drift present but report says consistent")
		}
		if len(report.Drifts) != 1 || report.Drifts[0].AccountNum != 7 {
			t.Errorf("drifts = %+v", report.Drifts)
		}
	})

	t.Run("replay failure propagates", func(t *testing.T) {
		wantErr := errors.New("replay failed")
		repo := &mocks.MockLedgerRepository{
			ReplayBalancesFunc: func(ctx context.Context) ([]domain.BalanceDrift, error) {
				return nil, wantErr
			},
		}
		uc := usecase.NewReconciliationUseCase(repo)

		if _, err := uc.CheckConsistency(context.Background()); !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
	})
}
