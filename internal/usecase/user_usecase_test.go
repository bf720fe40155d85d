package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
	"github.com/teolin/gobank/internal/usecase/mocks"
)

func newUserFixture() (*usecase.UserUseCase, *mocks.MockUserRepository, *mocks.MockAccountRepository, *mocks.MockTransactionRepository) {
	userRepo := mocks.NewMockUserRepository()
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	txMgr := mocks.NewMockTransactionManager()

	ledger := usecase.NewLedgerUseCase(txMgr, accRepo, txnRepo, nil)
	uc := usecase.NewUserUseCase(txMgr, userRepo, ledger)

	return uc, userRepo, accRepo, txnRepo
}

func validRegisterInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Password:  "correct horse battery",
	}
}

func TestUserUseCase_Register(t *testing.T) {
	uc, _, accRepo, txnRepo := newUserFixture()

	result, err := uc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.ID == 0 {
		t.Error("user id not assigned")
	}
	if result.User.HashedPassword != "" {
		t.Error("hashed password leaked in result")
	}
	if result.Account.OwnerID != result.User.ID {
		t.Errorf("account owner = %d, want %d", result.Account.OwnerID, result.User.ID)
	}
	if !result.Account.Balance.IsZero() {
		t.Errorf("opening balance = %s, want 0", result.Account.Balance)
	}
	if result.Transaction.Kind != domain.KindGenesis {
		t.Errorf("genesis kind = %s", result.Transaction.Kind)
	}

	accounts, _ := accRepo.ListByOwner(context.Background(), result.User.ID)
	if len(accounts) != 1 {
		t.Errorf("expected one account, got %d", len(accounts))
	}
	if len(txnRepo.All()) != 1 {
		t.Errorf("expected one genesis record, got %d", len(txnRepo.All()))
	}
}

func TestUserUseCase_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*usecase.RegisterInput)
		wantErr error
	}{
		{
			name:    "missing first name",
			mutate:  func(in *usecase.RegisterInput) { in.FirstName = "" },
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "missing last name",
			mutate:  func(in *usecase.RegisterInput) { in.LastName = "  " },
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "bad email",
			mutate:  func(in *usecase.RegisterInput) { in.Email = "not-an-email" },
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:    "weak password",
			mutate:  func(in *usecase.RegisterInput) { in.Password = "short" },
			wantErr: domain.ErrPasswordTooWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, accRepo, _ := newUserFixture()

			input := validRegisterInput()
			tt.mutate(&input)

			_, err := uc.Register(context.Background(), input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			// No partial state may survive a failed registration.
			accounts, _ := accRepo.ListByOwner(context.Background(), 1)
			if len(accounts) != 0 {
				t.Errorf("account created despite failed registration")
			}
		})
	}
}

func TestUserUseCase_Register_DuplicateEmail(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	if _, err := uc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := uc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserUseCase_Authenticate(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	input := validRegisterInput()
	if _, err := uc.Register(context.Background(), input); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := uc.Authenticate(context.Background(), input.Email, input.Password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != input.Email {
			t.Errorf("email = %s", user.Email)
		}
		if user.HashedPassword != "" {
			t.Error("hashed password leaked")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Authenticate(context.Background(), input.Email, "wrong password")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := uc.Authenticate(context.Background(), "nobody@example.com", input.Password)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserUseCase_ChangeEmail(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	first, err := uc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	second := validRegisterInput()
	second.Email = "john.smith@example.com"
	if _, err := uc.Register(context.Background(), second); err != nil {
		t.Fatalf("second registration failed: %v", err)
	}

	t.Run("successful change", func(t *testing.T) {
		user, err := uc.ChangeEmail(context.Background(), first.User.ID, "jane.new@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "jane.new@example.com" {
			t.Errorf("email = %s", user.Email)
		}
	})

	t.Run("taken email rejected", func(t *testing.T) {
		_, err := uc.ChangeEmail(context.Background(), first.User.ID, "john.smith@example.com")
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		_, err := uc.ChangeEmail(context.Background(), first.User.ID, "nope")
		if !errors.Is(err, domain.ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	input := validRegisterInput()
	result, err := uc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	t.Run("same password rejected", func(t *testing.T) {
		_, err := uc.ChangePassword(context.Background(), result.User.ID, input.Password, input.Password)
		if !errors.Is(err, domain.ErrSamePassword) {
			t.Errorf("expected ErrSamePassword, got %v", err)
		}
	})

	t.Run("wrong old password rejected", func(t *testing.T) {
		_, err := uc.ChangePassword(context.Background(), result.User.ID, "wrong password", "a new strong one")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("successful change", func(t *testing.T) {
		if _, err := uc.ChangePassword(context.Background(), result.User.ID, input.Password, "a new strong one"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := uc.Authenticate(context.Background(), input.Email, "a new strong one"); err != nil {
			t.Errorf("new password does not authenticate: %v", err)
		}
		if _, err := uc.Authenticate(context.Background(), input.Email, input.Password); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("old password still authenticates")
		}
	})
}
