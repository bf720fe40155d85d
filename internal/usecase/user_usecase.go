package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/teolin/gobank/internal/domain"
)

// UserUseCase handles registration, credential checks and profile updates.
// Registration is the only place accounts are opened in current scope: user,
// account and genesis record commit as one unit.
type UserUseCase struct {
	txManager TransactionManager
	userRepo  UserRepository
	ledger    *LedgerUseCase
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(txManager TransactionManager, userRepo UserRepository, ledger *LedgerUseCase) *UserUseCase {
	return &UserUseCase{
		txManager: txManager,
		userRepo:  userRepo,
		ledger:    ledger,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterResult is the newly created user together with the opened account
// and its genesis record.
type RegisterResult struct {
	User        *domain.User
	Account     *domain.Account
	Transaction *domain.Transaction
}

// Register creates the user, opens their account and writes the genesis
// transaction atomically.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := domain.ValidateName(input.FirstName); err != nil {
		return nil, err
	}

	if err := domain.ValidateName(input.LastName); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.CreateTx(ctx, tx, user); err != nil {
		return nil, err
	}

	account, genesis, err := uc.ledger.OpenAccount(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return &RegisterResult{
		User:        user,
		Account:     account,
		Transaction: genesis,
	}, nil
}

// Authenticate verifies email and password, returning the user on success.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	if err := verifyPassword(user.HashedPassword, password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ChangeEmail updates a user's email after a uniqueness check.
func (uc *UserUseCase) ChangeEmail(ctx context.Context, userID int64, newEmail string) (*domain.User, error) {
	if err := domain.ValidateEmail(newEmail); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if newEmail != user.Email {
		existing, err := uc.userRepo.GetByEmail(ctx, newEmail)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrEmailTaken
		}
	}

	user.Email = newEmail
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ChangePassword verifies the old password and stores a hash of the new
// one. The new password must differ from the old.
func (uc *UserUseCase) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*domain.User, error) {
	if oldPassword == newPassword {
		return nil, domain.ErrSamePassword
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := verifyPassword(user.HashedPassword, oldPassword); err != nil {
		return nil, domain.ErrUnauthorized
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = hashed
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// hashPassword hashes a password using bcrypt.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash.
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
