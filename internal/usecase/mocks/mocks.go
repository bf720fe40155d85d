package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64

	CreateTxFunc   func(ctx context.Context, tx usecase.Transaction, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc     func(ctx context.Context, user *domain.User) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) CreateTx(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	nextNum  int64

	CreateTxFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByNumFunc           func(ctx context.Context, num int64) (*domain.Account, error)
	GetByNumForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, num int64) (*domain.Account, error)
	GetByNumsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, nums []int64) ([]*domain.Account, error)
	UpdateBalanceFunc      func(ctx context.Context, tx usecase.Transaction, num int64, balance decimal.Decimal, updatedAt time.Time) error
	ListByOwnerFunc        func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
		nextNum:  1,
	}
}

// Seed inserts an account directly, bypassing the engine. Test setup only.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.AccountNum == 0 {
		account.AccountNum = m.nextNum
	}
	if account.AccountNum >= m.nextNum {
		m.nextNum = account.AccountNum + 1
	}
	m.accounts[account.AccountNum] = account
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account.AccountNum = m.nextNum
	m.nextNum++
	m.accounts[account.AccountNum] = account
	return nil
}

func (m *MockAccountRepository) GetByNum(ctx context.Context, num int64) (*domain.Account, error) {
	if m.GetByNumFunc != nil {
		return m.GetByNumFunc(ctx, num)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[num]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNumForUpdate(ctx context.Context, tx usecase.Transaction, num int64) (*domain.Account, error) {
	if m.GetByNumForUpdateFunc != nil {
		return m.GetByNumForUpdateFunc(ctx, tx, num)
	}
	return m.GetByNum(ctx, num)
}

func (m *MockAccountRepository) GetByNumsForUpdate(ctx context.Context, tx usecase.Transaction, nums []int64) ([]*domain.Account, error) {
	if m.GetByNumsForUpdateFunc != nil {
		return m.GetByNumsForUpdateFunc(ctx, tx, nums)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, num := range nums {
		if a, ok := m.accounts[num]; ok {
			cp := *a
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, num int64, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, num, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[num]; ok {
		a.Balance = balance
		a.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, a := range m.accounts {
		if a.OwnerID == ownerID {
			cp := *a
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction
	nextID       int64

	// Names maps owner id to display name for detail rendering.
	Names map[int64]string
	// Owners maps account num to owner id.
	Owners map[int64]int64

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		nextID: 1,
		Names:  make(map[int64]string),
		Owners: make(map[int64]int64),
	}
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn.ID = m.nextID
	m.nextID++
	cp := *txn
	m.transactions = append(m.transactions, &cp)
	return nil
}

func (m *MockTransactionRepository) GetDetailByID(ctx context.Context, id int64) (*domain.TransactionDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.ID == id {
			return m.detail(txn), nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListDetailsByOwner(ctx context.Context, ownerID int64) ([]*domain.TransactionDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var details []*domain.TransactionDetail
	for _, txn := range m.transactions {
		if m.Owners[txn.SenderAccountNum] == ownerID || m.Owners[txn.ReceiverAccountNum] == ownerID {
			details = append(details, m.detail(txn))
		}
	}
	return details, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountNum int64) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.References(accountNum) {
			cp := *txn
			txns = append(txns, &cp)
		}
	}
	return txns, nil
}

// All returns every recorded transaction in append order. Test helper.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

func (m *MockTransactionRepository) detail(txn *domain.Transaction) *domain.TransactionDetail {
	return &domain.TransactionDetail{
		Transaction:  *txn,
		SenderName:   m.Names[m.Owners[txn.SenderAccountNum]],
		ReceiverName: m.Names[m.Owners[txn.ReceiverAccountNum]],
	}
}

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.RolledBack = true
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// LockingTransactionManager serializes transactions behind one mutex so
// tests can simulate row-lock semantics: Begin blocks until the previous
// transaction commits or rolls back.
type LockingTransactionManager struct {
	mu sync.Mutex
}

func NewLockingTransactionManager() *LockingTransactionManager {
	return &LockingTransactionManager{}
}

func (m *LockingTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	m.mu.Lock()
	return &lockedTransaction{release: m.mu.Unlock}, nil
}

type lockedTransaction struct {
	once    sync.Once
	release func()
}

func (t *lockedTransaction) Commit(ctx context.Context) error {
	t.once.Do(t.release)
	return nil
}

func (t *lockedTransaction) Rollback(ctx context.Context) error {
	t.once.Do(t.release)
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	ReplayBalancesFunc func(ctx context.Context) ([]domain.BalanceDrift, error)
}

func (m *MockLedgerRepository) ReplayBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	if m.ReplayBalancesFunc != nil {
		return m.ReplayBalancesFunc(ctx)
	}
	return nil, nil
}
