package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/config"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/pkg/password"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var refNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// changeLog records which collections each commit touched
type changeLog struct {
	mu     sync.Mutex
	events []repositories.Collection
}

func (c *changeLog) Publish(ctx context.Context, event repositories.ChangeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event.Collection)
	return nil
}

func (c *changeLog) Subscribe(ctx context.Context) (<-chan repositories.ChangeEvent, error) {
	return make(chan repositories.ChangeEvent), nil
}

func (c *changeLog) Close() error { return nil }

func (c *changeLog) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

func (c *changeLog) touched() []repositories.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]repositories.Collection(nil), c.events...)
}

type testEnv struct {
	ctx           context.Context
	store         repositories.LedgerStore
	changes       *changeLog
	uow           *UnitOfWork
	now           time.Time
	ledger        *LedgerService
	payments      *PaymentService
	users         *UserService
	auth          *AuthService
	notifications *NotificationService
	settings      *SettingsService
	dashboard     *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	changes := &changeLog{}
	store := repositories.NewLedgerStore(repositories.NewMemoryKeyValueRepository(), changes, "")
	uow := NewUnitOfWork(store)

	env := &testEnv{
		ctx:     context.Background(),
		store:   store,
		changes: changes,
		uow:     uow,
		now:     refNow,
	}
	uow.SetClock(func() time.Time { return env.now })

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", AccessTokenMins: 15}}

	env.ledger = NewLedgerService(uow, true)
	env.payments = NewPaymentService(uow)
	env.users = NewUserService(uow)
	env.auth = NewAuthService(uow, cfg)
	env.notifications = NewNotificationService(uow, 7)
	env.settings = NewSettingsService(uow)
	env.dashboard = NewDashboardService(uow, env.ledger)
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// approvedClient registers and approves a client, returning the stored user
func (e *testEnv) approvedClient(t *testing.T, name, membNo string) domain.User {
	t.Helper()

	u, err := e.users.Register(e.ctx, &RegisterInput{Name: name, Email: membNo + "@example.com"})
	require.NoError(t, err)

	approved, err := e.users.Approve(e.ctx, u.ID, &ApproveInput{MembNo: membNo, TempPassword: "temp-pass-1"})
	require.NoError(t, err)
	return *approved
}

// seedManager writes an approved manager straight into the store
func (e *testEnv) seedManager(t *testing.T, membNo, pass string) domain.User {
	t.Helper()

	hash, err := password.Hash(pass)
	require.NoError(t, err)

	users, err := e.store.GetUsers(e.ctx)
	require.NoError(t, err)

	mgr := domain.User{
		ID:               newID("u"),
		Name:             "Manager " + membNo,
		Email:            membNo + "@hub.local",
		MembNo:           membNo,
		Password:         hash,
		Role:             domain.RoleManagerPrimary,
		Status:           domain.UserStatusApproved,
		RegistrationDate: e.now,
	}
	require.NoError(t, e.store.SaveUsers(e.ctx, append(users, mgr)))
	return mgr
}

func (e *testEnv) loan(t *testing.T, id string) domain.Loan {
	t.Helper()
	loans, err := e.store.GetLoans(e.ctx)
	require.NoError(t, err)
	for _, l := range loans {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("loan %s not found", id)
	return domain.Loan{}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
