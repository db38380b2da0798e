package account

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/ledger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignup      = errors.New("invalid signup")
)

const (
	_bcryptCost       = 12
	_minPasswordChars = 6

	_demoEmail = "demo@example.com"
	// bcrypt("password"), same hash the demo account ships with.
	_demoPasswordHash = "$2a$12$hlqOI4uV.KwWLkdif7L/peuRUuvvdXATXjhZ8oCS6SW8jonXzO54i"
)

// Account maps one identity to its ledger. ID, Email, CreatedAt and the
// password hash are fixed at creation; the rest is guarded by mu so profile
// updates and concurrent reads never observe torn state. The password hash
// never leaves this package.
type Account struct {
	ID           string
	Email        string
	CreatedAt    time.Time
	passwordHash string

	mu        sync.Mutex
	firstName string
	lastName  string
	profile   model.Profile
	ledger    *ledger.Ledger
}

// Info snapshots the account under its lock.
func (a *Account) Info() model.AccountInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return model.AccountInfo{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.firstName,
		LastName:  a.lastName,
		CreatedAt: a.CreatedAt,
		Profile:   a.profile,
	}
}

// Ledger returns the account's book. The ledger serializes its own trades.
func (a *Account) Ledger() *ledger.Ledger {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger
}

func (a *Account) applyUpdate(upd model.ProfileUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if upd.FirstName != "" {
		a.firstName = upd.FirstName
	}
	if upd.LastName != "" {
		a.lastName = upd.LastName
	}
	if p := upd.Profile; p != nil {
		if p.Bio != "" {
			a.profile.Bio = p.Bio
		}
		if p.Phone != "" {
			a.profile.Phone = p.Phone
		}
		if p.RiskTolerance != "" {
			a.profile.RiskTolerance = p.RiskTolerance
		}
		if p.TradingStyle != "" {
			a.profile.TradingStyle = p.TradingStyle
		}
		if p.PreferredSectors != "" {
			a.profile.PreferredSectors = p.PreferredSectors
		}
		if p.InvestmentGoals != "" {
			a.profile.InvestmentGoals = p.InvestmentGoals
		}
		if len(p.Achievements) > 0 {
			a.profile.Achievements = p.Achievements
		}
	}
}

func (a *Account) setLedger(l *ledger.Ledger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ledger = l
}

// Directory is the in-memory account store keyed by email.
type Directory struct {
	logger logger.Logger

	mu          sync.RWMutex
	byEmail     map[string]*Account
	initialCash decimal.Decimal
}

func NewDirectory(initialCash decimal.Decimal, logger logger.Logger) *Directory {
	d := &Directory{
		logger:      logger,
		byEmail:     make(map[string]*Account),
		initialCash: initialCash,
	}
	d.seedDemo()
	return d
}

// seedDemo registers the demo account with the pre-populated ledger the
// dashboard demos against.
func (d *Directory) seedDemo() {
	demoLedger, err := ledger.Restore(model.LedgerSnapshot{
		Cash:        decimal.NewFromInt(75_000),
		InitialCash: decimal.NewFromInt(100_000),
		Positions: []model.Position{
			{Symbol: "AAPL", Shares: 50, AvgPrice: decimal.NewFromFloat(170.00)},
			{Symbol: "GOOGL", Shares: 25, AvgPrice: decimal.NewFromFloat(140.00)},
			{Symbol: "MSFT", Shares: 30, AvgPrice: decimal.NewFromFloat(375.00)},
		},
		Trades: []model.Trade{
			backdatedTrade("AAPL", 50, decimal.NewFromFloat(170.00), 48*time.Hour),
			backdatedTrade("GOOGL", 25, decimal.NewFromFloat(140.00), 24*time.Hour),
		},
	})
	if err != nil {
		d.logger.Fatalf("%s: can't seed demo ledger", err)
		return
	}

	d.byEmail[_demoEmail] = &Account{
		ID:           "demo",
		Email:        _demoEmail,
		CreatedAt:    time.Now().UTC(),
		passwordHash: _demoPasswordHash,
		firstName:    "Demo",
		lastName:     "User",
		profile: model.Profile{
			Bio:              "Demo user for testing the platform",
			Phone:            "+1 (555) 123-4567",
			RiskTolerance:    "Medium",
			TradingStyle:     "Swing Trading",
			PreferredSectors: "Technology, Healthcare, Finance",
			InvestmentGoals:  "Long-term wealth building through diversified portfolio",
			Achievements:     []string{"First Trade", "Profitable Month", "Risk Manager"},
		},
		ledger: demoLedger,
	}
}

func backdatedTrade(symbol string, shares int64, price decimal.Decimal, age time.Duration) model.Trade {
	ts := time.Now().UTC().Add(-age)
	return model.Trade{
		ID:        ulid.MustNew(ulid.Timestamp(ts), ulid.DefaultEntropy()).String(),
		Symbol:    symbol,
		Side:      model.Buy,
		Shares:    shares,
		Price:     price,
		Total:     price.Mul(decimal.NewFromInt(shares)),
		Timestamp: ts,
	}
}

func (d *Directory) Signup(email, password, firstName, lastName string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidSignup)
	}
	if len(password) < _minPasswordChars {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidSignup, _minPasswordChars)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), _bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: can't hash password", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byEmail[email]; ok {
		return nil, ErrAccountExists
	}

	acc := &Account{
		ID:           ulid.Make().String(),
		Email:        email,
		CreatedAt:    time.Now().UTC(),
		passwordHash: string(hash),
		firstName:    firstName,
		lastName:     lastName,
		profile: model.Profile{
			RiskTolerance:    "Medium",
			TradingStyle:     "Swing Trading",
			PreferredSectors: "Technology, Healthcare",
			Achievements:     []string{},
		},
		ledger: ledger.New(d.initialCash),
	}
	d.byEmail[email] = acc

	d.logger.Infof("registered account %s", email)
	return acc, nil
}

// Authenticate checks the password and returns the account. Unknown email and
// wrong password are indistinguishable to the caller.
func (d *Directory) Authenticate(email, password string) (*Account, error) {
	d.mu.RLock()
	acc, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

func (d *Directory) Get(email string) (*Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// UpdateProfile merges non-empty fields into the stored profile.
func (d *Directory) UpdateProfile(email string, upd model.ProfileUpdate) (*Account, error) {
	acc, err := d.Get(email)
	if err != nil {
		return nil, err
	}
	acc.applyUpdate(upd)
	return acc, nil
}

// Accounts snapshots the registered accounts, for the store's flush loop.
func (d *Directory) Accounts() []*Account {
	d.mu.RLock()
	defer d.mu.RUnlock()

	accounts := make([]*Account, 0, len(d.byEmail))
	for _, acc := range d.byEmail {
		accounts = append(accounts, acc)
	}
	return accounts
}

// ReplaceLedger swaps in a ledger restored from persistence.
func (d *Directory) ReplaceLedger(email string, l *ledger.Ledger) error {
	acc, err := d.Get(email)
	if err != nil {
		return err
	}
	acc.setLedger(l)
	return nil
}
