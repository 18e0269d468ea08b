package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/models"
)

// Flow states. The two-step wizard is modeled as an explicit state machine
// so guards and transitions are testable without any rendering around them.
const (
	StateSelectingMethod = "selecting_method"
	StateEnteringAmount  = "entering_amount"
	StateSubmitting      = "submitting"
	StateSucceeded       = "succeeded"
)

var (
	ErrNoMethodSelected  = errors.New("withdrawal: select a valid payout method")
	ErrNoDefaultMethod   = errors.New("withdrawal: no default payout method configured")
	ErrNotEnteringAmount = errors.New("withdrawal: no amount entry in progress")
	ErrAmountInvalid     = errors.New("withdrawal: invalid amount")
)

// Submitter performs the single external call of the flow. Implemented by
// the withdrawal service; the flow itself owns no transport.
type Submitter interface {
	SubmitWithdrawal(ctx context.Context, methodID uuid.UUID, amountUSD decimal.Decimal) (*models.Withdrawal, error)
}

// Alerter receives submission failures. It belongs to the embedding caller;
// the flow only reports through it, never retries on its own.
type Alerter interface {
	Alert(message string)
}

// Submission is handed to the caller on success so it can update displayed
// balance and history without a full reload.
type Submission struct {
	AmountUSD  decimal.Decimal
	Method     models.PaymentMethod
	Withdrawal *models.Withdrawal
}

// Flow drives one withdrawal modal session. Settings, balance and rates are
// immutable snapshots taken when the session opens; upstream changes during
// the session are deliberately not observed.
type Flow struct {
	mu sync.Mutex

	state         string
	methods       []models.PaymentMethod
	defaultMethod *models.PaymentMethod
	settings      models.WithdrawalSettings
	balanceUSD    decimal.Decimal
	rates         fx.RateTable

	submitter Submitter
	alerter   Alerter

	useDefault  bool
	selectedID  *uuid.UUID
	amountInput string

	result *Submission
}

func NewFlow(
	methods []models.PaymentMethod,
	settings models.WithdrawalSettings,
	balanceUSD decimal.Decimal,
	rates fx.RateTable,
	submitter Submitter,
	alerter Alerter,
) *Flow {
	f := &Flow{
		methods:    methods,
		settings:   settings,
		balanceUSD: balanceUSD,
		rates:      rates,
		submitter:  submitter,
		alerter:    alerter,
	}
	for i := range methods {
		if methods[i].IsDefault {
			f.defaultMethod = &methods[i]
			break
		}
	}
	f.Reset()
	return f
}

// Reset returns the flow to step 1, preferring the default method when one
// exists, and clears the amount field.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateSelectingMethod
	f.useDefault = f.defaultMethod != nil
	f.selectedID = nil
	f.amountInput = ""
	f.result = nil
}

func (f *Flow) State() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) UseDefault(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSelectingMethod {
		f.useDefault = v
	}
}

func (f *Flow) SelectMethod(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSelectingMethod {
		f.useDefault = false
		f.selectedID = &id
	}
}

func (f *Flow) SetAmount(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateEnteringAmount {
		f.amountInput = strings.TrimSpace(input)
	}
}

// method resolves the payout destination for the current selection.
// Callers must hold f.mu.
func (f *Flow) method() (*models.PaymentMethod, error) {
	if f.useDefault {
		if f.defaultMethod == nil {
			return nil, ErrNoDefaultMethod
		}
		return f.defaultMethod, nil
	}
	if f.selectedID == nil {
		return nil, ErrNoMethodSelected
	}
	for i := range f.methods {
		if f.methods[i].ID == *f.selectedID {
			return &f.methods[i], nil
		}
	}
	return nil, ErrNoMethodSelected
}

// Next advances from method selection to amount entry. Guarded: the flow
// stays in step 1 when no usable method is selected.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSelectingMethod {
		return nil
	}
	if _, err := f.method(); err != nil {
		return err
	}
	f.state = StateEnteringAmount
	f.amountInput = ""
	return nil
}

// Limits resolves the bounds for the currently selected method.
func (f *Flow) Limits() (Limits, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.method()
	if err != nil {
		return Limits{}, err
	}
	return Resolve(f.balanceUSD, f.settings, m.Currency, f.rates)
}

// validateAmount parses the raw input and checks it against the resolved
// bounds in the method's currency. Callers must hold f.mu.
func (f *Flow) validateAmount(m *models.PaymentMethod) (decimal.Decimal, Limits, error) {
	limits, err := Resolve(f.balanceUSD, f.settings, m.Currency, f.rates)
	if err != nil {
		return decimal.Zero, Limits{}, err
	}

	amount, err := decimal.NewFromString(f.amountInput)
	if err != nil {
		return decimal.Zero, limits, fmt.Errorf("%w: enter a valid amount in %s", ErrAmountInvalid, m.Currency)
	}
	if amount.LessThan(limits.MinLocal) {
		return decimal.Zero, limits, fmt.Errorf("%w: minimum withdrawal is %s %s", ErrAmountInvalid, limits.MinLocal, m.Currency)
	}
	if amount.GreaterThan(limits.MaxLocal) {
		return decimal.Zero, limits, fmt.Errorf("%w: maximum withdrawal is %s %s", ErrAmountInvalid, limits.MaxLocal, m.Currency)
	}
	return amount, limits, nil
}

// Submit validates the entered amount, converts it back to USD and performs
// the one external call of the session. A second Submit while one is in
// flight is a no-op. On failure the flow reverts to amount entry so the
// member can adjust and retry; the error also goes to the alerter.
func (f *Flow) Submit(ctx context.Context) (*Submission, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, nil
	}
	if f.state != StateEnteringAmount {
		f.mu.Unlock()
		return nil, ErrNotEnteringAmount
	}

	m, err := f.method()
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	amountLocal, _, err := f.validateAmount(m)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	amountUSD, err := fx.ToUSD(amountLocal, m.Currency, f.rates)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}

	f.state = StateSubmitting
	method := *m
	f.mu.Unlock()

	w, submitErr := f.submitter.SubmitWithdrawal(ctx, method.ID, amountUSD)

	f.mu.Lock()
	defer f.mu.Unlock()
	if submitErr != nil {
		f.state = StateEnteringAmount
		if f.alerter != nil {
			f.alerter.Alert(submitErr.Error())
		}
		return nil, submitErr
	}

	f.state = StateSucceeded
	f.result = &Submission{AmountUSD: amountUSD, Method: method, Withdrawal: w}
	return f.result, nil
}

// Result returns the successful submission, if any.
func (f *Flow) Result() *Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}
