package withdrawal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	lastUSD decimal.Decimal
	err     error
	block   chan struct{} // when set, Submit waits until closed
}

func (s *fakeSubmitter) SubmitWithdrawal(ctx context.Context, methodID uuid.UUID, amountUSD decimal.Decimal) (*models.Withdrawal, error) {
	s.mu.Lock()
	s.calls++
	s.lastUSD = amountUSD
	block := s.block
	err := s.err
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &models.Withdrawal{ID: uuid.New(), AmountUSD: amountUSD, Status: models.WithdrawalStatusPending}, nil
}

func (s *fakeSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *fakeAlerter) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

func testMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{ID: uuid.New(), Provider: "paypal", Currency: "USD", IsDefault: true},
		{ID: uuid.New(), Provider: "dana", Currency: "IDR"},
	}
}

func newTestFlow(methods []models.PaymentMethod, sub Submitter, al Alerter) *Flow {
	return NewFlow(
		methods,
		settings("2", "0", 0, 1),
		decimal.NewFromInt(100),
		testRates(),
		sub,
		al,
	)
}

func TestFlowResetPrefersDefault(t *testing.T) {
	f := newTestFlow(testMethods(), &fakeSubmitter{}, &fakeAlerter{})

	assert.Equal(t, StateSelectingMethod, f.State())
	require.NoError(t, f.Next()) // default method exists, step 1 passes
	assert.Equal(t, StateEnteringAmount, f.State())
}

func TestFlowStep1GuardNoDefault(t *testing.T) {
	methods := testMethods()
	methods[0].IsDefault = false
	f := newTestFlow(methods, &fakeSubmitter{}, &fakeAlerter{})

	// No default configured: opting into the default must not pass.
	f.UseDefault(true)
	err := f.Next()
	require.ErrorIs(t, err, ErrNoDefaultMethod)
	assert.Equal(t, StateSelectingMethod, f.State())

	// An unknown selection must not pass either.
	f.SelectMethod(uuid.New())
	require.ErrorIs(t, f.Next(), ErrNoMethodSelected)

	// A real selection does.
	f.SelectMethod(methods[1].ID)
	require.NoError(t, f.Next())
	assert.Equal(t, StateEnteringAmount, f.State())
}

func TestFlowIDRScenario(t *testing.T) {
	sub := &fakeSubmitter{}
	methods := testMethods()
	f := newTestFlow(methods, sub, &fakeAlerter{})

	f.SelectMethod(methods[1].ID) // IDR method
	require.NoError(t, f.Next())

	limits, err := f.Limits()
	require.NoError(t, err)
	assert.True(t, limits.MinLocal.Equal(decimal.NewFromInt(32000)), "min = %s", limits.MinLocal)
	assert.True(t, limits.MaxLocal.Equal(decimal.NewFromInt(1600000)), "max = %s", limits.MaxLocal)

	// Below minimum: rejected, stays in amount entry, no external call.
	f.SetAmount("31000")
	_, err = f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateEnteringAmount, f.State())
	assert.Equal(t, 0, sub.callCount())

	// Exactly the minimum: accepted, converted back to 2 USD.
	f.SetAmount("32000")
	result, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.AmountUSD.Equal(decimal.NewFromInt(2)), "amount USD = %s", result.AmountUSD)
	assert.Equal(t, methods[1].ID, result.Method.ID)
	assert.Equal(t, StateSucceeded, f.State())
}

func TestFlowAboveMaximumRejected(t *testing.T) {
	sub := &fakeSubmitter{}
	f := newTestFlow(testMethods(), sub, &fakeAlerter{})

	require.NoError(t, f.Next())
	f.SetAmount("100.01") // balance is 100 USD
	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, sub.callCount())
}

func TestFlowMalformedAmount(t *testing.T) {
	sub := &fakeSubmitter{}
	f := newTestFlow(testMethods(), sub, &fakeAlerter{})

	require.NoError(t, f.Next())
	for _, input := range []string{"", "abc", "1e", "10,5"} {
		f.SetAmount(input)
		_, err := f.Submit(context.Background())
		require.Error(t, err, "input %q", input)
	}
	assert.Equal(t, 0, sub.callCount())
}

func TestFlowSingleInflightSubmission(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{})}
	f := newTestFlow(testMethods(), sub, &fakeAlerter{})

	require.NoError(t, f.Next())
	f.SetAmount("10")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.Submit(context.Background())
	}()

	// Wait until the first submission is in flight.
	for f.State() != StateSubmitting {
		time.Sleep(time.Millisecond)
	}

	// Second click while submitting: no-op, no second external call.
	result, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)

	close(sub.block)
	<-done

	assert.Equal(t, 1, sub.callCount())
	assert.Equal(t, StateSucceeded, f.State())
}

func TestFlowFailureRevertsAndAlerts(t *testing.T) {
	backendErr := errors.New("insufficient balance")
	sub := &fakeSubmitter{err: backendErr}
	al := &fakeAlerter{}
	f := newTestFlow(testMethods(), sub, al)

	require.NoError(t, f.Next())
	f.SetAmount("10")

	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, backendErr)
	assert.Equal(t, StateEnteringAmount, f.State())
	require.Len(t, al.messages, 1)
	assert.Contains(t, al.messages[0], "insufficient balance")

	// Retry after the backend recovers.
	sub.mu.Lock()
	sub.err = nil
	sub.mu.Unlock()
	result, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, sub.callCount())
}

func TestFlowResetClearsSession(t *testing.T) {
	f := newTestFlow(testMethods(), &fakeSubmitter{}, &fakeAlerter{})

	require.NoError(t, f.Next())
	f.SetAmount("10")
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, f.Result())

	f.Reset()
	assert.Equal(t, StateSelectingMethod, f.State())
	assert.Nil(t, f.Result())
}
