package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pakguide/internal/ai"
	"pakguide/internal/types"
)

// fakeProvider scripts gateway replies and records received turns.
type fakeProvider struct {
	reply    *ai.Reply
	err      error
	calls    atomic.Int64
	lastTurn ai.Turn
	block    chan struct{} // when set, SendTurn waits until closed
}

func (f *fakeProvider) SendTurn(ctx context.Context, turn ai.Turn) (*ai.Reply, error) {
	f.calls.Add(1)
	f.lastTurn = turn
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.reply, f.err
}

type fakeLocator struct {
	coords types.Coordinates
	err    error
	delay  time.Duration
}

func (f *fakeLocator) Locate(ctx context.Context) (types.Coordinates, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return types.Coordinates{}, ctx.Err()
		}
	}
	return f.coords, f.err
}

func newTestService(p ai.Provider, l Locator) *Service {
	return NewService(p, l, Config{}, zap.NewNop())
}

func TestNewService_AppendsWelcomeMessage(t *testing.T) {
	svc := newTestService(&fakeProvider{}, &fakeLocator{})

	msgs := svc.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Contains(t, msgs[0].Text, "Pakistan World Guide AI")
}

func TestSubmitTurn_Success(t *testing.T) {
	provider := &fakeProvider{reply: &ai.Reply{
		Text: "Liberty Market Lahore mein hai.",
		POIs: []types.POI{{Lat: 31.51, Lng: 74.34, Title: "Liberty Market", Category: types.CategoryShop}},
	}}
	svc := newTestService(provider, &fakeLocator{})

	res, err := svc.SubmitTurn(context.Background(), "Liberty Market kahan hai?", "")
	require.NoError(t, err)

	// Log grows by exactly 2: the user message, then the assistant message.
	msgs := svc.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "Liberty Market kahan hai?", msgs[1].Text)
	assert.Equal(t, RoleAssistant, msgs[2].Role)

	assert.Equal(t, ViewMap, res.View)
	require.Len(t, svc.ActivePOIs(), 1)
	assert.Equal(t, "Liberty Market", svc.ActivePOIs()[0].Title)
}

func TestSubmitTurn_EmptyTurnRejected(t *testing.T) {
	provider := &fakeProvider{reply: &ai.Reply{Text: "x"}}
	svc := newTestService(provider, &fakeLocator{})

	_, err := svc.SubmitTurn(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyTurn)
	assert.Len(t, svc.Messages(), 1)
	assert.EqualValues(t, 0, provider.calls.Load())
}

func TestSubmitTurn_SingleFlight(t *testing.T) {
	block := make(chan struct{})
	provider := &fakeProvider{reply: &ai.Reply{Text: "jawab"}, block: block}
	svc := newTestService(provider, &fakeLocator{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.SubmitTurn(context.Background(), "pehla sawal", "")
		done <- err
	}()

	// Wait for the first turn to reach the gateway.
	require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// A second submission while one is outstanding appends nothing and
	// triggers no second gateway call.
	_, err := svc.SubmitTurn(context.Background(), "doosra sawal", "")
	assert.ErrorIs(t, err, ErrTurnInFlight)
	assert.Len(t, svc.Messages(), 2)
	assert.EqualValues(t, 1, provider.calls.Load())

	close(block)
	require.NoError(t, <-done)
	assert.Len(t, svc.Messages(), 3)

	// Back to idle: the next submission is accepted.
	_, err = svc.SubmitTurn(context.Background(), "teesra sawal", "")
	require.NoError(t, err)
}

func TestSubmitTurn_GatewayFailureKeepsUserMessage(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	svc := newTestService(provider, &fakeLocator{})

	_, err := svc.SubmitTurn(context.Background(), "sawal", "")
	assert.ErrorIs(t, err, ErrTurnFailed)

	// The user message stays committed; no partial assistant message.
	msgs := svc.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[1].Role)

	// Failure leaves the session idle again.
	provider.err = nil
	provider.reply = &ai.Reply{Text: "ab theek hai"}
	_, err = svc.SubmitTurn(context.Background(), "dobara", "")
	require.NoError(t, err)
}

func TestSubmitTurn_EmptyPOIListClearsActiveSet(t *testing.T) {
	provider := &fakeProvider{reply: &ai.Reply{
		Text: "yeh raha naqsha",
		POIs: []types.POI{{Lat: 31.5, Lng: 74.3, Title: "Badshahi Mosque", Category: types.CategoryDefault}},
	}}
	svc := newTestService(provider, &fakeLocator{})

	_, err := svc.SubmitTurn(context.Background(), "masjid dikhao", "")
	require.NoError(t, err)
	require.Len(t, svc.ActivePOIs(), 1)

	provider.reply = &ai.Reply{Text: "koi jagah nahi"}
	res, err := svc.SubmitTurn(context.Background(), "shukriya", "")
	require.NoError(t, err)
	assert.Empty(t, svc.ActivePOIs())
	assert.Equal(t, ViewChat, res.View)
}

func TestSubmitTurn_ForwardsLocationBias(t *testing.T) {
	provider := &fakeProvider{reply: &ai.Reply{Text: "qareeb hi hai"}}
	svc := newTestService(provider, &fakeLocator{})

	svc.SetLocation(types.Coordinates{Latitude: 24.86, Longitude: 67.0})
	_, err := svc.SubmitTurn(context.Background(), "qareeb kya hai?", "")
	require.NoError(t, err)

	require.NotNil(t, provider.lastTurn.Location)
	assert.Equal(t, 24.86, provider.lastTurn.Location.Latitude)
}

func TestSetLocation_ReplacedWholesale(t *testing.T) {
	svc := newTestService(&fakeProvider{}, &fakeLocator{})

	assert.Nil(t, svc.Location())

	svc.SetLocation(types.Coordinates{Latitude: 31.5, Longitude: 74.3})
	svc.SetLocation(types.Coordinates{Latitude: 24.86, Longitude: 67.0})

	loc := svc.Location()
	require.NotNil(t, loc)
	assert.Equal(t, types.Coordinates{Latitude: 24.86, Longitude: 67.0}, *loc)
}

func TestRequestLocation_Success(t *testing.T) {
	locator := &fakeLocator{coords: types.Coordinates{Latitude: 33.68, Longitude: 73.04}}
	svc := newTestService(&fakeProvider{}, locator)

	svc.RequestLocation(context.Background())

	require.Eventually(t, func() bool { return svc.Location() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 33.68, svc.Location().Latitude)
}

func TestRequestLocation_FailureRetainsPrior(t *testing.T) {
	locator := &fakeLocator{err: errors.New("denied")}
	svc := newTestService(&fakeProvider{}, locator)
	svc.SetLocation(types.Coordinates{Latitude: 31.5, Longitude: 74.3})

	svc.RequestLocation(context.Background())

	// The failed query must not invalidate the prior coordinate.
	time.Sleep(50 * time.Millisecond)
	loc := svc.Location()
	require.NotNil(t, loc)
	assert.Equal(t, 31.5, loc.Latitude)
}

func TestRequestLocation_NewerRequestSupersedes(t *testing.T) {
	slow := &fakeLocator{coords: types.Coordinates{Latitude: 1, Longitude: 1}, delay: 100 * time.Millisecond}
	svc := newTestService(&fakeProvider{}, slow)

	svc.RequestLocation(context.Background())

	// Swap in a fast locator for the superseding request; the slow result
	// must never overwrite the newer one.
	svc.mu.Lock()
	svc.locator = &fakeLocator{coords: types.Coordinates{Latitude: 2, Longitude: 2}}
	svc.mu.Unlock()
	svc.RequestLocation(context.Background())

	require.Eventually(t, func() bool { return svc.Location() != nil }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 2.0, svc.Location().Latitude)
}
