package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func TestItems_FromStore(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))

	want := []models.MenuItem{{ID: "9", Name: "Quattro Stagioni", Price: 15.49}}
	store.On("ListMenuItems", mock.Anything).Return(want, nil).Once()

	items := catalog.Items(context.Background())

	assert.Equal(t, want, items)
	store.AssertExpectations(t)
}

func TestItems_FallbackOnError(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))

	store.On("ListMenuItems", mock.Anything).Return(nil, errors.New("connection refused"))

	items := catalog.Items(context.Background())

	require.Len(t, items, 6)
	assert.Equal(t, "Margherita Pizza", items[0].Name)
	assert.InDelta(t, 12.99, items[0].Price, 0.0001)
}

func TestItems_FallbackOnEmptyCatalog(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))

	store.On("ListMenuItems", mock.Anything).Return([]models.MenuItem{}, nil).Once()

	items := catalog.Items(context.Background())

	assert.Len(t, items, 6)
	store.AssertExpectations(t)
}

func TestItems_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))

	store.On("ListMenuItems", mock.Anything).Return(nil, errors.New("down"))

	// Enough failures to trip the breaker; every call still yields the
	// fallback catalog rather than an error.
	for i := 0; i < 10; i++ {
		items := catalog.Items(context.Background())
		require.Len(t, items, 6)
	}

	// Once open, the breaker short-circuits without touching the store.
	calls := len(store.Calls)
	catalog.Items(context.Background())
	assert.Equal(t, calls, len(store.Calls))
}

func TestSubscribe_DeliversSnapshots(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))
	catalog.pollInterval = 10 * time.Millisecond

	want := []models.MenuItem{{ID: "1", Name: "Margherita Pizza", Price: 12.99}}
	store.On("ListMenuItems", mock.Anything).Return(want, nil)

	sub := catalog.Subscribe(context.Background())
	defer sub.Unsubscribe()

	select {
	case items := <-sub.C:
		assert.Equal(t, want, items)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first catalog snapshot")
	}
}

func TestSubscribe_UnsubscribeIsIdempotent(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))
	catalog.pollInterval = 10 * time.Millisecond

	store.On("ListMenuItems", mock.Anything).Return([]models.MenuItem{{ID: "1"}}, nil)

	sub := catalog.Subscribe(context.Background())

	sub.Unsubscribe()
	sub.Unsubscribe()
	sub.Unsubscribe()

	// The feed channel closes once the subscription is torn down.
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-sub.C:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("feed channel was not closed after Unsubscribe")
		}
	}
}

func TestSubscribe_ParentContextCancelStopsFeed(t *testing.T) {
	store := new(MockStore)
	catalog := NewCatalog(store, logger.New("test"))
	catalog.pollInterval = 10 * time.Millisecond

	store.On("ListMenuItems", mock.Anything).Return([]models.MenuItem{{ID: "1"}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sub := catalog.Subscribe(ctx)
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-sub.C:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("feed channel was not closed after context cancellation")
		}
	}
}
