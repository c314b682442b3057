package tracking

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/logger"
	"storefront-system/internal/messaging"
	"storefront-system/internal/models"
)

// stubConsumer feeds pre-canned message bodies to the handler.
type stubConsumer struct {
	bodies [][]byte
}

func (s *stubConsumer) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	for _, body := range s.bodies {
		if err := handler(ctx, body); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func encodeUpdate(t *testing.T, orderNumber string, newStatus models.OrderStatus) []byte {
	t.Helper()
	body, err := json.Marshal(models.NewStatusUpdateMessage(orderNumber, models.StatusPending, newStatus, "test-worker", nil))
	require.NoError(t, err)
	return body
}

func TestSubscribe_FiltersByOrderNumber(t *testing.T) {
	feed := NewStatusFeed(nil, logger.New("test"))

	sub := feed.Subscribe("ORD_20250314_001")
	defer sub.Unsubscribe()

	ctx := context.Background()
	require.NoError(t, feed.handleMessage(ctx, encodeUpdate(t, "ORD_20250314_001", models.StatusConfirmed)))
	require.NoError(t, feed.handleMessage(ctx, encodeUpdate(t, "ORD_20250314_002", models.StatusConfirmed)))
	require.NoError(t, feed.handleMessage(ctx, encodeUpdate(t, "ORD_20250314_001", models.StatusPreparing)))

	update := <-sub.C
	assert.Equal(t, "ORD_20250314_001", update.OrderNumber)
	assert.Equal(t, models.StatusConfirmed, update.NewStatus)

	update = <-sub.C
	assert.Equal(t, models.StatusPreparing, update.NewStatus)

	select {
	case got := <-sub.C:
		t.Fatalf("unexpected update for order %s", got.OrderNumber)
	default:
	}
}

func TestSubscribeAll_ReceivesEverything(t *testing.T) {
	feed := NewStatusFeed(nil, logger.New("test"))

	sub := feed.SubscribeAll()
	defer sub.Unsubscribe()

	ctx := context.Background()
	require.NoError(t, feed.handleMessage(ctx, encodeUpdate(t, "ORD_20250314_001", models.StatusConfirmed)))
	require.NoError(t, feed.handleMessage(ctx, encodeUpdate(t, "ORD_20250314_002", models.StatusReady)))

	first := <-sub.C
	second := <-sub.C
	assert.Equal(t, "ORD_20250314_001", first.OrderNumber)
	assert.Equal(t, "ORD_20250314_002", second.OrderNumber)
}

func TestUnsubscribe_IsIdempotent(t *testing.T) {
	feed := NewStatusFeed(nil, logger.New("test"))

	sub := feed.Subscribe("ORD_20250314_001")

	sub.Unsubscribe()
	sub.Unsubscribe()

	// The channel is closed exactly once; further updates go nowhere.
	_, open := <-sub.C
	assert.False(t, open)

	require.NoError(t, feed.handleMessage(context.Background(), encodeUpdate(t, "ORD_20250314_001", models.StatusConfirmed)))
}

func TestHandleMessage_RejectsMalformedBody(t *testing.T) {
	feed := NewStatusFeed(nil, logger.New("test"))

	err := feed.handleMessage(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}

func TestStart_ClosesSubscriptionsOnShutdown(t *testing.T) {
	consumer := &stubConsumer{bodies: [][]byte{encodeUpdate(t, "ORD_20250314_001", models.StatusConfirmed)}}
	feed := NewStatusFeed(consumer, logger.New("test"))

	sub := feed.SubscribeAll()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- feed.Start(ctx)
	}()

	update := <-sub.C
	assert.Equal(t, models.StatusConfirmed, update.NewStatus)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	_, open := <-sub.C
	assert.False(t, open)
}
