package ordersvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquavenda/pos/internal/service/models/order"
	"github.com/aquavenda/pos/internal/service/services/ordersvc"
)

func newMirrorFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixture(t, ordersvc.WithMirror(ordersvc.MirrorConfig{
		Exchange:   "orders.mirror",
		RoutingKey: "order.saved",
		MaxRetries: 3,
	}))
}

func TestSaveEnqueuesMirrorMessage(t *testing.T) {
	f := newMirrorFixture(t)

	id := f.save(t, order.Order{Address: "1022 St."})

	msgs, err := f.svc.PendingMirrorMessages(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, msgs, 1)
	assert.Equal(t, "orders.mirror", msgs[0].ExchangeName)
	assert.Equal(t, "order.saved", msgs[0].RoutingKey)
	assert.Equal(t, "application/json", msgs[0].ContentType)
	assert.Contains(t, string(msgs[0].Payload), id)
}

func TestSaveWithoutMirrorEnqueuesNothing(t *testing.T) {
	f := newFixture(t)

	f.save(t, order.Order{Address: "1022 St."})

	msgs, err := f.svc.PendingMirrorMessages(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMarkMirrorPublishedRemovesFromPending(t *testing.T) {
	f := newMirrorFixture(t)
	ctx := context.Background()

	f.save(t, order.Order{Address: "1022 St."})

	msgs, err := f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, f.svc.MarkMirrorPublished(ctx, msgs[0].ID))

	msgs, err = f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestUpdateMirrorRetryDefersUntilBackoffElapses(t *testing.T) {
	f := newMirrorFixture(t)
	ctx := context.Background()

	f.save(t, order.Order{Address: "1022 St."})

	msgs, err := f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	id := msgs[0].ID

	// push the next attempt far beyond the fixture clock
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.svc.UpdateMirrorRetry(ctx, id, 1, "connection refused", future))

	msgs, err = f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// once the backoff window has passed the message is due again
	past := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.svc.UpdateMirrorRetry(ctx, id, 2, "connection refused", past))

	msgs, err = f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 2, msgs[0].RetryCount)
	assert.Equal(t, "connection refused", msgs[0].LastError)
}

func TestPendingMirrorMessagesSkipsExhaustedRetries(t *testing.T) {
	f := newMirrorFixture(t)
	ctx := context.Background()

	f.save(t, order.Order{Address: "1022 St."})

	msgs, err := f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	past := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.svc.UpdateMirrorRetry(ctx, msgs[0].ID, 3, "connection refused", past))

	msgs, err = f.svc.PendingMirrorMessages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestPendingMirrorMessagesBoundedByLimit(t *testing.T) {
	f := newMirrorFixture(t)
	ctx := context.Background()

	f.save(t, order.Order{Address: "First St."})
	f.save(t, order.Order{Address: "Second St."})
	f.save(t, order.Order{Address: "Third St."})

	msgs, err := f.svc.PendingMirrorMessages(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}
