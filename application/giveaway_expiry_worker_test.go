package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"pointsbot/events"
	"pointsbot/models"
	"pointsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) List(ctx context.Context) ([]*models.Giveaway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Giveaway), args.Error(1)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestGiveawayExpiryWorker_PublishesOncePerGiveaway(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	expired := &models.Giveaway{ID: "old00001", CreatedBy: 9, EndsAt: now.Add(-time.Minute), Participants: []int64{1, 2}}
	open := &models.Giveaway{ID: "new00002", CreatedBy: 9, EndsAt: now.Add(time.Hour)}

	lister := new(mockLister)
	lister.On("List", ctx).Return([]*models.Giveaway{expired, open}, nil)

	publisher := new(service.MockEventPublisher)
	publisher.On("Publish", events.GiveawayExpiredEvent{
		GiveawayID:       "old00001",
		CreatedBy:        9,
		EndsAt:           expired.EndsAt,
		ParticipantCount: 2,
	}).Return().Once()

	worker := NewGiveawayExpiryWorker(lister, publisher, fixedClock{now}, time.Minute)

	count, err := worker.CheckExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second scan does not repeat the announcement
	count, err = worker.CheckExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	publisher.AssertExpectations(t)
}

func TestGiveawayExpiryWorker_ForgetsRemovedGiveaways(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expired := &models.Giveaway{ID: "old00001", EndsAt: now.Add(-time.Minute)}

	lister := new(mockLister)
	lister.On("List", ctx).Return([]*models.Giveaway{expired}, nil).Once()
	lister.On("List", ctx).Return([]*models.Giveaway{}, nil).Once()

	publisher := new(service.MockEventPublisher)
	publisher.On("Publish", mock.AnythingOfType("events.GiveawayExpiredEvent")).Return()

	worker := NewGiveawayExpiryWorker(lister, publisher, fixedClock{now}, time.Minute)

	_, err := worker.CheckExpired(ctx)
	require.NoError(t, err)
	_, err = worker.CheckExpired(ctx)
	require.NoError(t, err)

	assert.Empty(t, worker.notified)
}

func TestGiveawayExpiryWorker_ListFailure(t *testing.T) {
	ctx := context.Background()
	lister := new(mockLister)
	lister.On("List", ctx).Return(nil, errors.New("store unavailable"))

	publisher := new(service.MockEventPublisher)
	worker := NewGiveawayExpiryWorker(lister, publisher, fixedClock{time.Now()}, time.Minute)

	_, err := worker.CheckExpired(ctx)
	assert.Error(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestGiveawayExpiryWorker_StartRunsScheduledScan(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	expired := &models.Giveaway{ID: "old00001", EndsAt: now.Add(-time.Minute)}

	lister := new(mockLister)
	lister.On("List", ctx).Return([]*models.Giveaway{expired}, nil)

	published := make(chan struct{}, 1)
	publisher := new(service.MockEventPublisher)
	publisher.On("Publish", mock.AnythingOfType("events.GiveawayExpiredEvent")).Return().Run(func(args mock.Arguments) {
		published <- struct{}{}
	})

	worker := NewGiveawayExpiryWorker(lister, publisher, fixedClock{now}, 20*time.Millisecond)
	stop, err := worker.Start(ctx)
	require.NoError(t, err)
	defer stop()

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled scan did not run")
	}
}
