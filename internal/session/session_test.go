package session

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/meta"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/mock"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xtest"
)

func TestCreate(t *testing.T) {
	ctx := xtest.Context(t)

	t.Run("HappyWay", func(t *testing.T) {
		service := mock.NewService()
		s, err := Create(ctx, service,
			WithDatabase("/local"),
			WithRouteToLeader(true),
			WithTemplate(rpc.Template{
				CreatorRole: "admin",
				Labels:      map[string]string{"app": "test"},
			}),
		)
		require.NoError(t, err)
		require.Equal(t, service.Created(), []string{s.ID()})
		require.Equal(t, "admin", s.CreatorRole())
		require.Equal(t, map[string]string{"app": "test"}, s.Labels())
		require.Equal(t, StatusIdle, s.State())

		md := service.Metadata()
		require.Len(t, md, 1)
		require.Equal(t, []string{"/local"}, md[0].Get(meta.HeaderDatabase))
		require.Equal(t, []string{"true"}, md[0].Get(meta.HeaderRouteToLeader))
	})
	t.Run("Error", func(t *testing.T) {
		service := mock.NewService()
		testErr := errors.New("test")
		service.FailCreate(testErr)
		s, err := Create(ctx, service)
		require.ErrorIs(t, err, testErr)
		require.Nil(t, s)
	})
	t.Run("LabelsAreCopied", func(t *testing.T) {
		labels := map[string]string{"app": "test"}
		s := New("id", mock.NewService(), WithTemplate(rpc.Template{Labels: labels}))
		labels["app"] = "changed"
		require.Equal(t, "test", s.Labels()["app"])

		s.Labels()["app"] = "changed"
		require.Equal(t, "test", s.Labels()["app"])
	})
}

func TestExists(t *testing.T) {
	ctx := xtest.Context(t)
	service := mock.NewService()
	s, err := Create(ctx, service)
	require.NoError(t, err)

	exists, err := s.Exists(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	service.Expire(s.ID())
	exists, err = s.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	testErr := errors.New("test")
	service.FailExists(testErr)
	exists, err = s.Exists(ctx)
	require.ErrorIs(t, err, testErr)
	require.False(t, exists)
}

func TestPing(t *testing.T) {
	ctx := xtest.Context(t)
	service := mock.NewService()
	s, err := Create(ctx, service)
	require.NoError(t, err)

	require.NoError(t, s.Ping(ctx))
	require.Equal(t, 1, service.Pings(s.ID()))

	service.Expire(s.ID())
	err = s.Ping(ctx)
	require.ErrorIs(t, err, rpc.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	ctx := xtest.Context(t)

	t.Run("Idempotent", func(t *testing.T) {
		service := mock.NewService()
		s, err := Create(ctx, service)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx))
		require.NoError(t, s.Delete(ctx))
		require.Equal(t, StatusDeleted, s.State())
		require.Equal(t, 1, service.DeleteCalls())
		require.False(t, service.Alive(s.ID()))
	})
	t.Run("NotFoundIsSuccess", func(t *testing.T) {
		service := mock.NewService()
		s, err := Create(ctx, service)
		require.NoError(t, err)

		service.Expire(s.ID())
		require.NoError(t, s.Delete(ctx))
		require.Equal(t, StatusDeleted, s.State())
	})
	t.Run("Error", func(t *testing.T) {
		service := mock.NewService()
		s, err := Create(ctx, service)
		require.NoError(t, err)

		testErr := errors.New("test")
		service.FailDelete(testErr)
		require.ErrorIs(t, s.Delete(ctx), testErr)
		require.Equal(t, StatusDeleted, s.State())
	})
	t.Run("DetachesAttachments", func(t *testing.T) {
		s := New("id", mock.NewService())
		tx := s.Transaction()
		lease := s.MarkCheckedOut(false, "")

		require.NoError(t, s.Delete(ctx))
		require.Nil(t, tx.Session())
		require.Nil(t, lease.Session())
		require.ErrorIs(t, tx.Err(), ErrDetached)
	})
}

func TestCheckoutStamps(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New("id", mock.NewService(), WithClock(clock))
	require.True(t, s.CompareAndSwapState(StatusIdle, StatusCheckedOut))
	require.False(t, s.CompareAndSwapState(StatusIdle, StatusCheckedOut))

	lease := s.MarkCheckedOut(true, "stack")
	require.Same(t, s, lease.Session())
	require.Same(t, lease, s.Lease())
	require.Equal(t, clock.Now(), s.CheckedOutAt())
	require.True(t, s.LongRunning())
	require.Equal(t, "stack", s.CheckoutStack())

	require.True(t, s.MarkLogged())
	require.False(t, s.MarkLogged())
	require.True(t, s.AlreadyLogged())

	clock.Advance(time.Minute)
	s.MarkIdle()
	require.True(t, s.CheckedOutAt().IsZero())
	require.False(t, s.LongRunning())
	require.Empty(t, s.CheckoutStack())
	require.Nil(t, lease.Session())
	require.Nil(t, s.Lease())
	require.Equal(t, clock.Now(), s.LastUsage())

	clock.Advance(time.Hour)
	require.Equal(t, time.Hour, s.IdleAge())

	lease = s.MarkCheckedOut(false, "")
	require.False(t, s.AlreadyLogged())
	require.NotNil(t, lease.Session())
}

func TestAttachments(t *testing.T) {
	s := New("id", mock.NewService())

	require.Nil(t, s.CurrentTransaction())
	tx := s.Transaction()
	require.Same(t, tx, s.Transaction())
	require.Same(t, tx, s.CurrentTransaction())
	require.NoError(t, tx.Err())

	batch := s.Batch()
	snapshot := s.Snapshot()
	require.Same(t, s, batch.Session())
	require.Same(t, s, snapshot.Session())

	tx.Finish()
	require.Nil(t, s.CurrentTransaction())
	require.Nil(t, tx.Session())

	tx = s.Transaction()
	s.Detach()
	require.Nil(t, tx.Session())
	require.Nil(t, batch.Session())
	require.Nil(t, snapshot.Session())
	require.ErrorIs(t, snapshot.Err(), ErrDetached)
	require.Nil(t, s.CurrentTransaction())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "Idle", StatusIdle.String())
	require.Equal(t, "CheckedOut", StatusCheckedOut.String())
	require.Equal(t, "Deleted", StatusDeleted.String())
	require.Equal(t, "Unknown", Status(42).String())

	var s *Session
	require.Empty(t, s.ID())
}
