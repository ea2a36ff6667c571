package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/session"
)

func testRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, time.Hour), mr
}

func testState(id string) *session.State {
	return &session.State{
		SessionID: id,
		CreatedAt: time.Now().UTC(),
		Stops:     []domain.Stop{{StopID: "S1", Demand: 2, LocationIndex: 1}},
		Vehicles:  []domain.Vehicle{{VehicleID: "V1", Profile: domain.ProfileAuto}},
		Visits: []domain.AssignedVisit{{
			RouteID:      "V1",
			StopID:       "S1",
			TripID:       1,
			LocationType: domain.LocationJob,
			Issue:        domain.IssueOnTime,
		}},
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := testRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState("sess-1")))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, "sess-1", loaded.SessionID)
	require.Len(t, loaded.Visits, 1)
	require.Equal(t, "S1", loaded.Visits[0].StopID)
	require.Equal(t, domain.IssueOnTime, loaded.Visits[0].Issue)
	require.False(t, loaded.UpdatedAt.IsZero())
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store, _ := testRedisStore(t)

	_, err := store.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := testRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState("sess-1")))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Load(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := testRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState("sess-1")))

	mr.FastForward(2 * time.Hour)

	_, err := store.Load(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreRejectsMissingID(t *testing.T) {
	store, _ := testRedisStore(t)
	ctx := context.Background()

	require.Error(t, store.Save(ctx, &session.State{}))
	_, err := store.Load(ctx, "")
	require.Error(t, err)
	require.Error(t, store.Delete(ctx, ""))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState("sess-1")))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, "sess-1", loaded.SessionID)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Load(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNotFound)
}
