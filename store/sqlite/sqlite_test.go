package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wage-watcher/store/sqlite"
	"github.com/warp/wage-watcher/wage"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// BLOB STORE TESTS
// =============================================================================

func TestStore_Load_Empty(t *testing.T) {
	store := newTestStore(t)

	blob, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestStore_SaveLoadClear(t *testing.T) {
	// GIVEN: A saved blob for a running session
	store := newTestStore(t)
	ctx := context.Background()

	anchor := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	in := wage.DefaultInputs()
	in.MonthlySalary = "4400"
	session := wage.Session{Status: wage.StatusManualActive, Anchor: anchor, Accumulated: 90 * time.Second}
	require.NoError(t, store.Save(ctx, wage.NewBlob(in, session, wage.MilestoneState{})))

	// WHEN: Loading it back
	blob, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, blob)

	// THEN: Fields survive the round trip
	assert.Equal(t, 4400.0, blob.MonthlySalary)
	assert.True(t, blob.IsRunning)
	assert.Equal(t, 90.0, blob.AccumulatedSeconds)
	require.NotNil(t, blob.SessionAnchorTime)
	assert.Equal(t, anchor.UnixMilli(), *blob.SessionAnchorTime)
	assert.Equal(t, "4400", blob.Inputs().MonthlySalary)

	// AND: Clear removes it
	require.NoError(t, store.Clear(ctx))
	blob, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestStore_Save_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := wage.DefaultInputs()
	require.NoError(t, store.Save(ctx, wage.NewBlob(in, wage.Session{}, wage.MilestoneState{})))
	in.WorkDaysPerMonth = "20"
	require.NoError(t, store.Save(ctx, wage.NewBlob(in, wage.Session{}, wage.MilestoneState{})))

	blob, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, blob.WorkDaysPerMonth)
}

func TestStore_Load_CorruptRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRaw(ctx, "{not json"))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, wage.ErrCorruptBlob)
}

// =============================================================================
// CELEBRATION LOG TESTS
// =============================================================================

func TestStore_Celebrations_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"c-1", "c-2", "c-3"} {
		require.NoError(t, store.SaveCelebration(ctx, wage.Celebration{
			ID:        id,
			At:        base.Add(time.Duration(i) * time.Hour),
			Earnings:  decimal.NewFromInt(int64(100*(i+1)) + 1),
			Milestone: decimal.NewFromInt(int64(100 * (i + 1))),
			Threshold: decimal.NewFromInt(100),
		}))
	}

	records, err := store.ListCelebrations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c-3", records[0].ID)
	assert.Equal(t, "c-2", records[1].ID)
	assert.True(t, records[0].Milestone.Equal(decimal.NewFromInt(300)))
	assert.True(t, records[0].At.Equal(base.Add(2*time.Hour)))
}

func TestStore_SaveCelebration_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := wage.Celebration{ID: "c-1", At: time.Now(), Earnings: decimal.NewFromInt(101),
		Milestone: decimal.NewFromInt(100), Threshold: decimal.NewFromInt(100)}

	require.NoError(t, store.SaveCelebration(ctx, c))
	require.NoError(t, store.SaveCelebration(ctx, c))

	records, err := store.ListCelebrations(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_ClearCelebrations_KeepsBlob(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, wage.NewBlob(wage.DefaultInputs(), wage.Session{}, wage.MilestoneState{})))
	require.NoError(t, store.SaveCelebration(ctx, wage.Celebration{ID: "c-1", At: time.Now()}))

	require.NoError(t, store.ClearCelebrations(ctx))

	blob, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, blob)
	records, err := store.ListCelebrations(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
