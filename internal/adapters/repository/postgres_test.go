package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresStore_BadURL(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database URL")
}

// Runs against a live database when SWING_TEST_DATABASE_URL is set.
func TestPostgresStore_RoundTrip(t *testing.T) {
	url := os.Getenv("SWING_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SWING_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewPostgresStore(ctx, url, WithPoolSize(1, 4), WithPostgresHistoryLimit(2))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))

	athlete := "pg-" + uuid.NewString()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for i, id := range ids {
		require.NoError(t, s.Save(ctx, analysis(id, athlete, time.Duration(i)*time.Minute)))
	}
	assert.ErrorIs(t, s.Save(ctx, analysis(ids[0], athlete, 0)), ErrDuplicate)

	got, err := s.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, athlete, got.AthleteID)
	assert.True(t, got.CapturedAt.Equal(base.Add(time.Minute)))

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	hist, err := s.ListByAthlete(ctx, athlete, 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, ids[2], hist[0].AnalysisID)
	assert.Equal(t, ids[1], hist[1].AnalysisID)

	assert.GreaterOrEqual(t, s.Count(ctx), 3)
}
