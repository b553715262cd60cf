// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchomuzax/hirstart-recosys/internal/models"
)

type backendFactory func(t *testing.T) Store

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		BackendMemory: func(t *testing.T) Store {
			return NewMemoryStore()
		},
		BackendBadger: func(t *testing.T) Store {
			s, err := OpenBadgerStore(t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		BackendRedis: func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		BackendSQLite: func(t *testing.T) Store {
			s, err := OpenSQLiteStore(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func sampleRecord() *Record {
	return &Record{
		Events: []models.ClickEvent{
			{Site: "index.hu", Timestamp: 1000, Category: "belfold", ItemID: "42"},
			{Site: "telex.hu", Timestamp: 2000},
		},
		SiteCounts:     models.Counts{"index.hu": 1, "telex.hu": 1},
		CategoryCounts: models.Counts{"belfold": 1},
		SeenItems:      []string{"42", "43"},
	}
}

func TestStoreContract(t *testing.T) {
	t.Parallel()

	for name, factory := range backends() {
		factory := factory
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			t.Run("empty profile loads as empty record", func(t *testing.T) {
				s := factory(t)
				rec, err := s.Load(ctx, "nobody")
				require.NoError(t, err)
				assert.Empty(t, rec.Events)
				assert.NotNil(t, rec.Events)
				assert.NotNil(t, rec.SiteCounts)
				assert.NotNil(t, rec.CategoryCounts)
				assert.NotNil(t, rec.SeenItems)
			})

			t.Run("save and load all fields", func(t *testing.T) {
				s := factory(t)
				want := sampleRecord()
				require.NoError(t, s.Save(ctx, "p1", want))

				got, err := s.Load(ctx, "p1")
				require.NoError(t, err)
				assert.Equal(t, want.Events, got.Events)
				assert.Equal(t, want.SiteCounts, got.SiteCounts)
				assert.Equal(t, want.CategoryCounts, got.CategoryCounts)
				assert.Equal(t, want.SeenItems, got.SeenItems)
			})

			t.Run("save writes only named fields", func(t *testing.T) {
				s := factory(t)
				require.NoError(t, s.Save(ctx, "p1", sampleRecord()))

				update := NewRecord()
				update.SeenItems = []string{"99"}
				require.NoError(t, s.Save(ctx, "p1", update, KeySeenItems))

				got, err := s.Load(ctx, "p1")
				require.NoError(t, err)
				assert.Equal(t, []string{"99"}, got.SeenItems)
				assert.Len(t, got.Events, 2)
				assert.Equal(t, 1, got.SiteCounts["index.hu"])
			})

			t.Run("load subset leaves other fields empty", func(t *testing.T) {
				s := factory(t)
				require.NoError(t, s.Save(ctx, "p1", sampleRecord()))

				got, err := s.Load(ctx, "p1", KeySiteCounts)
				require.NoError(t, err)
				assert.Len(t, got.SiteCounts, 2)
				assert.Empty(t, got.Events)
				assert.Empty(t, got.SeenItems)
			})

			t.Run("profiles are isolated", func(t *testing.T) {
				s := factory(t)
				require.NoError(t, s.Save(ctx, "p1", sampleRecord()))

				got, err := s.Load(ctx, "p2")
				require.NoError(t, err)
				assert.Empty(t, got.Events)
			})

			t.Run("delete removes profile", func(t *testing.T) {
				s := factory(t)
				require.NoError(t, s.Save(ctx, "p1", sampleRecord()))
				require.NoError(t, s.Delete(ctx, "p1"))

				got, err := s.Load(ctx, "p1")
				require.NoError(t, err)
				assert.Empty(t, got.Events)
				assert.Empty(t, got.SeenItems)
			})

			t.Run("unknown key is rejected", func(t *testing.T) {
				s := factory(t)
				_, err := s.Load(ctx, "p1", Key("bogus"))
				assert.ErrorIs(t, err, ErrUnknownKey)
				err = s.Save(ctx, "p1", NewRecord(), Key("bogus"))
				assert.ErrorIs(t, err, ErrUnknownKey)
			})

			t.Run("nil record is rejected", func(t *testing.T) {
				s := factory(t)
				assert.Error(t, s.Save(ctx, "p1", nil))
			})

			t.Run("ping", func(t *testing.T) {
				s := factory(t)
				assert.NoError(t, s.Ping(ctx))
			})
		})
	}
}

func TestInstrumentedWrapsErrors(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	inner := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	s := Instrument(inner, BackendRedis, nil)
	t.Cleanup(func() { _ = s.Close() })

	mr.Close()

	_, err := s.Load(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "load", pe.Op)
	assert.Equal(t, BackendRedis, pe.Backend)

	err = s.Save(context.Background(), "p1", NewRecord())
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestInstrumentedKeyFunc(t *testing.T) {
	t.Parallel()

	inner := NewMemoryStore()
	s := Instrument(inner, BackendMemory, func(p string) string { return "k-" + p })
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "alice", sampleRecord()))

	direct, err := inner.Load(ctx, "k-alice")
	require.NoError(t, err)
	assert.Len(t, direct.Events, 2)

	raw, err := inner.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, raw.Events)

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got.Events, 2)
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), configFor("cassandra"), nil)
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	t.Parallel()
	s, err := Open(context.Background(), configFor(BackendMemory), nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, BackendMemory, s.Backend())
}

func TestLockerSerialisesProfile(t *testing.T) {
	t.Parallel()

	l := NewLocker()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("p1")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, l.Held())
}

func TestLockerIndependentProfiles(t *testing.T) {
	t.Parallel()

	l := NewLocker()
	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, l.Held())
	unlockA()
	assert.Equal(t, 0, l.Held())
}
