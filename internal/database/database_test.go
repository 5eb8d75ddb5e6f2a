package database

import (
	"context"
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, USER_CACHE_INDEX)
	assert.Equal(t, 2, LEADERBOARD_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestCache_ByIndex(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		expected string
		wantErr  bool
	}{
		{name: "General", index: GENERAL_CACHE_INDEX, expected: "General"},
		{name: "User", index: USER_CACHE_INDEX, expected: "User"},
		{name: "Leaderboard", index: LEADERBOARD_CACHE_INDEX, expected: "Leaderboard"},
		{name: "Events", index: EVENTS_CACHE_INDEX, expected: "Events"},
		{name: "Out of range", index: 9, wantErr: true},
		{name: "Negative", index: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := Cache{}.byIndex(tt.index)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, client.name)
		})
	}
}

func TestDB_WithoutConnections(t *testing.T) {
	db := &DB{log: logger.New("test")}

	assert.Nil(t, db.SQL)
	assert.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestNewCacheBuilder_Keys(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		builder  *CacheBuilder
		expected string
	}{
		{name: "String key", builder: NewCacheBuilder(nil, "abc"), expected: "abc"},
		{name: "UUID key", builder: NewCacheBuilder(nil, id), expected: id.String()},
		{name: "Int key", builder: NewCacheBuilder(nil, 42), expected: "42"},
		{name: "Hash prefix", builder: NewCacheBuilder(nil, "abc").WithHash("user"), expected: "user:abc"},
		{name: "Empty hash is ignored", builder: NewCacheBuilder(nil, "abc").WithHash(""), expected: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.builder.Key())
		})
	}
}

func TestCacheBuilder_WithHashOnKeyList(t *testing.T) {
	builder := NewCacheBuilder(nil, []string{"a", "b"}).WithHash("board")

	assert.Equal(t, []string{"board:a", "board:b"}, builder.keys)
	assert.Equal(t, "", builder.Key())
}

func TestCacheBuilder_ValidationErrors(t *testing.T) {
	t.Run("Set requires key", func(t *testing.T) {
		err := NewCacheBuilder(nil, "").WithValue("v").Set()
		assert.ErrorIs(t, err, ErrCacheKeyRequired)
	})

	t.Run("Set requires value", func(t *testing.T) {
		err := NewCacheBuilder(nil, "k").Set()
		assert.ErrorIs(t, err, ErrCacheValueRequired)
	})

	t.Run("Get requires key", func(t *testing.T) {
		var out string
		found, err := NewCacheBuilder(nil, "").Get(&out)
		assert.False(t, found)
		assert.ErrorIs(t, err, ErrCacheKeyRequired)
	})

	t.Run("Sadd requires member", func(t *testing.T) {
		err := NewCacheBuilder(nil, "k").SetSadd()
		assert.ErrorIs(t, err, ErrCacheMemberRequired)
	})

	t.Run("Marshal failure is carried to Set", func(t *testing.T) {
		err := NewCacheBuilder(nil, "k").WithStruct(make(chan int)).Set()
		assert.ErrorContains(t, err, "failed to marshal value to json")
	})

	t.Run("Delete without keys is a no-op", func(t *testing.T) {
		assert.NoError(t, NewCacheBuilder(nil, "").Delete())
	})
}

func TestCacheBuilder_TimeoutContext(t *testing.T) {
	t.Run("Applies default timeout", func(t *testing.T) {
		ctx, cancel := NewCacheBuilder(nil, "k").WithTimeout(time.Minute).createTimeoutContext()
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
	})

	t.Run("Keeps a tighter parent deadline", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
		defer parentCancel()

		ctx, cancel := NewCacheBuilder(nil, "k").WithContext(parent).createTimeoutContext()
		defer cancel()

		parentDeadline, _ := parent.Deadline()
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.Equal(t, parentDeadline, deadline)
	})
}
