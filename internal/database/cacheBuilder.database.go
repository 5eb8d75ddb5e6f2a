package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

var (
	ErrCacheKeyRequired    = errors.New("key is required")
	ErrCacheValueRequired  = errors.New("value is required")
	ErrCacheMemberRequired = errors.New("member is required")
)

type KeyType interface {
	string | []string | uuid.UUID | int
}

type CacheBuilder struct {
	cache      valkey.Client
	key        string
	keys       []string
	value      string
	ttl        time.Duration
	ctx        context.Context
	ctxTimeout time.Duration
	member     string
	err        error
}

func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	cacheBuilder := CacheBuilder{
		cache:      cache,
		ttl:        1 * time.Hour,
		ctxTimeout: 5 * time.Second,
		ctx:        context.Background(),
	}

	switch k := any(key).(type) {
	case string:
		cacheBuilder.key = k
	case uuid.UUID:
		cacheBuilder.key = k.String()
	case int:
		cacheBuilder.key = strconv.Itoa(k)
	case []string:
		cacheBuilder.keys = k
	}

	return &cacheBuilder
}

// Key returns the fully built key.
func (cb *CacheBuilder) Key() string {
	return cb.key
}

func (cb *CacheBuilder) WithValue(value string) *CacheBuilder {
	cb.value = value
	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	bytes, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("failed to marshal value to json: %w", err)
		return cb
	}

	cb.value = string(bytes)
	return cb
}

func (cb *CacheBuilder) WithHash(hash string) *CacheBuilder {
	if hash == "" {
		return cb
	}

	if cb.key != "" {
		cb.key = fmt.Sprintf("%s:%s", hash, cb.key)
	}
	for i, key := range cb.keys {
		cb.keys[i] = fmt.Sprintf("%s:%s", hash, key)
	}

	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) WithTimeout(timeout time.Duration) *CacheBuilder {
	cb.ctxTimeout = timeout
	return cb
}

func (cb *CacheBuilder) Set() error {
	if cb.err != nil {
		return cb.err
	}

	if cb.key == "" {
		return ErrCacheKeyRequired
	}

	if cb.value == "" {
		return ErrCacheValueRequired
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).
		Error()
}

// Get decodes the cached JSON into result and reports whether the key existed.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if cb.err != nil {
		return false, cb.err
	}

	if cb.key == "" {
		return false, ErrCacheKeyRequired
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	data, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(cb.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	if data == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return false, err
	}

	return true, nil
}

// Delete removes the builder's key, or every key when built from a key list.
func (cb *CacheBuilder) Delete() error {
	if cb.err != nil {
		return cb.err
	}

	keys := cb.keys
	if cb.key != "" {
		keys = append([]string{cb.key}, keys...)
	}
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(keys...).Build()).Error()
}

// SADD

func (cb *CacheBuilder) WithMember(member string) *CacheBuilder {
	cb.member = member
	return cb
}

func (cb *CacheBuilder) SetSadd() error {
	if cb.err != nil {
		return cb.err
	}

	if cb.key == "" {
		return ErrCacheKeyRequired
	}

	if cb.member == "" {
		return ErrCacheMemberRequired
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx,
		cb.cache.B().Sadd().
			Key(cb.key).
			Member(cb.member).
			Build()).Error()
}

func (cb *CacheBuilder) RemoveSetMember() error {
	if cb.err != nil {
		return cb.err
	}

	if cb.member == "" {
		return ErrCacheMemberRequired
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx,
		cb.cache.B().Srem().
			Key(cb.key).
			Member(cb.member).
			Build()).Error()
}

func (cb *CacheBuilder) GetSetMembers() ([]string, error) {
	if cb.err != nil {
		return nil, cb.err
	}

	if cb.key == "" {
		return nil, ErrCacheKeyRequired
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Smembers().Key(cb.key).Build()).AsStrSlice()
}

func (cb *CacheBuilder) createTimeoutContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok && time.Until(deadline) < cb.ctxTimeout {
		return context.WithCancel(cb.ctx)
	}
	return context.WithTimeout(cb.ctx, cb.ctxTimeout)
}
