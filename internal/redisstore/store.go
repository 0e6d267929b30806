// Package redisstore implements scenariostore.Store on Redis so several
// server instances can share published scenarios.
//
// Documents live under "scenario:<name>"; the sorted set "scenario:index"
// holds every name with score 0, so ZRANGE returns them in lexical order.
// Every change is announced on the "scenario:updates" channel.
package redisstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/scenariostore"
)

const (
	keyPrefix      = "scenario:"
	indexKey       = "scenario:index"
	updatesChannel = "scenario:updates"
)

// DefaultURL is used when New is given an empty URL.
const DefaultURL = "redis://localhost:6379"

// Store is a Redis-backed scenario store.
type Store struct {
	client redis.UniversalClient
}

var (
	_ scenariostore.Store    = (*Store)(nil)
	_ scenariostore.Notifier = (*Store)(nil)
)

// New connects to the Redis server at url and verifies the connection.
func New(url string) (*Store, error) {
	if url == "" {
		url = DefaultURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func docKey(name string) string { return keyPrefix + name }

// Put stores doc under name and announces the change.
func (s *Store) Put(ctx context.Context, name string, doc []byte) error {
	if err := scenariostore.ValidateName(name); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, docKey(name), bytes.Clone(doc), 0)
		p.ZAdd(ctx, indexKey, redis.Z{Score: 0, Member: name})
		p.Publish(ctx, updatesChannel, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put scenario %q: %w", name, err)
	}
	return nil
}

// Get returns the document stored under name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	doc, err := s.client.Get(ctx, docKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, scenariostore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario %q: %w", name, err)
	}
	return doc, nil
}

// List returns every stored name in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Delete removes the document stored under name and announces the change.
func (s *Store) Delete(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, docKey(name))
		p.ZRem(ctx, indexKey, name)
		p.Publish(ctx, updatesChannel, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	if del.Val() == 0 {
		return scenariostore.ErrNotFound
	}
	return nil
}

// Subscribe streams the names carried by the updates channel.
func (s *Store) Subscribe(ctx context.Context) (<-chan string, error) {
	sub := s.client.Subscribe(ctx, updatesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", updatesChannel, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	ctxlog.FromContext(ctx).Debug("Subscribed to scenario updates.", "channel", updatesChannel)
	return out, nil
}
