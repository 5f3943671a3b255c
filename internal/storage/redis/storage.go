package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each protection is a HASH of sign location to sign JSON, plus a LIST
// that keeps the attachment order of its signs.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Protection operations

func (s *Storage) SaveProtection(ctx context.Context, protection *model.Protection) error {
	hKey := protectionKey(protection.ID)
	oKey := signOrderKey(protection.ID)

	// Replace the whole protection atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, hKey, oKey)
	for _, sign := range protection.Signs {
		data, err := json.Marshal(sign)
		if err != nil {
			return err
		}
		pipe.HSet(ctx, hKey, signField(sign.Location), data)
		pipe.RPush(ctx, oKey, signField(sign.Location))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProtection(ctx context.Context, id model.ProtectionID) (*model.Protection, error) {
	fields, err := s.client.LRange(ctx, signOrderKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrProtectionNotFound
	}

	values, err := s.client.HMGet(ctx, protectionKey(id), fields...).Result()
	if err != nil {
		return nil, err
	}

	protection := &model.Protection{ID: id, Signs: make([]model.SignEntry, 0, len(values))}
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Order list may briefly reference a sign that is gone
		}
		var sign model.SignEntry
		if err := json.Unmarshal([]byte(str), &sign); err != nil {
			return nil, fmt.Errorf("decode sign %s: %w", fields[i], err)
		}
		protection.Signs = append(protection.Signs, sign)
	}
	return protection, nil
}

func (s *Storage) DeleteProtection(ctx context.Context, id model.ProtectionID) error {
	return s.client.Del(ctx, protectionKey(id), signOrderKey(id)).Err()
}

// Sign operations

func (s *Storage) SaveSign(ctx context.Context, id model.ProtectionID, sign model.SignEntry) error {
	data, err := json.Marshal(sign)
	if err != nil {
		return err
	}

	field := signField(sign.Location)
	added, err := s.client.HSet(ctx, protectionKey(id), field, data).Result()
	if err != nil {
		return err
	}

	// New signs go to the end of the attachment order
	if added > 0 {
		return s.client.RPush(ctx, signOrderKey(id), field).Err()
	}
	return nil
}

func (s *Storage) GetSign(ctx context.Context, id model.ProtectionID, loc model.Location) (model.SignEntry, error) {
	data, err := s.client.HGet(ctx, protectionKey(id), signField(loc)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.SignEntry{}, model.ErrSignNotFound
		}
		return model.SignEntry{}, err
	}

	var sign model.SignEntry
	if err := json.Unmarshal(data, &sign); err != nil {
		return model.SignEntry{}, err
	}
	return sign, nil
}
