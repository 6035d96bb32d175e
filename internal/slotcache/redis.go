// Package slotcache keeps computed slot candidates in Redis, one hash per staff member and day.
package slotcache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "barberbook:slots"

type Redis struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	genTTL time.Duration
	prefix string
}

func NewRedis(rdb redis.UniversalClient, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	// The generation must outlive any read that could still be racing an invalidation.
	genTTL := 24 * time.Hour
	if 2*ttl > genTTL {
		genTTL = 2 * ttl
	}
	return &Redis{rdb: rdb, ttl: ttl, genTTL: genTTL, prefix: prefix}
}

// NewClient parses a redis:// URL.
func NewClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Key names the hash holding every cached duration for the day. The braces keep the hash and
// its generation counter in one cluster slot so Set can WATCH one while writing the other.
func (c *Redis) Key(staffID uuid.UUID, day string) string {
	return c.prefix + ":{" + staffID.String() + ":" + day + "}"
}

func (c *Redis) genKey(staffID uuid.UUID, day string) string {
	return c.Key(staffID, day) + ":gen"
}

// Get returns the cached slots along with the day's generation. Pass the generation to Set
// so a list computed before an Invalidate is never written back.
func (c *Redis) Get(ctx context.Context, staffID uuid.UUID, day string, durationMinutes int) ([]time.Time, int64, bool, error) {
	var (
		genCmd  *redis.StringCmd
		slotCmd *redis.StringCmd
	)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		genCmd = pipe.Get(ctx, c.genKey(staffID, day))
		slotCmd = pipe.HGet(ctx, c.Key(staffID, day), strconv.Itoa(durationMinutes))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	gen, err := genCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}
	raw, err := slotCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	slots, err := decodeSlots(raw)
	if err != nil {
		return nil, 0, false, err
	}
	return slots, gen, true, nil
}

// Set stores slots unless the day was invalidated after generation gen was read.
func (c *Redis) Set(ctx context.Context, staffID uuid.UUID, day string, durationMinutes int, gen int64, slots []time.Time) error {
	raw, err := encodeSlots(slots)
	if err != nil {
		return err
	}
	key, genKey := c.Key(staffID, day), c.genKey(staffID, day)

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, strconv.Itoa(durationMinutes), raw)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops every duration cached for the day and bumps its generation.
func (c *Redis) Invalidate(ctx context.Context, staffID uuid.UUID, day string) error {
	genKey := c.genKey(staffID, day)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, c.genTTL)
		pipe.Del(ctx, c.Key(staffID, day))
		return nil
	})
	return err
}

func ReadyCheck(rdb redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func encodeSlots(slots []time.Time) ([]byte, error) {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.UTC().Format(time.RFC3339)
	}
	return json.Marshal(out)
}

func decodeSlots(raw []byte) ([]time.Time, error) {
	var in []string
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(in))
	for _, s := range in {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
