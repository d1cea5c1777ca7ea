package index

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	errs "repfinder/scrapeworker/pkg/errors"
	"repfinder/scrapeworker/pkg/retry"
)

const (
	productKeyPrefix = "product:"
	productSetKey    = "products"
	upsertRetries    = 2
)

// RedisUpserter stores each product as a hash plus a set of all ids so
// consumers can scan the index without KEYS.
type RedisUpserter struct {
	client *redis.Client
}

// NewRedisUpserter connects to redis and verifies the connection.
func NewRedisUpserter(ctx context.Context, addr string, db int) (*RedisUpserter, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errs.NewIndex("", "connect to redis", err)
	}

	return &RedisUpserter{client: client}, nil
}

// Upsert writes one product, retrying transient connection failures.
func (u *RedisUpserter) Upsert(ctx context.Context, p Product) error {
	retryCfg := retry.DefaultConfig(upsertRetries, isTransientRedisErr)

	err := retry.Do(ctx, retryCfg, func() error {
		return u.write(ctx, p)
	})
	if err != nil {
		return errs.NewIndex(p.SellerID, fmt.Sprintf("upsert product %s", p.ID), err)
	}
	return nil
}

// UpsertBatch pipelines the whole batch in one round trip and reports
// per-product outcomes in input order.
func (u *RedisUpserter) UpsertBatch(ctx context.Context, products []Product) []UpsertResult {
	results := make([]UpsertResult, len(products))
	if len(products) == 0 {
		return results
	}

	cmds := make([][]redis.Cmder, len(products))
	retryCfg := retry.DefaultConfig(upsertRetries, isTransientRedisErr)

	execErr := retry.Do(ctx, retryCfg, func() error {
		pipe := u.client.TxPipeline()
		for i, p := range products {
			cmds[i] = u.queue(ctx, pipe, p)
		}
		// Exec returns the first command error; per-command errors are
		// read back below, so only transport failures matter here.
		_, err := pipe.Exec(ctx)
		if err != nil && isTransientRedisErr(err) {
			return err
		}
		return nil
	})

	for i, p := range products {
		results[i].ID = p.ID
		if execErr != nil {
			results[i].Err = errs.NewIndex(p.SellerID, fmt.Sprintf("upsert product %s", p.ID), execErr)
			continue
		}
		for _, cmd := range cmds[i] {
			if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
				results[i].Err = errs.NewIndex(p.SellerID, fmt.Sprintf("upsert product %s", p.ID), err)
				break
			}
		}
	}
	return results
}

func (u *RedisUpserter) write(ctx context.Context, p Product) error {
	pipe := u.client.TxPipeline()
	cmds := u.queue(ctx, pipe, p)
	if _, err := pipe.Exec(ctx); err != nil && isTransientRedisErr(err) {
		return err
	}
	for _, cmd := range cmds {
		if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return nil
}

// queue adds one product's commands to the pipeline. HSetNX seeds
// first_seen_at only when the hash is new, which is what preserves the
// original discovery time across re-scrapes.
func (u *RedisUpserter) queue(ctx context.Context, pipe redis.Pipeliner, p Product) []redis.Cmder {
	key := productKeyPrefix + p.ID
	return []redis.Cmder{
		pipe.HSetNX(ctx, key, "first_seen_at", strconv.FormatInt(p.FirstSeenAt, 10)),
		pipe.HSet(ctx, key, docFields(p)),
		pipe.SAdd(ctx, productSetKey, p.ID),
	}
}

// docFields flattens a product into the hash fields that get rewritten
// on every upsert. first_seen_at is deliberately absent.
func docFields(p Product) map[string]interface{} {
	fields := map[string]interface{}{
		"id":              p.ID,
		"seller_id":       p.SellerID,
		"seller_name":     p.SellerName,
		"title":           p.Title,
		"source_page_url": p.SourcePageURL,
		"last_seen_at":    strconv.FormatInt(p.LastSeenAt, 10),
	}
	if p.Price != nil {
		fields["price"] = strconv.FormatFloat(*p.Price, 'f', -1, 64)
		fields["currency"] = p.Currency
	}
	if p.Brand != "" {
		fields["brand"] = p.Brand
	}
	if p.Category != "" {
		fields["category"] = p.Category
	}
	if p.ImageURL != "" {
		fields["image_url"] = p.ImageURL
	}
	if p.PurchaseURL != "" {
		fields["purchase_url"] = p.PurchaseURL
		fields["purchase_platform"] = p.PurchasePlatform
	}
	return fields
}

// Count reports the index cardinality.
func (u *RedisUpserter) Count(ctx context.Context) (int64, error) {
	n, err := u.client.SCard(ctx, productSetKey).Result()
	if err != nil {
		return 0, errs.NewIndex("", "count products", err)
	}
	return n, nil
}

// Close releases the redis connection.
func (u *RedisUpserter) Close() error {
	return u.client.Close()
}

// isTransientRedisErr reports whether an error is worth retrying:
// connection and timeout failures, not command rejections.
func isTransientRedisErr(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
