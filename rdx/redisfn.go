package rdx

import (
	"fmt"
	"log"
	"os"
	"time"

	"velora/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		log.Printf("Redis ping failed (continuing, cache degraded): %v", err)
	}
}

// IncrementCouponUsage bumps the per-code usage counter and returns the new
// total. Counters survive restarts; the discounts collection holds the limit.
func IncrementCouponUsage(code string) (int64, error) {
	return Conn.Incr(globals.Ctx, "coupon:usage:"+code).Result()
}

// CouponUsage returns the current usage count for a code, zero when unset.
func CouponUsage(code string) (int64, error) {
	n, err := Conn.Get(globals.Ctx, "coupon:usage:"+code).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// DecrementCouponUsage undoes a reservation when order placement fails after
// the coupon was counted.
func DecrementCouponUsage(code string) error {
	return Conn.Decr(globals.Ctx, "coupon:usage:"+code).Err()
}

// SetDealStock seeds the remaining-units counter for a flash deal.
func SetDealStock(dealID string, units int, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, dealKey(dealID), units, ttl).Err()
}

// TakeDealStock decrements the remaining-units counter and reports the new
// value. A negative result means the deal sold out under the caller.
func TakeDealStock(dealID string, units int) (int64, error) {
	return Conn.DecrBy(globals.Ctx, dealKey(dealID), int64(units)).Result()
}

func DealStock(dealID string) (int64, error) {
	n, err := Conn.Get(globals.Ctx, dealKey(dealID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func dealKey(dealID string) string {
	return fmt.Sprintf("deal:stock:%s", dealID)
}
