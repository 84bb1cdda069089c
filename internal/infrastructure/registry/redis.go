package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"service-admission/internal/domain/model"
)

const (
	ticketsKey  = "shareholder:published"
	membersKey  = "premium:members"
	vouchersKey = "event:vouchers"
)

// Redis answers registry lookups with SISMEMBER against sets owned by the
// registry services. Lookup failures are logged and treated as not valid.
type Redis struct {
	Client  redis.Cmdable
	Prefix  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

func (r *Redis) IsPublished(ctx context.Context, ticketID uuid.UUID) bool {
	return r.isMember(ctx, ticketsKey, ticketID.String())
}

func (r *Redis) IsValidMember(ctx context.Context, memberID uuid.UUID) bool {
	return r.isMember(ctx, membersKey, memberID.String())
}

func (r *Redis) IsValidVoucher(ctx context.Context, voucher model.DiscountVoucher) bool {
	return r.isMember(ctx, vouchersKey, VoucherKey(voucher))
}

// Load writes a seed into the registry sets.
func (r *Redis) Load(ctx context.Context, seed Seed) error {
	parsed, err := seed.parse()
	if err != nil {
		return err
	}
	_, err = r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		addAll(ctx, pipe, r.key(ticketsKey), parsed.tickets)
		addAll(ctx, pipe, r.key(membersKey), parsed.members)
		addAll(ctx, pipe, r.key(vouchersKey), parsed.vouchers)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load registry seed: %w", err)
	}
	return nil
}

// Ping reports whether the backing Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) isMember(ctx context.Context, key, value string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	ok, err := r.Client.SIsMember(ctx, r.key(key), value).Result()
	if err != nil {
		r.Logger.Warn().Err(err).Str("key", r.key(key)).Msg("registry_lookup_failed")
		return false
	}
	return ok
}

func (r *Redis) key(name string) string {
	if r.Prefix == "" {
		return "admission:" + name
	}
	return r.Prefix + ":" + name
}

func (r *Redis) timeout() time.Duration {
	if r.Timeout <= 0 {
		return 200 * time.Millisecond
	}
	return r.Timeout
}

func addAll(ctx context.Context, pipe redis.Pipeliner, key string, values []string) {
	if len(values) == 0 {
		return
	}
	members := make([]any, len(values))
	for i, v := range values {
		members[i] = v
	}
	pipe.SAdd(ctx, key, members...)
}
