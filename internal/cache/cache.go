package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/adamanr/org_registry/internal/entity"
	"github.com/adamanr/org_registry/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Client is the part of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewLookupCounter counts FindByID lookups by entity and result.
func NewLookupCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_cache_lookups_total",
			Help: "Total number of cached repository lookups",
		},
		[]string{"entity", "result"},
	)
}

// Repository is a read-through cache in front of another repository. Writes go
// to the wrapped repository first and then drop the cached entry. Redis
// failures never fail a call; the wrapped repository answers instead.
//
// A lookup skips the refill when a write went through this Repository while
// it was reading. Writes from other processes can still race a refill, so a
// record may be served stale for at most the TTL.
type Repository[K comparable, E any] struct {
	writes  atomic.Uint64
	next    repository.CRUD[K, E]
	keyOf   func(E) K
	client  Client
	name    string
	prefix  string
	ttl     time.Duration
	lookups *prometheus.CounterVec
	logger  *slog.Logger
}

// Options configure a cached repository. Lookups may be nil.
type Options struct {
	Prefix  string
	TTL     time.Duration
	Lookups *prometheus.CounterVec
	Logger  *slog.Logger
}

// Wrap caches next under "<prefix>:<name>:<id>". keyOf extracts the id of an
// entity so Save can drop the matching entry.
func Wrap[K comparable, E any](next repository.CRUD[K, E], keyOf func(E) K, client Client, name string, opts Options) *Repository[K, E] {
	return &Repository[K, E]{
		next:    next,
		keyOf:   keyOf,
		client:  client,
		name:    name,
		prefix:  opts.Prefix,
		ttl:     opts.TTL,
		lookups: opts.Lookups,
		logger:  opts.Logger.With(slog.String("cache", name)),
	}
}

// WrapAll puts every repository behind the cache.
func WrapAll(repos *repository.Repositories, client Client, opts Options) *repository.Repositories {
	return &repository.Repositories{
		Departments: Wrap[string, entity.Department](repos.Departments, entity.Department.DeptCode, client, "department", opts),
		Positions:   Wrap[string, entity.Position](repos.Positions, entity.Position.PstCode, client, "position", opts),
		DeptPosRels: Wrap[entity.DeptPosRelKey, entity.DeptPosRel](repos.DeptPosRels, entity.DeptPosRel.Key, client, "dept_pos_rel", opts),
		Users:       Wrap[int64, entity.User](repos.Users, entity.User.UserPid, client, "user", opts),
	}
}

// Key returns the Redis key an id is cached under.
func (r *Repository[K, E]) Key(id K) string {
	return fmt.Sprintf("%s:%s:%v", r.prefix, r.name, id)
}

func (r *Repository[K, E]) count(result string) {
	if r.lookups != nil {
		r.lookups.WithLabelValues(r.name, result).Inc()
	}
}

func (r *Repository[K, E]) FindByID(ctx context.Context, id K) (E, error) {
	key := r.Key(id)
	gen := r.writes.Load()

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e E
		if unmarshalErr := json.Unmarshal(data, &e); unmarshalErr == nil {
			r.count(resultHit)
			return e, nil
		}
		r.logger.Warn("Error decoding cached record", slog.String("key", key))
		r.count(resultError)
	case errors.Is(err, redis.Nil):
		r.count(resultMiss)
	default:
		r.logger.Warn("Error reading cache", slog.String("key", key), slog.String("error", err.Error()))
		r.count(resultError)
	}

	e, err := r.next.FindByID(ctx, id)
	if err != nil {
		return e, err
	}

	if r.writes.Load() != gen {
		r.logger.Debug("Skipping cache refill after concurrent write", slog.String("key", key))
		return e, nil
	}

	data, err = json.Marshal(e)
	if err != nil {
		r.logger.Warn("Error encoding record for cache", slog.String("key", key), slog.String("error", err.Error()))
		return e, nil
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("Error writing cache", slog.String("key", key), slog.String("error", err.Error()))
	}

	return e, nil
}

func (r *Repository[K, E]) Save(ctx context.Context, e E) error {
	if err := r.next.Save(ctx, e); err != nil {
		return err
	}

	r.writes.Add(1)
	r.invalidate(ctx, r.keyOf(e))
	return nil
}

func (r *Repository[K, E]) DeleteByID(ctx context.Context, id K) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}

	r.writes.Add(1)
	r.invalidate(ctx, id)
	return nil
}

func (r *Repository[K, E]) FindAll(ctx context.Context) ([]E, error) {
	return r.next.FindAll(ctx)
}

func (r *Repository[K, E]) invalidate(ctx context.Context, id K) {
	key := r.Key(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("Error invalidating cache", slog.String("key", key), slog.String("error", err.Error()))
	}
}
