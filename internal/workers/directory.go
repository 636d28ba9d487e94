package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wellmind/support-platform/pkg/logging"
)

// nameTTL bounds how long a cached display name is served before the
// database is consulted again.
const nameTTL = time.Hour

// DB is the pgx surface the directory needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Directory resolves support worker ids to display names, caching results
// in Redis. An unknown worker resolves to an empty name with no error;
// callers substitute their placeholder label.
type Directory struct {
	db     DB
	redis  *redis.Client
	logger *logging.Logger
	tracer trace.Tracer
}

// NewDirectory constructs a directory. The Redis client is optional; with
// no cache every lookup hits the database.
func NewDirectory(db DB, rdb *redis.Client, logger *logging.Logger) *Directory {
	if db == nil {
		panic("workers: db required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Directory{
		db:     db,
		redis:  rdb,
		logger: logger,
		tracer: otel.Tracer("wellmind.internal.workers"),
	}
}

// DisplayName returns the worker's display name, or "" when the worker is
// unknown. Cache failures fall through to the database rather than failing
// the lookup.
func (d *Directory) DisplayName(ctx context.Context, workerID string) (string, error) {
	ctx, span := d.tracer.Start(ctx, "workers.display_name")
	defer span.End()

	if workerID == "" {
		return "", nil
	}

	if d.redis != nil {
		name, err := d.redis.Get(ctx, nameKey(workerID)).Result()
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			d.logger.Warn("worker name cache read failed", "worker_id", workerID, "error", err)
		}
	}

	var name string
	err := d.db.QueryRow(ctx,
		`SELECT display_name FROM support_workers WHERE id = $1`, workerID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("workers: lookup %s: %w", workerID, err)
	}

	if d.redis != nil {
		if err := d.redis.Set(ctx, nameKey(workerID), name, nameTTL).Err(); err != nil {
			d.logger.Warn("worker name cache write failed", "worker_id", workerID, "error", err)
		}
	}
	return name, nil
}

func nameKey(workerID string) string {
	return fmt.Sprintf("worker_name:%s", workerID)
}
