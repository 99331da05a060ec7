package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueDashboard = "jobs:dashboard"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt string         `json:"enqueued_at"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueDashboardRefresh asks the pool to recompute the dashboard snapshot.
// Callers fire and forget: a lost job only delays the next refresh.
func (d *Dispatcher) EnqueueDashboardRefresh(ctx context.Context) error {
	if d.rdb == nil {
		return nil
	}
	job := Job{Type: "dashboard_refresh", EnqueuedAt: time.Now().UTC().Format(time.RFC3339)}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueDashboard, encoded).Err()
}

// Handlers holds the worker-side dependencies, wired at the composition root.
type Handlers struct {
	RecomputeDashboard func(ctx context.Context) error
}

// StartPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so an idle pool burns no CPU.
func StartPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueDashboard).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[1])
		}
	}
}

func processJob(ctx context.Context, handlers *Handlers, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}

	switch job.Type {
	case "dashboard_refresh":
		if handlers == nil || handlers.RecomputeDashboard == nil {
			return
		}
		if err := handlers.RecomputeDashboard(ctx); err != nil {
			log.Error().Err(err).Msg("dashboard refresh failed")
			return
		}
		log.Debug().Msg("dashboard snapshot refreshed")
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type discarded")
	}
}
