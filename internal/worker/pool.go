package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueReportes = "jobs:reportes"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReporteDiarioPayload asks a worker to build and mail one daily report.
type ReporteDiarioPayload struct {
	Fecha        string  `json:"fecha"` // YYYY-MM-DD
	CajaID       *string `json:"caja_id,omitempty"`
	Destinatario string  `json:"destinatario"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReporteDiario pushes a daily-report job to Redis.
func (d *Dispatcher) EnqueueReporteDiario(ctx context.Context, payload ReporteDiarioPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: "reporte_diario", Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueReportes, encoded).Err()
}

// Processor handles one dequeued job.
type Processor interface {
	Procesar(ctx context.Context, job Job) error
}

// StartWorkerPool launches numWorkers goroutines consuming the report queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, proc Processor) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, proc)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, proc Processor) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueReportes).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}

			var job Job
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal job")
				continue
			}
			if err := proc.Procesar(ctx, job); err != nil {
				log.Error().Str("type", job.Type).Err(err).Msg("job failed")
			}
		}
	}
}
