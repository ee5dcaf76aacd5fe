package persist

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchSink receives combat log batches. *CombatLogRepo implements it.
type BatchSink interface {
	WriteBatch(ctx context.Context, matchID uuid.UUID, events []CombatEvent) error
}

// Writer drains combat log batches on its own goroutine so the tick loop
// never waits on the database.
type Writer struct {
	sink    BatchSink
	matchID uuid.UUID
	timeout time.Duration
	log     *zap.Logger

	batches chan []CombatEvent
	wg      sync.WaitGroup

	mu      sync.Mutex
	written int
	failed  int
}

func NewWriter(sink BatchSink, matchID uuid.UUID, queueSize int, timeout time.Duration, log *zap.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Writer{
		sink:    sink,
		matchID: matchID,
		timeout: timeout,
		log:     log,
		batches: make(chan []CombatEvent, queueSize),
	}
}

// Start launches the writer goroutine. It exits once Close has been called
// and every queued batch is written.
func (w *Writer) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for batch := range w.batches {
			w.write(batch)
		}
	}()
}

// Submit hands a batch over without blocking. Returns false if the queue is full.
func (w *Writer) Submit(batch []CombatEvent) bool {
	if len(batch) == 0 {
		return true
	}
	select {
	case w.batches <- batch:
		return true
	default:
		return false
	}
}

// Close stops accepting batches and waits for the queue to drain.
func (w *Writer) Close() {
	close(w.batches)
	w.wg.Wait()
}

// Stats returns rows written and batches that failed.
func (w *Writer) Stats() (written, failed int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written, w.failed
}

func (w *Writer) write(batch []CombatEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	err := w.sink.WriteBatch(ctx, w.matchID, batch)

	w.mu.Lock()
	if err != nil {
		w.failed++
	} else {
		w.written += len(batch)
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("combat log batch failed",
			zap.String("match", w.matchID.String()),
			zap.Int("rows", len(batch)),
			zap.Error(err),
		)
	}
}
