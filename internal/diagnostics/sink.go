package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink records unexpected internal failures. Implementations never fail the
// caller.
type Sink interface {
	Record(ctx context.Context, op string, err error)
}

type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "diagnostics")}
}

func (that *LogSink) Record(ctx context.Context, op string, err error) {
	that.logger.ErrorContext(ctx, "internal failure", "op", op, "error", err)
}

const defaultFileQueue = 64

type fileEntry struct {
	at  time.Time
	op  string
	err error
}

// FileSink appends failures to <dir>/error_YYYYMMDD.log. Record only enqueues;
// a single writer goroutine owns the file. Entries are dropped while the
// queue is full.
type FileSink struct {
	dir     string
	now     func() time.Time
	writeFn func(fileEntry) error
	entries chan fileEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewFileSink starts the writer. queue <= 0 uses the default size.
func NewFileSink(dir string, queue int) *FileSink {
	sink := newFileSink(dir, queue)
	go sink.run()

	return sink
}

func newFileSink(dir string, queue int) *FileSink {
	if queue <= 0 {
		queue = defaultFileQueue
	}

	sink := &FileSink{
		dir:     dir,
		now:     time.Now,
		entries: make(chan fileEntry, queue),
		done:    make(chan struct{}),
	}
	sink.writeFn = sink.write

	return sink
}

func (that *FileSink) Record(_ context.Context, op string, err error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.closed {
		return
	}

	select {
	case that.entries <- fileEntry{at: that.now(), op: op, err: err}:
	default:
	}
}

// Close stops accepting entries and waits for the queued ones to be written.
func (that *FileSink) Close() error {
	that.mu.Lock()
	if !that.closed {
		that.closed = true
		close(that.entries)
	}
	that.mu.Unlock()

	<-that.done

	return nil
}

func (that *FileSink) run() {
	defer close(that.done)

	for entry := range that.entries {
		// errors writing the log are dropped
		_ = that.writeFn(entry)
	}
}

func (that *FileSink) write(entry fileEntry) error {
	if mkErr := os.MkdirAll(that.dir, 0o755); mkErr != nil {
		return fmt.Errorf("failed to create log dir: %w", mkErr)
	}

	at := entry.at.UTC()
	path := filepath.Join(that.dir, fmt.Sprintf("error_%s.log", at.Format("20060102")))

	file, openErr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		return fmt.Errorf("failed to open log file: %w", openErr)
	}
	defer file.Close()

	line := fmt.Sprintf("[%s] Error in %s:\n%v\n------------------------------------------------\n",
		at.Format(time.RFC3339Nano), entry.op, entry.err)

	if _, writeErr := file.WriteString(line); writeErr != nil {
		return fmt.Errorf("failed to write log entry: %w", writeErr)
	}

	return nil
}

// Multi fans a failure out to every sink.
type Multi []Sink

func (that Multi) Record(ctx context.Context, op string, err error) {
	for _, sink := range that {
		sink.Record(ctx, op, err)
	}
}
