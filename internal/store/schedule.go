package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/i474232898/class-weather/internal/catalog"
	"github.com/i474232898/class-weather/internal/course"
	"github.com/i474232898/class-weather/internal/observability"
)

// maxRecordSize bounds one JSONL record; large courses list a few hundred sections.
const maxRecordSize = 4 << 20

// ScheduleStore is the durable catalog cache. Each term has its own
// append-only log file, <dir>/<year><season>.jsonl, holding one
// {"key":[subject,number],"val":...} record per line. A term's log is read
// into memory the first time the term is touched; afterwards reads are served
// from memory and every Put appends a line before it becomes visible.
// Nothing is ever evicted, rewritten or expired. Deleting a log file clears
// that term.
type ScheduleStore struct {
	dir string

	mu         sync.RWMutex
	partitions map[course.Term]*partition

	loads   singleflight.Group
	metrics *observability.Metrics
	logger  *zap.Logger
}

type partition struct {
	path string

	mu      sync.RWMutex
	entries map[course.Key]catalog.Result

	// appendMu serializes writers so each record lands as one write.
	appendMu sync.Mutex
}

type record struct {
	Key logKey         `json:"key"`
	Val catalog.Result `json:"val"`
}

// logKey is a course key encoded as a two element JSON array.
type logKey course.Key

func (k logKey) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{k.Subject, k.Number})
}

func (k *logKey) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("key must have 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &k.Subject); err != nil {
		return fmt.Errorf("key subject: %w", err)
	}
	if err := json.Unmarshal(parts[1], &k.Number); err != nil {
		return fmt.Errorf("key number: %w", err)
	}
	return nil
}

// NewScheduleStore creates a store whose logs live in dir.
func NewScheduleStore(dir string, metrics *observability.Metrics, logger *zap.Logger) *ScheduleStore {
	return &ScheduleStore{
		dir:        dir,
		partitions: make(map[course.Term]*partition),
		metrics:    metrics,
		logger:     logger,
	}
}

// LogPath returns the log file backing a term.
func (s *ScheduleStore) LogPath(term course.Term) string {
	return filepath.Join(s.dir, term.String()+".jsonl")
}

// Get returns the cached result for a course, loading the term's log on
// first use.
func (s *ScheduleStore) Get(term course.Term, key course.Key) (catalog.Result, bool, error) {
	p, err := s.partition(term)
	if err != nil {
		return catalog.Result{}, false, err
	}

	p.mu.RLock()
	res, ok := p.entries[key]
	p.mu.RUnlock()

	if ok {
		s.metrics.ScheduleCacheLookups.WithLabelValues("hit").Inc()
	} else {
		s.metrics.ScheduleCacheLookups.WithLabelValues("miss").Inc()
	}
	return res, ok, nil
}

// Put appends the result to the term's log and then publishes it in memory.
// Failures are stored the same way as schedules.
func (s *ScheduleStore) Put(term course.Term, key course.Key, res catalog.Result) error {
	p, err := s.partition(term)
	if err != nil {
		return err
	}

	line, err := json.Marshal(record{Key: logKey(key), Val: res})
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", term, key, err)
	}
	line = append(line, '\n')

	if err := p.append(line); err != nil {
		return fmt.Errorf("append %s %s: %w", term, key, err)
	}
	s.metrics.ScheduleCacheAppends.Inc()

	p.mu.Lock()
	p.entries[key] = res
	p.mu.Unlock()
	return nil
}

func (s *ScheduleStore) partition(term course.Term) (*partition, error) {
	s.mu.RLock()
	p, ok := s.partitions[term]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := s.loads.Do(term.String(), func() (interface{}, error) {
		s.mu.RLock()
		p, ok := s.partitions[term]
		s.mu.RUnlock()
		if ok {
			return p, nil
		}

		p, err := s.load(term)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.partitions[term] = p
		s.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*partition), nil
}

func (s *ScheduleStore) load(term course.Term) (*partition, error) {
	p := &partition{
		path:    s.LogPath(term),
		entries: make(map[course.Key]catalog.Result),
	}

	f, err := os.Open(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open schedule log %s: %w", p.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			s.logger.Warn("skipping unreadable schedule record",
				zap.String("path", p.path), zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		p.entries[course.Key(rec.Key)] = rec.Val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read schedule log %s: %w", p.path, err)
	}

	s.logger.Info("schedule log loaded",
		zap.String("term", term.String()), zap.Int("entries", len(p.entries)))
	return p, nil
}

func (p *partition) append(line []byte) error {
	p.appendMu.Lock()
	defer p.appendMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
