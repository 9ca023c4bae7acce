package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/microfeed/core/internal/infrastructure/config"
	"github.com/microfeed/core/internal/infrastructure/logger"
)

// Collection names used by the repositories.
const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

// Store persists named collections as whole-file JSON snapshots under a
// data directory. Every save replaces the entire file; there is no
// append mode and no partial write. The filesystem is injected so tests
// run against afero.NewMemMapFs.
type Store struct {
	fs     afero.Fs
	dir    string
	pretty bool
	logger *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	opsTotal    *prometheus.CounterVec
	opsFailures *prometheus.CounterVec
}

// NewStore creates a snapshot store rooted at cfg.DataDir.
func NewStore(fs afero.Fs, cfg config.StorageConfig, appLogger *logger.Logger) *Store {
	return &Store{
		fs:     fs,
		dir:    cfg.DataDir,
		pretty: cfg.Pretty,
		logger: appLogger.WithComponent("store"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// RegisterMetrics attaches storage counters to the given registry.
func (s *Store) RegisterMetrics(registry prometheus.Registerer) {
	s.opsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of collection loads and saves",
		},
		[]string{"collection", "op"},
	)

	s.opsFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operation_failures_total",
			Help: "Total number of failed collection loads and saves",
		},
		[]string{"collection", "op"},
	)

	registry.MustRegister(s.opsTotal, s.opsFailures)
}

// Lock acquires the mutex for one collection and returns the unlock
// function. Holding it for the full load-mutate-save cycle is what
// prevents two concurrent writers from overwriting each other's change.
func (s *Store) Lock(collection string) func() {
	s.mu.Lock()
	lock, ok := s.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[collection] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Load reads a collection into dest, which must be a pointer to a
// slice. A missing file is first-run bootstrap and leaves dest empty.
// An unreadable or corrupt file is logged and also yields an empty
// collection rather than failing the caller.
func (s *Store) Load(collection string, dest interface{}) error {
	s.countOp(collection, "load")
	defer func() { s.logger.LogStorageOp("load", collection, recordCount(dest), nil) }()

	path := s.path(collection)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.countFailure(collection, "load")
		s.logger.Warnw("Failed to read collection, treating as empty",
			"collection", collection, "path", path, "error", err.Error())
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.countFailure(collection, "load")
		s.logger.Warnw("Failed to parse collection, treating as empty",
			"collection", collection, "path", path, "error", err.Error())
		return nil
	}

	return nil
}

// Save serializes the full collection and replaces the backing file.
// The write goes to a temp file first and is renamed into place, so a
// crash mid-write never leaves a truncated collection behind.
func (s *Store) Save(collection string, v interface{}) (err error) {
	s.countOp(collection, "save")
	defer func() { s.logger.LogStorageOp("save", collection, recordCount(v), err) }()

	var data []byte
	if s.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		s.countFailure(collection, "save")
		return fmt.Errorf("failed to marshal collection %s: %w", collection, err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		s.countFailure(collection, "save")
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := s.path(collection)
	tmp := path + ".tmp"

	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		s.countFailure(collection, "save")
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		s.countFailure(collection, "save")
		return fmt.Errorf("failed to replace collection %s: %w", collection, err)
	}

	return nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// recordCount reports the length of the (possibly pointed-to) slice
// being loaded or saved, for the storage log.
func recordCount(v interface{}) int {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() == reflect.Slice {
		return rv.Len()
	}
	return 0
}

func (s *Store) countOp(collection, op string) {
	if s.opsTotal != nil {
		s.opsTotal.WithLabelValues(collection, op).Inc()
	}
}

func (s *Store) countFailure(collection, op string) {
	if s.opsFailures != nil {
		s.opsFailures.WithLabelValues(collection, op).Inc()
	}
}
