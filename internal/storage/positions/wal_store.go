package positions

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultPositionDir   = "./wal/positions"
	positionSegmentLimit = 1000
	positionMaxSegments  = 100
	positionKeyPrefix    = "position_"
)

// WALStore persists the live position snapshot so a restart resumes with the
// same open order and last processed bar.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens or creates the WAL under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultPositionDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "position_",
		SegmentThreshold: positionSegmentLimit,
		MaxSegments:      positionMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init position WAL")
	}

	return &WALStore{wal: wal}, nil
}

func key(pair string) string {
	return fmt.Sprintf("%s%s", positionKeyPrefix, pair)
}

// Save appends the snapshot. Callers must set Pair.
func (s *WALStore) Save(p domain.Position) error {
	if s == nil || s.wal == nil {
		return errors.New("position store is not initialized")
	}
	if p.Pair == "" {
		return fmt.Errorf("position pair is required")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal position")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Write(s.wal.CurrentIndex()+1, key(p.Pair), payload)
}

// Load returns the latest snapshot written for pair. ok is false when
// nothing was saved yet.
func (s *WALStore) Load(pair string) (domain.Position, bool, error) {
	if s == nil || s.wal == nil {
		return domain.Position{}, false, errors.New("position store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	want := key(pair)
	var (
		latest []byte
		found  bool
	)
	for msg := range s.wal.Iterator() {
		if msg.Key == want {
			latest = msg.Value
			found = true
		}
	}
	if !found {
		return domain.Position{}, false, nil
	}

	var p domain.Position
	if err := json.Unmarshal(latest, &p); err != nil {
		return domain.Position{}, false, errors.Wrap(err, "decode position")
	}
	return p, true, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("position store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
