package simstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
)

const defaultStateDir = "./wal/paper"

// Store persists paper trading state per pair so restarts keep balances and
// the order book.
type Store struct {
	path string
}

// NewStore creates a state store for the given pair under dir.
func NewStore(dir string, pair domain.Pair) (*Store, error) {
	if dir == "" {
		dir = defaultStateDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create paper state dir")
	}

	return &Store{path: filepath.Join(dir, strings.ToLower(pair.String())+".json")}, nil
}

// State represents all persisted paper trading data.
type State struct {
	Pair   string                 `json:"pair"`
	Wallet map[string]string      `json:"wallet"`
	Orders map[string]StoredOrder `json:"orders,omitempty"`
	Seq    int64                  `json:"seq"`
}

// StoredOrder a filled paper order.
type StoredOrder struct {
	Side     domain.Side `json:"side"`
	Quantity string      `json:"quantity"`
	Price    string      `json:"price"`
	Time     int64       `json:"time"`
}

// Load reads state from disk. A missing file yields nil state.
func (s *Store) Load() (*State, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "read paper state")
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode paper state")
	}

	return &state, nil
}

// Save writes state to disk atomically via temp file.
func (s *Store) Save(state State) error {
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode paper state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write paper state temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist paper state")
	}

	return nil
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}
