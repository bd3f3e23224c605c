package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/earthmind-network/earthmind-go/contract"
)

const (
	ContractStateKey = "contract_state"
)

// State persists the node's view of the oracle between restarts. The core
// needs nothing beyond exact-key access; iteration belongs to tooling.
type State interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error

	SaveContract(c *contract.Contract) error
	LoadContract() (*contract.Contract, error)
}

type LevelDBState struct {
	sync.Mutex
	stateDb     *leveldb.DB
	topic       string
	stateDbPath string
}

func NewLevelDBState(stateDbPath string, topic string) (*LevelDBState, error) {
	db, err := leveldb.OpenFile(stateDbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stateDB: %w", err)
	}

	state := &LevelDBState{
		stateDb:     db,
		topic:       topic,
		stateDbPath: stateDbPath,
	}

	// Init the snapshot key so LoadContract on a fresh DB returns an empty
	// aggregate instead of a missing-key error.
	contractCompositeKey := MakeCompositeKey(topic, ContractStateKey)
	if _, err := state.stateDb.Get(contractCompositeKey, nil); err != nil {
		if err := db.Put(contractCompositeKey, []byte{}, nil); err != nil {
			return nil, fmt.Errorf("failed to init %s storage: %w", string(contractCompositeKey), err)
		}
	}

	return state, nil
}

func (s *LevelDBState) Close() error {
	return s.stateDb.Close()
}

func (s *LevelDBState) Get(key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	value, err := s.stateDb.Get([]byte(key), nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("failed to get value with key {%s} from leveldb storage: %w", key, err)
	}
	return value, nil
}

func (s *LevelDBState) Set(key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("failed to save value with key %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBState) Delete(key string) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("failed to delete value with key %s: %w", key, err)
	}
	return nil
}

// SaveContract writes a full snapshot of the aggregate under the composite
// snapshot key.
func (s *LevelDBState) SaveContract(c *contract.Contract) error {
	s.Lock()
	defer s.Unlock()

	encoded, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal contract state: %w", err)
	}

	if err := s.stateDb.Put(MakeCompositeKey(s.topic, ContractStateKey), encoded, nil); err != nil {
		return fmt.Errorf("failed to save contract state: %w", err)
	}
	return nil
}

// LoadContract restores the last snapshot. Returns nil when no snapshot has
// been written yet; the caller attaches logger and sink afterwards.
func (s *LevelDBState) LoadContract() (*contract.Contract, error) {
	s.Lock()
	defer s.Unlock()

	encoded, err := s.stateDb.Get(MakeCompositeKey(s.topic, ContractStateKey), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load contract state: %w", err)
	}
	if len(encoded) == 0 {
		return nil, nil
	}

	var c contract.Contract
	if err := json.Unmarshal(encoded, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contract state: %w", err)
	}
	return &c, nil
}

func MakeCompositeKey(topic, key string) []byte {
	return []byte(fmt.Sprintf("%s_%s", topic, key))
}
