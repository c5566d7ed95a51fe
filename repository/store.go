package repository

import (
	"sync"
	"sync/atomic"

	"pointsbot/models"
)

// historyRetention caps the journal kept per user
const historyRetention = 200

// Store holds committed state for every repository. Units of work read
// through it and write back only on commit.
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]*models.Account
	giveaways map[string]*models.Giveaway
	history   map[int64][]*models.BalanceHistory

	seq       atomic.Int64
	historyID atomic.Int64

	locks *keyedLocks
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		accounts:  make(map[int64]*models.Account),
		giveaways: make(map[string]*models.Giveaway),
		history:   make(map[int64][]*models.BalanceHistory),
		locks:     newKeyedLocks(),
	}
}

func (s *Store) nextSeq() int64 {
	return s.seq.Add(1)
}

func (s *Store) nextHistoryID() int64 {
	return s.historyID.Add(1)
}

func (s *Store) account(userID int64) *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[userID].Clone()
}

func (s *Store) allAccounts() map[int64]*models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]*models.Account, len(s.accounts))
	for id, a := range s.accounts {
		out[id] = a.Clone()
	}
	return out
}

func (s *Store) giveaway(id string) *models.Giveaway {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.giveaways[id].Clone()
}

func (s *Store) allGiveaways() map[string]*models.Giveaway {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Giveaway, len(s.giveaways))
	for id, g := range s.giveaways {
		out[id] = g.Clone()
	}
	return out
}

func (s *Store) userHistory(userID int64) []*models.BalanceHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.BalanceHistory(nil), s.history[userID]...)
}

// apply writes a change set in one critical section
func (s *Store) apply(c *changeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range c.accounts {
		s.accounts[id] = a
	}
	for id, g := range c.giveaways {
		s.giveaways[id] = g
	}
	for id := range c.deletedGiveaways {
		delete(s.giveaways, id)
	}
	for _, h := range c.history {
		entries := append(s.history[h.UserID], h)
		if len(entries) > historyRetention {
			entries = entries[len(entries)-historyRetention:]
		}
		s.history[h.UserID] = entries
	}
}

// changeSet holds the writes staged by one unit of work
type changeSet struct {
	accounts         map[int64]*models.Account
	giveaways        map[string]*models.Giveaway
	deletedGiveaways map[string]bool
	history          []*models.BalanceHistory
}

func newChangeSet() *changeSet {
	return &changeSet{
		accounts:         make(map[int64]*models.Account),
		giveaways:        make(map[string]*models.Giveaway),
		deletedGiveaways: make(map[string]bool),
	}
}
