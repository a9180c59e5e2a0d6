// Package session persists and restores authentication artifacts so a
// prior login can be reused instead of re-driving the portal flow.
//
// One record is kept per owner hash; the raw account identity is never
// written to disk. Records older than the TTL are discarded on read.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
	"github.com/danicanod/banker-venezuela-sub000/pkg/logging"
)

// TTL is the maximum age of a persisted session before it is discarded.
const TTL = 24 * time.Hour

// ErrExpired marks a record that was found but is past its TTL.
var ErrExpired = errors.New("session record expired")

// Record is the persisted session artifact: everything needed to rebuild
// an authenticated browsing context.
type Record struct {
	Cookies   []browser.Cookie     `json:"cookies"`
	Storage   browser.StorageState `json:"storage"`
	LastURL   string               `json:"last_url"`
	CreatedAt time.Time            `json:"created_at"`
	OwnerHash string               `json:"owner_hash"`
}

// Store reads and writes session records under a directory, one JSON file
// per owner hash.
type Store struct {
	dir string
	now func() time.Time
	log *logging.Logger
}

// NewStore creates a session store rooted at dir, creating it if needed.
// An empty dir defaults to ~/.banker/sessions.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".banker", "sessions")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log, _ := logging.NewLogger("session")
	return &Store{dir: dir, now: time.Now, log: log}, nil
}

// OwnerHash derives the one-way identifier used to key records on disk.
func OwnerHash(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:16])
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash+".json")
}

// Save captures the page's cookies, both storages and current URL into a
// record keyed by the hashed identity, overwriting any prior record.
func (s *Store) Save(page browser.Page, identity string) error {
	cookies, err := page.Cookies()
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	storage, err := page.StorageSnapshot()
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}

	record := Record{
		Cookies:   cookies,
		Storage:   storage,
		LastURL:   page.URL(),
		CreatedAt: s.now(),
		OwnerHash: OwnerHash(identity),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	if err := os.WriteFile(s.path(record.OwnerHash), data, 0600); err != nil {
		return fmt.Errorf("session save: %w", err)
	}

	s.log.Infof("saved session for owner %s (%d cookies, %d+%d storage keys)",
		record.OwnerHash, len(cookies), len(storage.Local), len(storage.Session))
	return nil
}

// Restore looks up the record for the hashed identity and, if present and
// fresh, re-applies it to the page: cookies first, then navigation to the
// saved URL, then storage replay and a reload so the page sees it.
//
// Returns false when no usable record exists. Expired records are deleted.
func (s *Store) Restore(page browser.Page, identity string) (bool, error) {
	hash := OwnerHash(identity)
	record, err := s.load(hash)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if errors.Is(err, ErrExpired) {
			s.log.Infof("session for owner %s expired, removed", hash)
			return false, nil
		}
		return false, err
	}

	if err := page.SetCookies(record.Cookies); err != nil {
		return false, fmt.Errorf("session restore: %w", err)
	}
	if err := page.Navigate(record.LastURL, browser.NavigateOptions{WaitUntil: "domcontentloaded"}); err != nil {
		return false, fmt.Errorf("session restore: %w", err)
	}
	if err := page.RestoreStorage(record.Storage); err != nil {
		return false, fmt.Errorf("session restore: %w", err)
	}
	if err := page.Reload(0); err != nil {
		return false, fmt.Errorf("session restore: %w", err)
	}

	s.log.Infof("restored session for owner %s at %s", hash, record.LastURL)
	return true, nil
}

// load reads and validates a record by hash, removing it when expired.
func (s *Store) load(hash string) (Record, error) {
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		// Unreadable records are as good as absent; drop them
		_ = os.Remove(s.path(hash))
		return Record{}, os.ErrNotExist
	}

	if s.now().Sub(record.CreatedAt) > TTL {
		_ = os.Remove(s.path(hash))
		return Record{}, ErrExpired
	}
	return record, nil
}

// Clear removes the persisted record for the given identity, if any.
func (s *Store) Clear(identity string) error {
	err := os.Remove(s.path(OwnerHash(identity)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// ClearAll removes every persisted session record in the store.
func (s *Store) ClearAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("session clear all: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("session clear all: %w", err)
		}
	}
	return nil
}
