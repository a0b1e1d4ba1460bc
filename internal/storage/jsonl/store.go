// Package jsonl keeps score archives in a single JSON Lines file, one match
// record per line tagged with its owner.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dominoscore/internal/domain"
)

type line struct {
	Owner  string             `json:"owner"`
	Record domain.MatchRecord `json:"record"`
}

// Store implements ports.HistoryStore on top of a JSON Lines file.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return &Store{path: path}, nil
}

// Load returns the owner's records in file order. A missing file is an empty archive.
func (s *Store) Load(ctx context.Context, ownerID string) ([]domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readAll()
	if err != nil {
		return nil, err
	}
	out := []domain.MatchRecord{}
	for _, l := range lines {
		if l.Owner == ownerID {
			out = append(out, l.Record)
		}
	}
	return out, nil
}

// Save replaces the owner's records, leaving other owners untouched.
func (s *Store) Save(ctx context.Context, ownerID string, records []domain.MatchRecord) error {
	return s.replace(ownerID, records)
}

func (s *Store) Clear(ctx context.Context, ownerID string) error {
	return s.replace(ownerID, nil)
}

func (s *Store) replace(ownerID string, records []domain.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readAll()
	if err != nil {
		return err
	}
	kept := make([]line, 0, len(lines)+len(records))
	for _, l := range lines {
		if l.Owner != ownerID {
			kept = append(kept, l)
		}
	}
	for _, r := range records {
		kept = append(kept, line{Owner: ownerID, Record: r})
	}
	return s.writeAll(kept)
}

func (s *Store) readAll() ([]line, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []line

	sc := bufio.NewScanner(f)
	// Allow larger lines than the default 64K.
	buf := make([]byte, 0, 1024*1024)
	sc.Buffer(buf, 8*1024*1024)

	for sc.Scan() {
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("invalid jsonl line: %w", err)
		}
		out = append(out, l)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// writeAll writes to a temp file and renames it over the archive.
func (s *Store) writeAll(lines []line) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".score_history-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			tmp.Close()
			return fmt.Errorf("encode record %s: %w", l.Record.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
