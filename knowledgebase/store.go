// SPDX-License-Identifier: GPL-3.0-or-later

// Package knowledgebase keeps the knowledge base in a single JSON file.
package knowledgebase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/sirupsen/logrus"
)

type Store struct {
	path string
	now  func() time.Time
	l    *logrus.Logger

	// set when the last Load could not read an existing file, Save refuses to replace it
	unreadable error
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
		l:    log.Logger(log.LOG_KNOWLEDGE),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Initialize writes an empty knowledge base, replacing whatever is stored.
func (s *Store) Initialize() (*domain.KnowledgeBase, error) {
	s.unreadable = nil
	kb := domain.NewKnowledgeBase()
	if err := s.Save(kb); err != nil {
		return kb, err
	}
	s.l.WithField("file", s.path).Info("Initialized knowledge base")
	return kb, nil
}

// Load reads the knowledge base. An absent file is initialized, an unparseable one is
// moved aside to <path>.corrupt-<unix> first. Load always returns a usable value; when
// an existing file could not be read or moved aside, that value is in memory only and
// Save refuses to overwrite the file until a later Load succeeds.
func (s *Store) Load() *domain.KnowledgeBase {
	s.unreadable = nil

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.initializeOrWarn()
	}
	if err != nil {
		s.unreadable = err
		s.l.WithError(err).WithField("file", s.path).Warn("Could not read knowledge base, continuing with an empty one that will not be saved")
		return domain.NewKnowledgeBase()
	}

	kb := &domain.KnowledgeBase{}
	if err := json.Unmarshal(data, kb); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
		fields := logrus.Fields{"file": s.path, "backup": backup}
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			s.unreadable = renameErr
			s.l.WithError(renameErr).WithFields(fields).Warn("Could not back up corrupt knowledge base, continuing with an empty one that will not be saved")
			return domain.NewKnowledgeBase()
		}
		s.l.WithError(err).WithFields(fields).Warn("Knowledge base is corrupt, moved it aside")
		return s.initializeOrWarn()
	}

	kb.Normalize()
	s.l.WithFields(logrus.Fields{
		"file":        s.path,
		"patterns":    kb.PatternCount(),
		"corrections": len(kb.Corrections),
	}).Debug("Loaded knowledge base")
	return kb
}

func (s *Store) initializeOrWarn() *domain.KnowledgeBase {
	kb, err := s.Initialize()
	if err != nil {
		s.l.WithError(err).WithField("file", s.path).Warn("Could not initialize knowledge base")
	}
	return kb
}

// Save stamps kb with the current time and replaces the file atomically.
func (s *Store) Save(kb *domain.KnowledgeBase) error {
	if s.unreadable != nil {
		return fmt.Errorf("could not save knowledge base: refusing to replace %s, it could not be loaded: %w", s.path, s.unreadable)
	}

	kb.Normalize()
	kb.UpdatedAt = s.now().UTC()

	if err := WriteJSON(s.path, kb); err != nil {
		return fmt.Errorf("could not save knowledge base: %w", err)
	}

	s.l.WithFields(logrus.Fields{
		"file":        s.path,
		"patterns":    kb.PatternCount(),
		"corrections": len(kb.Corrections),
	}).Debug("Saved knowledge base")
	return nil
}

// WriteJSON writes v as indented JSON to a temporary file next to path and renames
// it into place.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if _, err := tempFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}

	if err := os.Rename(filepath.Clean(tempFile.Name()), path); err != nil {
		return fmt.Errorf("could not replace %s: %w", path, err)
	}
	return nil
}
