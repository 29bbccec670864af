// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxBodyLines = 100
	maxLineLength       = 4096
)

var (
	// envelope lines carry an address, or any sender token followed by an asctime
	// weekday as in "From - Mon ..." and "From MAILER-DAEMON Mon ..."
	boundaryPattern = regexp.MustCompile(`^From (?:\S+@\S+\s+\S|\S+\s+(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)\s)`)
	headerPattern   = regexp.MustCompile(`(?i)^(from|to|cc|subject|date):\s*(.*)$`)
)

type scannerState int

const (
	scanningForBoundary scannerState = iota
	inHeaders
	inBody
)

// Scanner streams the messages of an mbox archive one at a time. It never holds more
// than the message under construction, and at most maxBodyLines body lines of it.
// Continuation lines of folded headers are not merged.
type Scanner struct {
	r            *bufio.Reader
	closer       io.Closer
	maxBodyLines int

	state   scannerState
	current *domain.RawMessage
	msg     *domain.RawMessage
	eof     bool
	err     error
	count   int
}

func NewScanner(r io.Reader, maxBodyLines int) *Scanner {
	if maxBodyLines <= 0 {
		maxBodyLines = DefaultMaxBodyLines
	}
	return &Scanner{
		r:            bufio.NewReaderSize(r, 64*1024),
		maxBodyLines: maxBodyLines,
		state:        scanningForBoundary,
	}
}

// Open opens an archive file. A file that does not exist yields a scanner without
// messages and no error.
func Open(path string, maxBodyLines int) (*Scanner, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Logger(log.LOG_PARSER).WithField("archive", path).Warn("Archive does not exist, skipping")
		return NewScanner(strings.NewReader(""), maxBodyLines), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open archive %s: %w", path, err)
	}

	s := NewScanner(f, maxBodyLines)
	s.closer = f
	return s, nil
}

// Scan advances to the next message. It returns false at the end of the archive or
// after a read error, which Err reports.
func (s *Scanner) Scan() bool {
	s.msg = nil
	for !s.eof {
		raw, err := s.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			s.err = fmt.Errorf("could not read archive: %w", err)
			s.eof = true
			s.current = nil
			return false
		}
		if err != nil {
			s.eof = true
			if raw == "" {
				break
			}
		}

		if msg := s.feed(trimLine(raw)); msg != nil {
			s.emit(msg)
			return true
		}
	}

	if s.current != nil {
		msg := s.current
		s.current = nil
		if msg.HasHeaders() {
			s.emit(msg)
			return true
		}
	}
	return false
}

func (s *Scanner) Message() *domain.RawMessage {
	return s.msg
}

func (s *Scanner) Err() error {
	return s.err
}

// Count returns the number of messages emitted so far.
func (s *Scanner) Count() int {
	return s.count
}

func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	if err != nil {
		return fmt.Errorf("could not close archive: %w", err)
	}
	return nil
}

func (s *Scanner) emit(msg *domain.RawMessage) {
	s.msg = msg
	s.count++
}

// feed runs one line through the state machine and returns a finished message when
// the line starts the next one.
func (s *Scanner) feed(line string) *domain.RawMessage {
	if boundaryPattern.MatchString(line) {
		prev := s.current
		s.current = &domain.RawMessage{}
		s.state = inHeaders
		if prev != nil && prev.HasHeaders() {
			return prev
		}
		return nil
	}

	switch s.state {
	case inHeaders:
		if strings.TrimSpace(line) == "" {
			s.state = inBody
			return nil
		}
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			s.setHeader(strings.ToLower(m[1]), strings.TrimSpace(m[2]))
		}
	case inBody:
		if len(s.current.Body) < s.maxBodyLines {
			s.current.Body = append(s.current.Body, line)
		}
	}

	return nil
}

// setHeader keeps the first occurrence of every header.
func (s *Scanner) setHeader(name, value string) {
	m := s.current
	switch name {
	case "from":
		if m.From == "" {
			m.From = value
		}
	case "to":
		if m.To == "" {
			m.To = value
		}
	case "cc":
		if m.Cc == "" {
			m.Cc = value
		}
	case "subject":
		if m.Subject == "" {
			m.Subject = DecodeHeader(value)
		}
	case "date":
		if m.Date == "" {
			m.Date = value
		}
	}
}

func trimLine(raw string) string {
	line := strings.TrimRight(raw, "\r\n")
	if len(line) > maxLineLength {
		line = strings.ToValidUTF8(line[:maxLineLength], "")
	}
	return line
}

// ScanFile feeds every message of an archive to fn. The logger records how many
// messages were read.
func ScanFile(path string, maxBodyLines int, fn func(*domain.RawMessage)) (int, error) {
	l := log.Logger(log.LOG_PARSER)

	s, err := Open(path, maxBodyLines)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	for s.Scan() {
		fn(s.Message())
		if s.Count()%10000 == 0 {
			l.WithFields(logrus.Fields{"archive": path, "messages": s.Count(), "subject": ShortSubject(s.Message().Subject)}).Debug("Scanning archive")
		}
	}
	if err := s.Err(); err != nil {
		return s.Count(), err
	}

	l.WithFields(logrus.Fields{"archive": path, "messages": s.Count()}).Info("Scanned archive")
	return s.Count(), nil
}
