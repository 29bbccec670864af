// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_corrections",
			Up: []string{
				`CREATE TABLE corrections (
					id TEXT PRIMARY KEY,
					address TEXT NOT NULL,
					predicted TEXT NOT NULL,
					actual TEXT NOT NULL,
					source TEXT NOT NULL,
					timestamp TEXT NOT NULL
				)`,
				`CREATE INDEX corrections_address ON corrections(address)`,
			},
			Down: []string{`DROP TABLE corrections`},
		},
		{
			Id: "2_scans",
			Up: []string{
				`CREATE TABLE scans (
					id TEXT PRIMARY KEY,
					started_at TEXT NOT NULL,
					archives INTEGER NOT NULL,
					messages INTEGER NOT NULL,
					correspondents INTEGER NOT NULL
				)`,
			},
			Down: []string{`DROP TABLE scans`},
		},
	},
}

// Persistence is the sqlite backed audit ledger. Rows are only ever inserted.
type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	if err := prepare(db, l); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			l.WithError(closeErr).Warn("Could not close db after failed setup")
		}
		return nil, err
	}

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func prepare(db *sqlx.DB, l *logrus.Logger) error {
	_, err := db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")
	return nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

func (p *Persistence) SaveCorrection(c domain.Correction) error {
	return p.SaveCorrections([]domain.Correction{c})
}

// SaveCorrections inserts all corrections in one transaction.
func (p *Persistence) SaveCorrections(corrections []domain.Correction) error {
	if len(corrections) == 0 {
		return nil
	}

	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO corrections(id, address, predicted, actual, source, timestamp) VALUES(?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}
	defer stmt.Close()

	for _, c := range corrections {
		_, err := stmt.Exec(
			c.ID, c.Address, c.Predicted, c.Actual, c.Source, c.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not save correction: %w", err))
		}
	}

	err = txEnd(tx, nil)
	if err == nil {
		p.l.WithField("count", len(corrections)).Debug("Persisted corrections")
	}
	return err
}

func (p *Persistence) SaveScan(s domain.ScanSummary) error {
	_, err := p.db.Exec(
		"INSERT INTO scans(id, started_at, archives, messages, correspondents) VALUES(?, ?, ?, ?, ?)",
		s.ID, s.StartedAt.UTC().Format(time.RFC3339Nano), s.Archives, s.Messages, s.Correspondents,
	)
	if err != nil {
		return fmt.Errorf("could not save scan: %w", err)
	}

	p.l.WithFields(logrus.Fields{"id": s.ID, "messages": s.Messages, "correspondents": s.Correspondents}).Info("Persisted scan")
	return nil
}

func (p *Persistence) CorrectionCount() (int, error) {
	var count int
	err := p.db.Get(&count, `SELECT COUNT(*) FROM corrections`)
	if err != nil {
		return 0, fmt.Errorf("could not query db: %w", err)
	}
	return count, nil
}

func (p *Persistence) ScanCount() (int, error) {
	var count int
	err := p.db.Get(&count, `SELECT COUNT(*) FROM scans`)
	if err != nil {
		return 0, fmt.Errorf("could not query db: %w", err)
	}
	return count, nil
}

// CorrectionsFor returns the corrections of one address, oldest first.
func (p *Persistence) CorrectionsFor(address string) ([]domain.Correction, error) {
	rows := []struct {
		Id        string
		Address   string
		Predicted string
		Actual    string
		Source    string
		Timestamp string
	}{}

	err := p.db.Select(
		&rows,
		`SELECT id, address, predicted, actual, source, timestamp FROM corrections WHERE address = ? ORDER BY timestamp, rowid`,
		address,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	corrections := []domain.Correction{}
	for _, r := range rows {
		ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("could not parse timestamp of correction %s: %w", r.Id, err)
		}
		corrections = append(corrections, domain.Correction{
			ID:        r.Id,
			Address:   r.Address,
			Predicted: r.Predicted,
			Actual:    r.Actual,
			Source:    r.Source,
			Timestamp: ts,
		})
	}
	return corrections, nil
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
