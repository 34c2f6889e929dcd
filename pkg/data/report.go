package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mchmarny/textscore/pkg/score"
)

const (
	// ListLimitDefault caps list queries when no limit is given.
	ListLimitDefault = 100

	reportColumns = `id, source, body, corrected, mode, tokens, spellchecked, efficiency,
		unique_words, avg_sentence_length, avg_len_words, vocab_length, good_vocab,
		descriptiveness, score, created_at`

	insertReportSQL = `INSERT INTO report (source, body, corrected, mode, tokens,
		spellchecked, efficiency, unique_words, avg_sentence_length, avg_len_words,
		vocab_length, good_vocab, descriptiveness, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	selectReportSQL = `SELECT ` + reportColumns + ` FROM report WHERE id = ?`

	selectReportsSQL = `SELECT ` + reportColumns + ` FROM report
		WHERE source LIKE ? ESCAPE '\'
		ORDER BY id DESC
		LIMIT ?
	`

	selectStatsSQL = `SELECT COUNT(*), COALESCE(MIN(score), 0), COALESCE(AVG(score), 0),
		COALESCE(MAX(score), 0), COALESCE(AVG(efficiency), 0), COALESCE(SUM(tokens), 0)
		FROM report
	`

	deleteReportsSQL = `DELETE FROM report`
)

// Record is a persisted report with the text it was computed from.
type Record struct {
	ID           int64     `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	Text         string    `json:"text" yaml:"text"`
	CreatedAt    time.Time `json:"created_at" yaml:"createdAt"`
	score.Report `yaml:",inline"`
}

// Stats summarizes all persisted reports.
type Stats struct {
	Count         int64   `json:"count" yaml:"count"`
	MinScore      float64 `json:"min_score" yaml:"minScore"`
	AvgScore      float64 `json:"avg_score" yaml:"avgScore"`
	MaxScore      float64 `json:"max_score" yaml:"maxScore"`
	AvgEfficiency float64 `json:"avg_efficiency" yaml:"avgEfficiency"`
	Tokens        int64   `json:"tokens" yaml:"tokens"`
}

// SaveReport persists r computed from text and returns the new record.
func (s *Store) SaveReport(ctx context.Context, source, text string, r *score.Report) (*Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("report required")
	}
	if source == "" {
		return nil, errors.New("source required")
	}

	rec := &Record{
		Source:    source,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		Report:    *r,
	}

	row := s.db.QueryRowContext(ctx, s.rebind(insertReportSQL),
		rec.Source, rec.Text, r.Corrected, string(r.Mode), r.Tokens, r.Spellchecked,
		r.Efficiency, r.UniqueWords, r.AvgSentenceLength, r.AvgLenWords, r.VocabLength,
		r.GoodVocab, r.Descriptiveness, r.Score, rec.CreatedAt.Format(timeFormat))

	if err := row.Scan(&rec.ID); err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}
	return rec, nil
}

// GetReport returns the record with id or ErrNotFound.
func (s *Store) GetReport(ctx context.Context, id int64) (*Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rec, err := scanRecord(s.db.QueryRowContext(ctx, s.rebind(selectReportSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("selecting report %d: %w", id, err)
	}
	return rec, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches sources containing s literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// ListReports returns the newest records whose source contains like.
func (s *Store) ListReports(ctx context.Context, like string, limit int) ([]*Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = ListLimitDefault
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(selectReportsSQL), containsPattern(like), limit)
	if err != nil {
		return nil, fmt.Errorf("selecting reports: %w", err)
	}
	defer rows.Close()

	list := make([]*Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return list, nil
}

// GetStats summarizes all records.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	st := &Stats{}
	err := s.db.QueryRowContext(ctx, selectStatsSQL).Scan(
		&st.Count, &st.MinScore, &st.AvgScore, &st.MaxScore, &st.AvgEfficiency, &st.Tokens)
	if err != nil {
		return nil, fmt.Errorf("selecting stats: %w", err)
	}
	return st, nil
}

// DeleteReports removes every record and returns how many were deleted.
func (s *Store) DeleteReports(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, deleteReportsSQL)
	if err != nil {
		return 0, fmt.Errorf("deleting reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted reports: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec     Record
		mode    string
		created string
	)
	err := row.Scan(&rec.ID, &rec.Source, &rec.Text, &rec.Corrected, &mode,
		&rec.Tokens, &rec.Spellchecked, &rec.Efficiency, &rec.UniqueWords,
		&rec.AvgSentenceLength, &rec.AvgLenWords, &rec.VocabLength, &rec.GoodVocab,
		&rec.Descriptiveness, &rec.Score, &created)
	if err != nil {
		return nil, err
	}
	rec.Mode = score.Mode(mode)

	t, err := time.Parse(timeFormat, created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
