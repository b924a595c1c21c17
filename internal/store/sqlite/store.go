// Package sqlite is a profile store backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/store"
)

const schema = `CREATE TABLE IF NOT EXISTS profiles (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	bio          TEXT NOT NULL,
	skills       TEXT NOT NULL DEFAULT '[]',
	interests    TEXT NOT NULL DEFAULT '[]',
	github_url   TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
)`

const selectColumns = `SELECT id, name, bio, skills, interests, github_url, linkedin_url, created_at, updated_at FROM profiles`

type row struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Bio         string `db:"bio"`
	Skills      string `db:"skills"`
	Interests   string `db:"interests"`
	GitHubURL   string `db:"github_url"`
	LinkedInURL string `db:"linkedin_url"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

type Store struct {
	db     *sqlx.DB
	opts   store.Options
	logger *zap.Logger
}

// Open connects to the database at path and creates the schema if needed.
func Open(path string, log *zap.Logger, opts ...store.Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite %q: %w", path, err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.OrNop(log).Debug("sqlite profile store ready", zap.String("path", path))

	return &Store{db: db, opts: store.NewOptions(opts...), logger: logger.OrNop(log)}, nil
}

func (s *Store) Create(ctx context.Context, in profile.Input) (*profile.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := profile.New(s.opts.NewID(), in, s.opts.Now())
	r, err := toRow(p)
	if err != nil {
		return nil, err
	}

	_, err = s.db.NamedExecContext(ctx, `INSERT INTO profiles
		(id, name, bio, skills, interests, github_url, linkedin_url, created_at, updated_at)
		VALUES (:id, :name, :bio, :skills, :interests, :github_url, :linkedin_url, :created_at, :updated_at)`, r)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return &p, nil
}

func (s *Store) Get(ctx context.Context, id string) (*profile.Profile, error) {
	return get(ctx, s.db, id)
}

func (s *Store) List(ctx context.Context) ([]profile.Profile, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, selectColumns+` ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]profile.Profile, 0, len(rows))
	for _, r := range rows {
		p, err := r.toProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (s *Store) Update(ctx context.Context, id string, u profile.Update) (*profile.Profile, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	u.Apply(p, s.opts.Now())
	r, err := toRow(*p)
	if err != nil {
		return nil, err
	}

	_, err = tx.NamedExecContext(ctx, `UPDATE profiles SET
		name = :name, bio = :bio, skills = :skills, interests = :interests,
		github_url = :github_url, linkedin_url = :linkedin_url, updated_at = :updated_at
		WHERE id = :id`, r)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", id, profile.ErrNotFound)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func get(ctx context.Context, q sqlx.QueryerContext, id string) (*profile.Profile, error) {
	var r row
	err := sqlx.GetContext(ctx, q, &r, selectColumns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %q: %w", id, profile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p, err := r.toProfile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func toRow(p profile.Profile) (row, error) {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return row{}, fmt.Errorf("encode skills: %w", err)
	}
	interests, err := json.Marshal(p.Interests)
	if err != nil {
		return row{}, fmt.Errorf("encode interests: %w", err)
	}

	return row{
		ID:          p.ID,
		Name:        p.Name,
		Bio:         p.Bio,
		Skills:      string(skills),
		Interests:   string(interests),
		GitHubURL:   p.GitHubURL,
		LinkedInURL: p.LinkedInURL,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func (r row) toProfile() (profile.Profile, error) {
	p := profile.Profile{
		ID:          r.ID,
		Name:        r.Name,
		Bio:         r.Bio,
		GitHubURL:   r.GitHubURL,
		LinkedInURL: r.LinkedInURL,
	}

	if err := decodeList(r.Skills, &p.Skills); err != nil {
		return p, fmt.Errorf("decode skills of %q: %w", r.ID, err)
	}
	if err := decodeList(r.Interests, &p.Interests); err != nil {
		return p, fmt.Errorf("decode interests of %q: %w", r.ID, err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, r.CreatedAt); err != nil {
		return p, fmt.Errorf("parse created_at of %q: %w", r.ID, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, r.UpdatedAt); err != nil {
		return p, fmt.Errorf("parse updated_at of %q: %w", r.ID, err)
	}

	p.Normalize()
	return p, nil
}

func decodeList(raw string, dst *[]string) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
