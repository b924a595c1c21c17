// Package jsonfile stores profiles as a JSON array in a single file. Every
// operation reads the whole file and every mutation rewrites it.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/store"
)

const lockRetryDelay = 50 * time.Millisecond

type Store struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	opts   store.Options
	logger *zap.Logger
}

// Open prepares the file at path, creating it with an empty array when it
// does not exist yet. A sibling "<path>.lock" file guards access from other
// processes.
func Open(path string, log *zap.Logger, opts ...store.Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		opts:   store.NewOptions(opts...),
		logger: logger.OrNop(log),
	}

	err := s.withLock(context.Background(), true, func() error {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		s.logger.Info("creating profile store", zap.String("path", path))
		return s.write([]profile.Profile{})
	})
	if err != nil {
		return nil, fmt.Errorf("initialize store %q: %w", path, err)
	}

	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Create(ctx context.Context, in profile.Input) (*profile.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created profile.Profile
	err := s.mutate(ctx, func(profiles []profile.Profile) ([]profile.Profile, error) {
		created = profile.New(s.opts.NewID(), in, s.opts.Now())
		return append(profiles, created), nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *Store) Get(ctx context.Context, id string) (*profile.Profile, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(profiles, id)
	if idx == -1 {
		return nil, fmt.Errorf("get %q: %w", id, profile.ErrNotFound)
	}

	return &profiles[idx], nil
}

func (s *Store) List(ctx context.Context) ([]profile.Profile, error) {
	var profiles []profile.Profile
	err := s.withLock(ctx, false, func() error {
		var err error
		profiles, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (s *Store) Update(ctx context.Context, id string, u profile.Update) (*profile.Profile, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var updated profile.Profile
	err := s.mutate(ctx, func(profiles []profile.Profile) ([]profile.Profile, error) {
		idx := indexOf(profiles, id)
		if idx == -1 {
			return nil, fmt.Errorf("update %q: %w", id, profile.ErrNotFound)
		}
		u.Apply(&profiles[idx], s.opts.Now())
		updated = profiles[idx]
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(profiles []profile.Profile) ([]profile.Profile, error) {
		idx := indexOf(profiles, id)
		if idx == -1 {
			return nil, fmt.Errorf("delete %q: %w", id, profile.ErrNotFound)
		}
		return slices.Delete(profiles, idx, idx+1), nil
	})
}

// Close is a no-op beyond releasing the lock file handle.
func (s *Store) Close() error {
	return s.lock.Close()
}

func (s *Store) mutate(ctx context.Context, fn func([]profile.Profile) ([]profile.Profile, error)) error {
	return s.withLock(ctx, true, func() error {
		profiles, err := s.read()
		if err != nil {
			return err
		}
		profiles, err = fn(profiles)
		if err != nil {
			return err
		}
		return s.write(profiles)
	})
}

// withLock serialises access inside the process and takes a shared or
// exclusive file lock for other processes.
func (s *Store) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock store: %s is busy", s.path)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("unlock store", zap.Error(err))
		}
	}()

	return fn()
}

func (s *Store) read() ([]profile.Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	profiles := []profile.Profile{}
	if len(data) == 0 {
		return profiles, nil
	}

	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decode store %q: %w", s.path, err)
	}
	if profiles == nil {
		profiles = []profile.Profile{}
	}

	for i := range profiles {
		profiles[i].Normalize()
	}

	return profiles, nil
}

func (s *Store) write(profiles []profile.Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}

	return nil
}

func indexOf(profiles []profile.Profile, id string) int {
	return slices.IndexFunc(profiles, func(p profile.Profile) bool {
		return p.ID == id
	})
}
