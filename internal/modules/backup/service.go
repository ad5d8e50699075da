package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ricemill/pos-backend/internal/database"
)

const filePrefix = "ricemill_pos_backup_"

// Info describes one snapshot file on disk.
type Info struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Service produces consistent database snapshots. Snapshot takes the
// exclusive side of the commit gate, so no sale can commit while the
// dump runs.
type Service interface {
	Snapshot(ctx context.Context) (*Info, error)
	List() ([]*Info, error)
	CleanOld(keep int) (int, error)
}

type service struct {
	databaseURL string
	dir         string
	gate        *database.Gate
	log         *logrus.Logger
}

func NewService(databaseURL, dir string, gate *database.Gate, log *logrus.Logger) Service {
	return &service{databaseURL: databaseURL, dir: dir, gate: gate, log: log}
}

func (s *service) Snapshot(ctx context.Context) (*Info, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	name := filePrefix + time.Now().Format("20060102_150405") + ".dump"
	path := filepath.Join(s.dir, name)

	s.gate.BeginSnapshot()
	defer s.gate.EndSnapshot()

	cmd := exec.CommandContext(ctx, "pg_dump", "--format=custom", "--file", path, s.databaseURL)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("pg_dump: %w: %s", err, strings.TrimSpace(string(out)))
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"file": name,
		"size": fi.Size(),
	}).Info("snapshot written")
	return &Info{Name: name, SizeBytes: fi.Size(), CreatedAt: fi.ModTime()}, nil
}

func (s *service) List() ([]*Info, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var out []*Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, &Info{Name: e.Name(), SizeBytes: fi.Size(), CreatedAt: fi.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CleanOld removes all but the newest keep snapshots and returns how
// many files were deleted.
func (s *service) CleanOld(keep int) (int, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	snapshots, err := s.List()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, snap := range snapshots[min(keep, len(snapshots)):] {
		if err := os.Remove(filepath.Join(s.dir, snap.Name)); err != nil {
			return deleted, fmt.Errorf("remove %s: %w", snap.Name, err)
		}
		deleted++
	}
	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("old snapshots removed")
	}
	return deleted, nil
}
