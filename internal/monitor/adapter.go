// Package monitor drives live polling of the session store and the
// workflow-continuity state machine.
package monitor

import (
	"context"
	"errors"
	"fmt"

	"ocmon/internal/config"
	"ocmon/internal/model"
	"ocmon/internal/pipeline"
	"ocmon/internal/source"
	"ocmon/internal/store"
)

// ErrNoSource reports that neither session store could be found.
var ErrNoSource = errors.New("no session data source found")

// Source lists workflows for the poll loop, most recent first. Exactly
// one implementation is selected at startup and used for the whole run.
// Implementations are called from a single goroutine and return fresh
// values on every call; nothing is shared between polls.
type Source interface {
	RecentWorkflows(ctx context.Context, limit int) ([]model.Workflow, error)
	Describe() string
	Close() error
}

// FileSource reads the file-based message store and groups the flat
// session list into workflows.
type FileSource struct {
	BasePath string
}

// RecentWorkflows implements Source.
func (f *FileSource) RecentWorkflows(_ context.Context, limit int) ([]model.Workflow, error) {
	result, err := source.ListSessions(f.BasePath, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return pipeline.GroupSessions(result.Sessions), nil
}

// Describe implements Source.
func (f *FileSource) Describe() string {
	return "files: " + f.BasePath
}

// Close implements Source. The file source holds no resources.
func (f *FileSource) Close() error { return nil }

// DatabaseSource reads pre-grouped workflows from the opencode database.
type DatabaseSource struct {
	DB   *store.DB
	Path string
}

// RecentWorkflows implements Source.
func (d *DatabaseSource) RecentWorkflows(_ context.Context, limit int) ([]model.Workflow, error) {
	return d.DB.RecentWorkflows(limit)
}

// Describe implements Source.
func (d *DatabaseSource) Describe() string {
	return "database: " + d.Path
}

// Close implements Source.
func (d *DatabaseSource) Close() error { return d.DB.Close() }

// SelectSource picks the data source for this run. mode is "db", "file",
// or "" for auto-detect (database preferred, file store as fallback).
// The choice is made once; sources are never mixed mid-run.
func SelectSource(mode string, cfg config.Config) (Source, error) {
	switch mode {
	case "db":
		path, ok := databasePath(cfg)
		if !ok {
			return nil, fmt.Errorf("%w: database requested but not found", ErrNoSource)
		}
		return openDatabaseSource(path)
	case "file":
		base, ok := storagePath(cfg)
		if !ok {
			return nil, fmt.Errorf("%w: file store requested but not found", ErrNoSource)
		}
		return &FileSource{BasePath: base}, nil
	case "":
		if path, ok := databasePath(cfg); ok {
			return openDatabaseSource(path)
		}
		if base, ok := storagePath(cfg); ok {
			return &FileSource{BasePath: base}, nil
		}
		return nil, ErrNoSource
	default:
		return nil, fmt.Errorf("unknown source %q (want file or db)", mode)
	}
}

func openDatabaseSource(path string) (Source, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return &DatabaseSource{DB: db, Path: path}, nil
}

func databasePath(cfg config.Config) (string, bool) {
	if cfg.Paths.DatabasePath != "" {
		return cfg.Paths.DatabasePath, true
	}
	return store.FindDatabasePath()
}

func storagePath(cfg config.Config) (string, bool) {
	if cfg.Paths.StorageDir != "" {
		return cfg.Paths.StorageDir, true
	}
	return source.FindStorePath()
}
