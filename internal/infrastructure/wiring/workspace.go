package wiring

import (
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/config"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/storage"
	"github.com/felixgeelhaar/hilal/pkg/storage/sqlitekv"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Root   string
	Config *config.Config
	Files  *storage.FilesystemStore
	Store  domain.Store
	Events *storage.FileEventStore
	Audit  *application.AuditService

	closeStore func() error
}

// NewWorkspace opens the configured store backend and the event log under root.
func NewWorkspace(root string, cfg *config.Config) (*Workspace, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	files := storage.NewFilesystemStore(root)

	events, err := storage.NewFileEventStore(files.Dir())
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	ws := &Workspace{
		Root:       root,
		Config:     cfg,
		Files:      files,
		Store:      files,
		Events:     events,
		Audit:      application.NewAuditService(events),
		closeStore: func() error { return nil },
	}

	if cfg.Store.Backend == config.BackendSQLite {
		if err := files.Initialize(); err != nil {
			return nil, err
		}
		name := cfg.Store.Path
		if name == "" {
			name = storage.DatabaseFile
		}
		path, err := files.ResolvePath(filepath.Base(name))
		if err != nil {
			return nil, err
		}
		db, err := sqlitekv.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		ws.Store = db
		ws.closeStore = db.Close
	}

	return ws, nil
}

// Close releases the store backend.
func (w *Workspace) Close() error {
	return w.closeStore()
}
