package wiring

import (
	"github.com/felixgeelhaar/hilal/internal/infrastructure/config"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/quran"
	"github.com/go-pkgz/lgr"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Checklist *application.ChecklistService
	Tasbeeh   *application.TasbeehService
	Quran     *application.QuranService
	Audit     *application.AuditService
	Log       lgr.L
}

// BuildAppServices loads config.yaml under root and constructs every service.
func BuildAppServices(root string, log lgr.L) (*AppServices, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return BuildAppServicesWithConfig(root, cfg, log)
}

// BuildAppServicesWithConfig lets callers override the loaded configuration.
func BuildAppServicesWithConfig(root string, cfg *config.Config, log lgr.L) (*AppServices, error) {
	if log == nil {
		log = lgr.NoOp
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	campaign, err := cfg.CampaignWindow()
	if err != nil {
		return nil, err
	}

	workspace, err := NewWorkspace(root, cfg)
	if err != nil {
		return nil, err
	}

	source := quran.NewResilientProvider(quran.NewStaticProvider(cfg.Quran.PageDelay), cfg.Quran.FetchTimeout)
	quranSvc, err := application.NewQuranService(workspace.Store, source, log)
	if err != nil {
		_ = workspace.Close()
		return nil, err
	}

	return &AppServices{
		Workspace: workspace,
		Checklist: application.NewChecklistService(workspace.Store, workspace.Audit, campaign, log),
		Tasbeeh:   application.NewTasbeehService(workspace.Store, workspace.Audit, log),
		Quran:     quranSvc,
		Audit:     workspace.Audit,
		Log:       log,
	}, nil
}

// Close releases the workspace.
func (s *AppServices) Close() error {
	return s.Workspace.Close()
}
