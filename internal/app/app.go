package app

import (
	"github.com/sirupsen/logrus"

	"medical-record-service/internal/adapters"
	"medical-record-service/internal/hooks"
	"medical-record-service/internal/services"
	"medical-record-service/internal/softdelete"
	"medical-record-service/internal/storage"
	"medical-record-service/internal/versioning"
)

// App holds the wired pipeline. Components receive their collaborators by
// reference here; nothing reaches for globals.
type App struct {
	Store    storage.Store
	Schema   *storage.Schema
	Registry *hooks.Registry
	Pipeline *hooks.Dispatcher
	Admin    *softdelete.AdminService
	Reports  services.ReportServiceContract
	Audit    adapters.AuditPublisher
	Logger   *logrus.Logger
}

// Wire assembles the hook pipeline around the given store and freezes the
// registry. Registration order matters for the report entity: the versioning
// stages register first so the pre-delete snapshot wraps outside the
// soft-delete rewrite and snapshots still-live data.
func Wire(store storage.Store, schema *storage.Schema, audit adapters.AuditPublisher, logger *logrus.Logger) *App {
	registry := hooks.NewRegistry()

	versioning.NewManager(store, logger).Register(registry)
	softdelete.NewInterceptor(store, schema, logger).Register(registry)
	registry.Freeze()

	pipeline := hooks.NewDispatcher(store, registry)

	return &App{
		Store:    store,
		Schema:   schema,
		Registry: registry,
		Pipeline: pipeline,
		Admin:    softdelete.NewAdminService(store, schema, audit, logger),
		Reports:  services.NewReportService(pipeline, logger),
		Audit:    audit,
		Logger:   logger,
	}
}
