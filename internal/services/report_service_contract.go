package services

import (
	"context"

	"medical-record-service/internal/domain/dtos"
	"medical-record-service/internal/storage"
)

// Pipeline is the hooked store surface the report service consumes: every
// call runs through the registered hook chains (versioning, soft-delete)
// before reaching storage.
type Pipeline interface {
	Save(ctx context.Context, entity string, input storage.Record) (storage.Record, error)
	Delete(ctx context.Context, entity string, id string) (bool, error)
	Find(ctx context.Context, entity string, q storage.Query) ([]storage.Record, error)
	Get(ctx context.Context, entity string, id string) (storage.Record, error)
}

// ReportServiceContract defines the typed operations over reports.
type ReportServiceContract interface {
	CreateReport(ctx context.Context, req dtos.CreateReportRequest) (*dtos.ReportDTO, error)
	UpdateReport(ctx context.Context, id string, req dtos.UpdateReportRequest) (*dtos.ReportDTO, error)
	GetReport(ctx context.Context, id string) (*dtos.ReportDTO, error)
	ListReports(ctx context.Context, includeDeleted bool) ([]*dtos.ReportDTO, error)
	// DeleteReport logically deletes a report; the hook chain takes the
	// pre-delete snapshot and rewrites the delete into an update.
	DeleteReport(ctx context.Context, id string) error
	ListVersions(ctx context.Context, reportID string) ([]*dtos.ReportVersionDTO, error)
}
