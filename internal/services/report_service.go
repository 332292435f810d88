package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"medical-record-service/internal/domain/dtos"
	"medical-record-service/internal/storage"
)

const reportEntity = "report"
const versionEntity = "reportVersion"

// ReportServiceImpl implements ReportServiceContract on top of the hook
// pipeline. It contains no soft-delete or versioning logic of its own; those
// concerns ride along on every call through the registered hook chains.
type ReportServiceImpl struct {
	pipeline Pipeline
	logger   *logrus.Logger
}

var _ ReportServiceContract = (*ReportServiceImpl)(nil)

// NewReportService creates a new instance of ReportServiceImpl.
func NewReportService(pipeline Pipeline, logger *logrus.Logger) ReportServiceContract {
	return &ReportServiceImpl{pipeline: pipeline, logger: logger}
}

func (s *ReportServiceImpl) CreateReport(ctx context.Context, req dtos.CreateReportRequest) (*dtos.ReportDTO, error) {
	status := req.Status
	if status == "" {
		status = "draft"
	}
	input := storage.Record{
		"report_number": req.ReportNumber,
		"title":         req.Title,
		"content":       req.Content,
		"findings":      req.Findings,
		"diagnosis":     req.Diagnosis,
		"status":        status,
	}
	if req.PractitionerID != nil {
		input["practitioner_id"] = req.PractitionerID.String()
	}
	if req.PatientID != nil {
		input["patient_id"] = req.PatientID.String()
	}
	if req.ReportTypeID != nil {
		input["report_type_id"] = req.ReportTypeID.String()
	}
	if req.ReportDate != nil {
		input["report_date"] = req.ReportDate.UTC()
	}
	if req.ChangeReason != "" {
		input["change_reason"] = req.ChangeReason
	}

	rec, err := s.pipeline.Save(ctx, reportEntity, input)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("report_id", storage.AsString(rec, "id")).Info("report created")
	return reportToDTO(rec), nil
}

func (s *ReportServiceImpl) UpdateReport(ctx context.Context, id string, req dtos.UpdateReportRequest) (*dtos.ReportDTO, error) {
	input := storage.Record{"id": id}
	if req.Title != nil {
		input["title"] = *req.Title
	}
	if req.Content != nil {
		input["content"] = *req.Content
	}
	if req.Findings != nil {
		input["findings"] = *req.Findings
	}
	if req.Diagnosis != nil {
		input["diagnosis"] = *req.Diagnosis
	}
	if req.Status != nil {
		input["status"] = *req.Status
	}
	if req.ChangeReason != "" {
		input["change_reason"] = req.ChangeReason
	}

	rec, err := s.pipeline.Save(ctx, reportEntity, input)
	if err != nil {
		return nil, err
	}
	return reportToDTO(rec), nil
}

func (s *ReportServiceImpl) GetReport(ctx context.Context, id string) (*dtos.ReportDTO, error) {
	rec, err := s.pipeline.Get(ctx, reportEntity, id)
	if err != nil {
		return nil, err
	}
	return reportToDTO(rec), nil
}

func (s *ReportServiceImpl) ListReports(ctx context.Context, includeDeleted bool) ([]*dtos.ReportDTO, error) {
	rows, err := s.pipeline.Find(ctx, reportEntity, storage.Query{
		IncludeDeleted: includeDeleted,
		OrderBy:        "created_at desc",
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dtos.ReportDTO, len(rows))
	for i, r := range rows {
		out[i] = reportToDTO(r)
	}
	return out, nil
}

func (s *ReportServiceImpl) DeleteReport(ctx context.Context, id string) error {
	_, err := s.pipeline.Delete(ctx, reportEntity, id)
	return err
}

func (s *ReportServiceImpl) ListVersions(ctx context.Context, reportID string) ([]*dtos.ReportVersionDTO, error) {
	rows, err := s.pipeline.Find(ctx, versionEntity, storage.Query{
		Where: []storage.Cond{
			{Field: "report_id", Op: storage.OpEq, Value: reportID},
		},
		OrderBy: "version_number asc",
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dtos.ReportVersionDTO, len(rows))
	for i, r := range rows {
		out[i] = versionToDTO(r)
	}
	return out, nil
}

func reportToDTO(r storage.Record) *dtos.ReportDTO {
	dto := &dtos.ReportDTO{
		ID:               storage.AsString(r, "id"),
		ReportNumber:     storage.AsString(r, "report_number"),
		Title:            storage.AsString(r, "title"),
		Content:          storage.AsString(r, "content"),
		Findings:         storage.AsString(r, "findings"),
		Diagnosis:        storage.AsString(r, "diagnosis"),
		Status:           storage.AsString(r, "status"),
		CurrentVersionID: storage.AsString(r, "current_version_id"),
		LastModifiedBy:   storage.AsString(r, "last_modified_by"),
		CreatedAt:        storage.AsTime(r, "created_at"),
		UpdatedAt:        storage.AsTime(r, "updated_at"),
	}
	if deletedAt := storage.AsTime(r, "deleted_at"); !deletedAt.IsZero() {
		t := deletedAt
		dto.DeletedAt = &t
	}
	return dto
}

func versionToDTO(r storage.Record) *dtos.ReportVersionDTO {
	return &dtos.ReportVersionDTO{
		ID:            storage.AsString(r, "id"),
		ReportID:      storage.AsString(r, "report_id"),
		VersionNumber: int(storage.AsInt64(r, "version_number")),
		Title:         storage.AsString(r, "title"),
		Content:       storage.AsString(r, "content"),
		Findings:      storage.AsString(r, "findings"),
		Diagnosis:     storage.AsString(r, "diagnosis"),
		ChangedBy:     storage.AsString(r, "changed_by"),
		ChangeReason:  storage.AsString(r, "change_reason"),
		IsCurrent:     storage.AsBool(r, "is_current"),
		CreatedAt:     storage.AsTime(r, "created_at"),
	}
}
