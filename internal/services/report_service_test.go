package services

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"medical-record-service/internal/domain/dtos"
	"medical-record-service/internal/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestReportService_CreateReport_MapsFieldsAndDefaults(t *testing.T) {
	var captured storage.Record
	mock := &MockPipeline{
		SaveFunc: func(ctx context.Context, entity string, input storage.Record) (storage.Record, error) {
			assert.Equal(t, "report", entity)
			captured = input
			out := storage.Record{"id": uuid.NewString(), "created_at": time.Now(), "updated_at": time.Now()}
			for k, v := range input {
				if k != "change_reason" {
					out[k] = v
				}
			}
			return out, nil
		},
	}
	svc := NewReportService(mock, testLogger())

	patientID := uuid.New()
	report, err := svc.CreateReport(context.Background(), dtos.CreateReportRequest{
		ReportNumber: "R-001",
		Title:        "Blood Test",
		Content:      "all good",
		PatientID:    &patientID,
		ChangeReason: "initial intake",
	})
	assert.NoError(t, err)
	assert.NotNil(t, report)

	assert.Equal(t, "R-001", storage.AsString(captured, "report_number"))
	assert.Equal(t, "draft", storage.AsString(captured, "status"), "empty status defaults to draft")
	assert.Equal(t, patientID.String(), storage.AsString(captured, "patient_id"))
	assert.Equal(t, "initial intake", storage.AsString(captured, "change_reason"))

	assert.Equal(t, "Blood Test", report.Title)
	assert.EqualValues(t, 1, atomic.LoadInt32(&mock.SaveFuncCallCount))
}

func TestReportService_UpdateReport_OnlySendsChangedFields(t *testing.T) {
	var captured storage.Record
	mock := &MockPipeline{
		SaveFunc: func(ctx context.Context, entity string, input storage.Record) (storage.Record, error) {
			captured = input
			return storage.Record{"id": storage.AsString(input, "id"), "title": "kept"}, nil
		},
	}
	svc := NewReportService(mock, testLogger())

	content := "revised findings"
	_, err := svc.UpdateReport(context.Background(), "some-id", dtos.UpdateReportRequest{Content: &content})
	assert.NoError(t, err)

	assert.Equal(t, "some-id", storage.AsString(captured, "id"))
	assert.Equal(t, "revised findings", storage.AsString(captured, "content"))
	_, hasTitle := captured["title"]
	assert.False(t, hasTitle, "nil pointer fields must stay out of the update payload")
}

func TestReportService_GetReport_PropagatesNotFound(t *testing.T) {
	mock := &MockPipeline{
		GetFunc: func(ctx context.Context, entity string, id string) (storage.Record, error) {
			return nil, storage.ErrNotFound
		},
	}
	svc := NewReportService(mock, testLogger())

	_, err := svc.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportService_ListReports_ForwardsIncludeDeleted(t *testing.T) {
	mock := &MockPipeline{
		FindFunc: func(ctx context.Context, entity string, q storage.Query) ([]storage.Record, error) {
			assert.True(t, q.IncludeDeleted)
			return []storage.Record{{"id": "a"}, {"id": "b"}}, nil
		},
	}
	svc := NewReportService(mock, testLogger())

	reports, err := svc.ListReports(context.Background(), true)
	assert.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestReportService_DeleteReport_DelegatesToPipeline(t *testing.T) {
	mock := &MockPipeline{
		DeleteFunc: func(ctx context.Context, entity string, id string) (bool, error) {
			assert.Equal(t, "report", entity)
			assert.Equal(t, "some-id", id)
			return true, nil
		},
	}
	svc := NewReportService(mock, testLogger())

	assert.NoError(t, svc.DeleteReport(context.Background(), "some-id"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&mock.DeleteFuncCallCount))
}

func TestReportService_ListVersions_MapsDTO(t *testing.T) {
	now := time.Now().UTC()
	mock := &MockPipeline{
		FindFunc: func(ctx context.Context, entity string, q storage.Query) ([]storage.Record, error) {
			assert.Equal(t, "reportVersion", entity)
			assert.Equal(t, "version_number asc", q.OrderBy)
			return []storage.Record{{
				"id": "v1", "report_id": "r1", "version_number": int64(1),
				"title": "t", "content": "c", "changed_by": "u1",
				"change_reason": "Updated via API", "is_current": true, "created_at": now,
			}}, nil
		},
	}
	svc := NewReportService(mock, testLogger())

	versions, err := svc.ListVersions(context.Background(), "r1")
	assert.NoError(t, err)
	assert.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.True(t, versions[0].IsCurrent)
	assert.Equal(t, now, versions[0].CreatedAt)
}
