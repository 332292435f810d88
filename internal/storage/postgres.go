package storage

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"medical-record-service/internal/domain/entities"
)

// OpenPostgres connects to PostgreSQL. TranslateError is required so unique
// constraint violations surface as gorm.ErrDuplicatedKey, which the version
// manager relies on for its retry loop.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate creates or updates every table of the service. The partial unique
// index on report_number enforces "at most one non-deleted report per report
// number" while still allowing a number to be reused after a soft delete; it
// goes through the raw execution channel because gorm tags cannot express
// partial indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Report{},
		&entities.ReportVersion{},
		&entities.ReportType{},
		&entities.Practitioner{},
		&entities.Patient{},
		&entities.User{},
		&entities.Tag{},
		&entities.ReportTag{},
		&entities.Attachment{},
	); err != nil {
		return err
	}
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_report_number_active
		 ON reports (report_number) WHERE deleted_at IS NULL`,
	).Error
}
