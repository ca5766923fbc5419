package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"

	db, err := config.InitDatabase(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func strPtr(s string) *string {
	return &s
}

func sampleResume() *models.Resume {
	return &models.Resume{
		Filename:         "resume_1.pdf",
		OriginalFilename: "jane.pdf",
		FileType:         "pdf",
		ExtractedText:    "Jane Doe",
		ExtractionStatus: models.ExtractionComplete,
		PersonalInfo: &models.PersonalInfo{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: models.NotFound,
		},
		Education: []models.Education{
			{Degree: "BSc Computer Science", University: "MIT", Field: "CS", StartYear: "2014", EndYear: strPtr("2018")},
		},
		Skills: []models.Skill{
			{Name: "Go"},
			{Name: "SQL"},
		},
		WorkExperience: []models.WorkExperience{
			{Company: "Acme", JobTitle: "Backend Engineer", StartDate: "2018", EndDate: "Present", Responsibilities: "Built APIs"},
		},
		Certifications: []models.Certification{
			{Name: "CKA", IssuedBy: "CNCF", Year: strPtr("2021")},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
