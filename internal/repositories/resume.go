package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HasnainAli47/ResumeParser/internal/models"
)

var ErrNotFound = errors.New("record not found")

// SearchFilter holds the criteria that can be answered by the database.
// Every non-empty field narrows the result.
type SearchFilter struct {
	Skills         []string
	EducationLevel string
	Certifications []string
}

type ResumeRepository interface {
	CreateWithRecords(ctx context.Context, resume *models.Resume) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	List(ctx context.Context) ([]models.Resume, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.Resume, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Resume, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// CreateWithRecords writes the resume and every derived record in a single
// transaction. Nothing is kept if any insert fails.
func (r *resumeRepository) CreateWithRecords(ctx context.Context, resume *models.Resume) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(resume).Error; err != nil {
			return fmt.Errorf("failed to create resume: %w", err)
		}

		if resume.PersonalInfo != nil {
			resume.PersonalInfo.ResumeID = resume.ID
			if err := tx.Create(resume.PersonalInfo).Error; err != nil {
				return fmt.Errorf("failed to create personal info: %w", err)
			}
		}

		for i := range resume.Education {
			resume.Education[i].ResumeID = resume.ID
		}
		if err := createRows(tx, resume.Education, "education"); err != nil {
			return err
		}

		for i := range resume.Skills {
			resume.Skills[i].ResumeID = resume.ID
		}
		if err := createRows(tx, resume.Skills, "skills"); err != nil {
			return err
		}

		for i := range resume.WorkExperience {
			resume.WorkExperience[i].ResumeID = resume.ID
		}
		if err := createRows(tx, resume.WorkExperience, "work experience"); err != nil {
			return err
		}

		for i := range resume.Certifications {
			resume.Certifications[i].ResumeID = resume.ID
		}
		return createRows(tx, resume.Certifications, "certifications")
	})
	if err != nil {
		return err
	}

	return nil
}

func createRows[T any](tx *gorm.DB, rows []T, what string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", what, err)
	}
	return nil
}

func (r *resumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := preloadAll(r.db.WithContext(ctx)).Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}

	return &resume, nil
}

func (r *resumeRepository) List(ctx context.Context) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Preload("PersonalInfo").
		Order("uploaded_at ASC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	return resumes, nil
}

func (r *resumeRepository) Search(ctx context.Context, filter SearchFilter) ([]models.Resume, error) {
	query := r.db.WithContext(ctx).Model(&models.Resume{})

	for _, skill := range filter.Skills {
		query = query.Where(
			"EXISTS (SELECT 1 FROM skills WHERE skills.resume_id = resumes.id AND LOWER(skills.name) = ?)",
			strings.ToLower(strings.TrimSpace(skill)),
		)
	}

	if level := strings.TrimSpace(filter.EducationLevel); level != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM educations WHERE educations.resume_id = resumes.id AND LOWER(educations.degree) LIKE ? ESCAPE '!')",
			"%"+escapeLike(strings.ToLower(level))+"%",
		)
	}

	if len(filter.Certifications) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM certifications WHERE certifications.resume_id = resumes.id AND certifications.name IN ?)",
			filter.Certifications,
		)
	}

	var resumes []models.Resume
	if err := preloadAll(query).Order("uploaded_at ASC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to search resumes: %w", err)
	}

	return resumes, nil
}

// Delete removes the resume and all of its derived records and returns the
// deleted row so callers can clean up the stored file.
func (r *resumeRepository) Delete(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&resume).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("resume %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to find resume: %w", err)
		}

		if err := tx.Select(clause.Associations).Delete(&resume).Error; err != nil {
			return fmt.Errorf("failed to delete resume: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resume, nil
}

// Pairs with ESCAPE '!' in the query.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func preloadAll(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}

	return db.
		Preload("PersonalInfo").
		Preload("Education", byID).
		Preload("Skills", byID).
		Preload("WorkExperience", byID).
		Preload("Certifications", byID)
}
