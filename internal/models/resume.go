package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExtractionStatus string

const (
	ExtractionComplete ExtractionStatus = "complete"
	ExtractionPartial  ExtractionStatus = "partial"
	ExtractionFailed   ExtractionStatus = "failed"
)

// Resume is one uploaded candidate document together with everything the
// extraction pipeline derived from it.
type Resume struct {
	ID               uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	Filename         string           `gorm:"type:varchar(255)" json:"filename"`
	OriginalFilename string           `gorm:"type:varchar(255)" json:"original_filename"`
	FileType         string           `gorm:"type:varchar(16)" json:"file_type"`
	FilePath         string           `gorm:"type:varchar(512)" json:"-"`
	ExtractedText    string           `gorm:"type:text" json:"extracted_text,omitempty"`
	ExtractionStatus ExtractionStatus `gorm:"type:varchar(16);index" json:"extraction_status"`
	ExtractionIssues datatypes.JSON   `json:"extraction_issues,omitempty"`
	RawExtraction    datatypes.JSON   `json:"raw_extraction,omitempty"`
	UploadedAt       time.Time        `gorm:"autoCreateTime" json:"uploaded_at"`

	PersonalInfo   *PersonalInfo    `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"personal_info,omitempty"`
	Education      []Education      `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"education"`
	Skills         []Skill          `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"skills"`
	WorkExperience []WorkExperience `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"work_experience"`
	Certifications []Certification  `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"certifications"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the extracted candidate name or the placeholder used
// when no personal info exists.
func (r *Resume) DisplayName() string {
	if r.PersonalInfo == nil || r.PersonalInfo.Name == "" {
		return UnknownCandidate
	}
	return r.PersonalInfo.Name
}

const (
	UnknownCandidate = "Unknown Candidate"
	NotFound         = "Not Found"
	Unknown          = "Unknown"
	UnknownYear      = "0000"
)

type PersonalInfo struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	ResumeID uuid.UUID `gorm:"type:char(36);uniqueIndex" json:"-"`
	Name     string    `gorm:"type:varchar(255)" json:"name"`
	Email    string    `gorm:"type:varchar(255)" json:"email"`
	Phone    string    `gorm:"type:varchar(64)" json:"phone"`
	Address  *string   `gorm:"type:text" json:"address"`
}

func (p *PersonalInfo) TableName() string {
	return "personal_infos"
}

type Education struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	ResumeID   uuid.UUID `gorm:"type:char(36);index" json:"-"`
	Degree     string    `gorm:"type:varchar(255)" json:"degree"`
	University string    `gorm:"type:varchar(255)" json:"university"`
	Field      string    `gorm:"type:varchar(255)" json:"field"`
	StartYear  string    `gorm:"type:varchar(16)" json:"start_year"`
	EndYear    *string   `gorm:"type:varchar(16)" json:"end_year"`
}

func (e *Education) TableName() string {
	return "educations"
}

type Skill struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	ResumeID uuid.UUID `gorm:"type:char(36);index" json:"-"`
	Name     string    `gorm:"type:varchar(255);index" json:"name"`
	Level    *string   `gorm:"type:varchar(64)" json:"level"`
}

func (s *Skill) TableName() string {
	return "skills"
}

type WorkExperience struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ResumeID         uuid.UUID `gorm:"type:char(36);index" json:"-"`
	Company          string    `gorm:"type:varchar(255)" json:"company"`
	JobTitle         string    `gorm:"type:varchar(255)" json:"job_title"`
	StartDate        string    `gorm:"type:varchar(64)" json:"start_date"`
	EndDate          string    `gorm:"type:varchar(64)" json:"end_date"`
	Responsibilities string    `gorm:"type:text" json:"responsibilities"`
}

func (w *WorkExperience) TableName() string {
	return "work_experiences"
}

type Certification struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	ResumeID uuid.UUID `gorm:"type:char(36);index" json:"-"`
	Name     string    `gorm:"type:varchar(255);index" json:"name"`
	IssuedBy string    `gorm:"type:varchar(255)" json:"issued_by"`
	Year     *string   `gorm:"type:varchar(16)" json:"year"`
}

func (c *Certification) TableName() string {
	return "certifications"
}
