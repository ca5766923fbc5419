package services

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
)

type SearchCriteria struct {
	Skills         []string
	MinExperience  int
	EducationLevel string
	Certifications []string
}

// NewSearchCriteria normalises a search request. Blank list entries are
// dropped and min_experience is coerced with CoerceMinExperience.
func NewSearchCriteria(req models.SearchRequest) SearchCriteria {
	return SearchCriteria{
		Skills:         compact(req.Skills),
		MinExperience:  CoerceMinExperience(req.MinExperience),
		EducationLevel: strings.TrimSpace(req.EducationLevel),
		Certifications: compact(req.Certifications),
	}
}

// CoerceMinExperience accepts a JSON number or numeric string. Anything
// else, including negative values, becomes 0 which disables the filter.
func CoerceMinExperience(value any) int {
	var n int
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		n = int(v)
	case int:
		n = v
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if n < 0 {
		return 0
	}
	return n
}

type SearchService interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]models.CandidateSummary, error)
}

type searchService struct {
	repo repositories.ResumeRepository
	now  func() time.Time
}

func NewSearchService(repo repositories.ResumeRepository) SearchService {
	return &searchService{
		repo: repo,
		now:  time.Now,
	}
}

type rankedCandidate struct {
	resume         models.Resume
	skills         int
	experience     int
	education      int
	certifications int
}

// Search applies every criterion conjunctively and ranks the matches by
// matching skills, work experience entries, matching education entries and
// matching certifications, all descending. Equal candidates keep upload
// order.
func (s *searchService) Search(ctx context.Context, criteria SearchCriteria) ([]models.CandidateSummary, error) {
	resumes, err := s.repo.Search(ctx, repositories.SearchFilter{
		Skills:         criteria.Skills,
		EducationLevel: criteria.EducationLevel,
		Certifications: criteria.Certifications,
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ranked := make([]rankedCandidate, 0, len(resumes))
	for _, resume := range resumes {
		if criteria.MinExperience > 0 {
			years := ExperienceYears(TotalExperience(resume.WorkExperience, now))
			if years < float64(criteria.MinExperience) {
				continue
			}
		}

		ranked = append(ranked, rankedCandidate{
			resume:         resume,
			skills:         countMatchingSkills(resume.Skills, criteria.Skills),
			experience:     len(resume.WorkExperience),
			education:      countMatchingEducation(resume.Education, criteria.EducationLevel),
			certifications: countMatchingCertifications(resume.Certifications, criteria.Certifications),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.skills != b.skills {
			return a.skills > b.skills
		}
		if a.experience != b.experience {
			return a.experience > b.experience
		}
		if a.education != b.education {
			return a.education > b.education
		}
		return a.certifications > b.certifications
	})

	results := make([]models.CandidateSummary, 0, len(ranked))
	for _, c := range ranked {
		results = append(results, Summarize(&c.resume))
	}

	return results, nil
}

// Summarize lists every skill, job title, degree and certification of the
// resume, not just the ones that matched.
func Summarize(resume *models.Resume) models.CandidateSummary {
	summary := models.CandidateSummary{
		ResumeID:         resume.ID.String(),
		Name:             resume.DisplayName(),
		Skills:           make([]string, 0, len(resume.Skills)),
		Experience:       make([]string, 0, len(resume.WorkExperience)),
		Education:        make([]string, 0, len(resume.Education)),
		Certifications:   make([]string, 0, len(resume.Certifications)),
		ExtractionStatus: resume.ExtractionStatus,
	}

	for _, skill := range resume.Skills {
		summary.Skills = append(summary.Skills, skill.Name)
	}
	for _, exp := range resume.WorkExperience {
		summary.Experience = append(summary.Experience, exp.JobTitle)
	}
	for _, edu := range resume.Education {
		summary.Education = append(summary.Education, edu.Degree)
	}
	for _, cert := range resume.Certifications {
		summary.Certifications = append(summary.Certifications, cert.Name)
	}

	return summary
}

func countMatchingSkills(skills []models.Skill, required []string) int {
	if len(required) == 0 {
		return len(skills)
	}

	wanted := make(map[string]bool, len(required))
	for _, name := range required {
		wanted[strings.ToLower(name)] = true
	}

	count := 0
	for _, skill := range skills {
		if wanted[strings.ToLower(strings.TrimSpace(skill.Name))] {
			count++
		}
	}
	return count
}

func countMatchingEducation(education []models.Education, level string) int {
	if level == "" {
		return len(education)
	}

	level = strings.ToLower(level)
	count := 0
	for _, edu := range education {
		if strings.Contains(strings.ToLower(edu.Degree), level) {
			count++
		}
	}
	return count
}

func countMatchingCertifications(certifications []models.Certification, required []string) int {
	if len(required) == 0 {
		return len(certifications)
	}

	wanted := make(map[string]bool, len(required))
	for _, name := range required {
		wanted[name] = true
	}

	count := 0
	for _, cert := range certifications {
		if wanted[cert.Name] {
			count++
		}
	}
	return count
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
