package services

import (
	"strconv"
	"strings"

	"github.com/HasnainAli47/ResumeParser/internal/models"
)

// Section keys the extraction prompt asks the model to use.
const (
	sectionPersonalInfo   = "Personal Information"
	sectionEducation      = "Education"
	sectionSkills         = "Skills"
	sectionWorkExperience = "Work Experience"
	sectionCertifications = "Certifications"
)

// The reconcilers below accept any decoded JSON object, including the
// cleaner's error object, and never fail. Missing or mistyped values fall
// back to fixed placeholders.

func ReconcilePersonalInfo(data map[string]any) models.PersonalInfo {
	section, _ := data[sectionPersonalInfo].(map[string]any)

	return models.PersonalInfo{
		Name:  stringField(section, "Name", models.NotFound),
		Email: stringField(section, "Email", models.NotFound),
		Phone: stringField(section, "Phone", models.NotFound),
	}
}

func ReconcileEducation(data map[string]any) []models.Education {
	entries := objectList(data[sectionEducation])
	education := make([]models.Education, 0, len(entries))

	for _, entry := range entries {
		education = append(education, models.Education{
			Degree:     stringField(entry, "Degree", models.Unknown),
			University: stringField(entry, "University", models.Unknown),
			Field:      stringField(entry, "Field", models.Unknown),
			StartYear:  stringField(entry, "Start Year", models.UnknownYear),
			EndYear:    optionalField(entry, "End Year"),
		})
	}

	return education
}

func ReconcileSkills(data map[string]any) []models.Skill {
	items, _ := data[sectionSkills].([]any)
	skills := make([]models.Skill, 0, len(items))

	for _, item := range items {
		var name string
		switch v := item.(type) {
		case string:
			name = v
		case map[string]any:
			name = stringField(v, "Name", "")
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		skills = append(skills, models.Skill{Name: name})
	}

	return skills
}

func ReconcileWorkExperience(data map[string]any) []models.WorkExperience {
	entries := objectList(data[sectionWorkExperience])
	experience := make([]models.WorkExperience, 0, len(entries))

	for _, entry := range entries {
		experience = append(experience, models.WorkExperience{
			Company:          stringField(entry, "Company", models.Unknown),
			JobTitle:         stringField(entry, "Job Title", models.Unknown),
			StartDate:        stringField(entry, "Start Date", models.Unknown),
			EndDate:          stringField(entry, "End Date", models.Unknown),
			Responsibilities: joinResponsibilities(entry["Responsibilities"]),
		})
	}

	return experience
}

// ReconcileCertifications accepts both {"Name", "Issued By", "Year"} objects
// and bare name strings.
func ReconcileCertifications(data map[string]any) []models.Certification {
	items, _ := data[sectionCertifications].([]any)
	certifications := make([]models.Certification, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			certifications = append(certifications, models.Certification{
				Name:     stringField(v, "Name", models.Unknown),
				IssuedBy: stringField(v, "Issued By", ""),
				Year:     optionalField(v, "Year"),
			})
		case string:
			certifications = append(certifications, models.Certification{Name: v})
		}
	}

	return certifications
}

func objectList(value any) []map[string]any {
	items, _ := value.([]any)
	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

// stringField returns the value under key rendered as text, or def when the
// key is absent or null.
func stringField(obj map[string]any, key, def string) string {
	text, ok := scalarText(obj[key])
	if !ok {
		return def
	}
	return text
}

// optionalField returns nil for absent or falsy values.
func optionalField(obj map[string]any, key string) *string {
	value := obj[key]
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if !v {
			return nil
		}
	case float64:
		if v == 0 {
			return nil
		}
	case string:
		if v == "" {
			return nil
		}
	}

	text, ok := scalarText(value)
	if !ok {
		return nil
	}
	return &text
}

func scalarText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

func joinResponsibilities(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			if text, ok := scalarText(item); ok {
				lines = append(lines, text)
			}
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}
