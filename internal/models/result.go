package models

type ParsedData struct {
	PersonalInfo   PersonalInfo     `json:"personal_info"`
	Education      []Education      `json:"education"`
	Skills         []Skill          `json:"skills"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Certifications []Certification  `json:"certifications"`
}

type UploadResponse struct {
	Message          string           `json:"message"`
	ResumeID         string           `json:"resume_id"`
	ExtractionStatus ExtractionStatus `json:"extraction_status"`
	Issues           []string         `json:"issues,omitempty"`
	ParsedData       ParsedData       `json:"parsed_data"`
}

type QueryRequest struct {
	ResumeID  string   `json:"resume_id"`
	Query     string   `json:"query"`
	Queries   []string `json:"queries"`
	SessionID string   `json:"session_id"`
}

type QueryResponse struct {
	Message   string            `json:"message"`
	SessionID string            `json:"session_id"`
	Responses map[string]string `json:"responses"`
}

// SearchRequest keeps MinExperience untyped because clients send it as a
// number, a numeric string or not at all.
type SearchRequest struct {
	Skills         []string    `json:"skills"`
	MinExperience  interface{} `json:"min_experience"`
	EducationLevel string      `json:"education_level"`
	Certifications []string    `json:"certifications"`
}

type CandidateSummary struct {
	ResumeID         string           `json:"resume_id"`
	Name             string           `json:"name"`
	Skills           []string         `json:"skills"`
	Experience       []string         `json:"experience"`
	Education        []string         `json:"education"`
	Certifications   []string         `json:"certifications"`
	ExtractionStatus ExtractionStatus `json:"extraction_status"`
}

type SearchResponse struct {
	Message string             `json:"message"`
	Results []CandidateSummary `json:"results"`
}

type CandidateListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
