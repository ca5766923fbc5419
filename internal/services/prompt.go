package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionMessages creates the two message exchange that asks the
// model for the structured resume summary.
func (pb *PromptBuilder) BuildExtractionMessages(resumeText string) []Message {
	return []Message{
		{Role: RoleSystem, Content: extractionSystemPrompt},
		{Role: RoleUser, Content: resumeText},
	}
}

const extractionSystemPrompt = "You are an AI specialized in extracting structured resume information.\n" +
	"Given a raw resume text, extract the following sections:\n\n" +
	"- Personal Information (Name, Email, Phone)\n" +
	"- Education (Degree, Field, University, Start Year, End Year)\n" +
	"- Work Experience (Company, Job Title, Start Date, End Date, Responsibilities)\n" +
	"- Skills (list of relevant skills, e.g. \"Python\", \"Java\", \"Machine Learning\")\n" +
	"- Certifications (list of certifications with Name, Issued By, Year)\n\n" +
	"Reply with a single fenced ```json code block and nothing else. Use exactly these keys:\n\n" +
	"```json\n" +
	"{\n" +
	"  \"Personal Information\": {\"Name\": \"\", \"Email\": \"\", \"Phone\": \"\"},\n" +
	"  \"Education\": [{\"Degree\": \"\", \"Field\": \"\", \"University\": \"\", \"Start Year\": \"\", \"End Year\": \"\"}],\n" +
	"  \"Work Experience\": [{\"Company\": \"\", \"Job Title\": \"\", \"Start Date\": \"\", \"End Date\": \"\", \"Responsibilities\": [\"\"]}],\n" +
	"  \"Skills\": [\"\"],\n" +
	"  \"Certifications\": [{\"Name\": \"\", \"Issued By\": \"\", \"Year\": \"\"}]\n" +
	"}\n" +
	"```\n\n" +
	"Leave out anything the resume does not state. Use \"Present\" as the End Date of a current position."

// BuildChatMessages prepends the resume scoped system prompt to the replayed
// history and appends the new question.
func (pb *PromptBuilder) BuildChatMessages(resumeText, query string, history []Message) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: pb.buildChatSystemPrompt(resumeText, query)})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: query})
	return messages
}

func (pb *PromptBuilder) buildChatSystemPrompt(resumeText, query string) string {
	return fmt.Sprintf(`You are an advanced AI specializing in resume analysis and candidate profiling. Your role is to extract and present structured insights from the provided resume text with maximum accuracy.

### Resume Processing Guidelines:
1. Extract all available details from the resume text while maintaining strict accuracy.
2. Do not infer or assume information. Only use what is explicitly stated in the text.
3. If a detail is missing, respond with "This information is not mentioned in resume by the candidate".
4. Categorize the extracted details into the following sections:
- Personal Information: Name, Email, Phone, Location, LinkedIn, Portfolio.
- Education History: Degree(s), Institution(s), Year(s) of Graduation.
- Work Experience: Company name, Job title, Duration, Key responsibilities.
- Technical Skills: Programming languages, frameworks, tools and technologies.
- Projects: Project names, descriptions, technologies used, outcomes.
- Certifications: Name, Issuing authority, Year obtained.
- Awards & Achievements: Any recognitions or notable accomplishments.
- Publications & Research: Papers, articles or research contributions.
- Soft Skills: Mentioned skills like leadership, teamwork or problem-solving.
- Languages: Any spoken languages if specified.
5. For list-based data, format the response using bullet points.

### Resume Text:
--------------------
%s
--------------------

### User Query:
%s

### Response Guidelines:
- Strictly answer based on the resume text.
- Format responses clearly and use bullet points for multiple items.
- Do not provide responses outside the domain of resume analysis.
- If a question is unrelated to resumes or candidates, respond with:
"I specialize in resume analysis. Please ask questions related to candidate profiles."

### Extracted Information / Answer:
`, resumeText, query)
}
