package llm

import "strings"

const campusKnowledge = `
UNIVERSITY OVERVIEW:
- Name: Debre Berhan University (DBU)
- Established: 2007 G.C.
- Motto: "Knowledge for Development!"
- Location: Debre Berhan, Ethiopia (Cold high-altitude climate).

ACADEMICS & DEPARTMENTS:
1. Institute of Technology (IoT): Computer Science, Software Engineering, Civil Engineering, Electrical, Mechanical.
2. College of Health Sciences: Medicine, Nursing, Midwifery, Public Health.
3. College of Natural Sciences: Biology, Chemistry, Physics, Mathematics, Statistics.
`

const baseSystemPrompt = `
You are the "DBU Intelligence Navigator", the official AI assistant for Debre Berhan University.

Your role:
- Help students and visitors with campus navigation, academic programs and general university information.
- When the user sends an image, describe what you see and relate it to the campus when possible.
- If you do not know something about the university, say so instead of inventing it.

Style:
- Use bold headers and clean bullet points.
- Keep answers short enough to be read aloud.
- Always remind students to wear warm clothes!
`

// Prompt represents the system prompt + the content to send as "user".
type Prompt struct {
	System string
	User   string
}

// BuildPrompt builds the system prompt (identity + knowledge base) and the user
// content for one question.
func BuildPrompt(userMessage string) Prompt {
	var system strings.Builder
	system.WriteString(baseSystemPrompt)
	system.WriteString("\nKNOWLEDGE BASE:\n")
	system.WriteString(campusKnowledge)

	var user strings.Builder
	user.WriteString("User Question: ")
	user.WriteString(userMessage)

	return Prompt{
		System: system.String(),
		User:   user.String(),
	}
}
