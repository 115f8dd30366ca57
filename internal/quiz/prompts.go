package quiz

import (
	"fmt"
	"strings"

	"careerly/internal/core"
)

// BuildQuizPrompt requests 10 multiple-choice questions for the user's
// industry, parameterized by their skill list when present.
func BuildQuizPrompt(industry string, skills []string) string {
	expertise := ""
	if len(skills) > 0 {
		expertise = fmt.Sprintf(" with expertise in %s", strings.Join(skills, ", "))
	}

	return fmt.Sprintf(`Generate 10 technical interview questions for a %s professional%s.

Each question should be multiple choice with 4 options.

Return the response in this JSON format only, no additional text:
{
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctAnswer": "string",
      "explanation": "string"
    }
  ]
}`, industry, expertise)
}

// BuildImprovementPrompt asks for one short encouraging tip based only on
// the questions the user missed.
func BuildImprovementPrompt(industry string, wrong []core.QuestionResult) string {
	var b strings.Builder
	for i, q := range wrong {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Question: %q\nCorrect Answer: %q\nUser Answer: %q", q.Question, q.Answer, q.UserAnswer)
	}

	return fmt.Sprintf(`The user got the following %s technical interview questions wrong:

%s

Based on these mistakes, provide a concise, specific improvement tip.
Focus on the knowledge gaps revealed by these wrong answers.
Keep the response under 2 sentences and make it encouraging.
Don't explicitly mention the mistakes, instead focus on what to learn/practice.`, industry, b.String())
}
