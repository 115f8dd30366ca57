package insights

import "fmt"

// insightPromptTemplate requests exactly the normalized schema. The "JSON
// only" instruction is a best-effort compliance hint; extract and Normalize
// handle non-compliant output.
const insightPromptTemplate = `Analyze the current state of the %s industry and provide insights in ONLY the following JSON format without any additional notes or explanations:
{
  "salaryRanges": [
    { "role": "string", "min": number, "max": number, "median": number, "location": "string" }
  ],
  "growthRate": number,
  "demandLevel": "High" | "Medium" | "Low",
  "topSkills": ["skill1", "skill2"],
  "marketOutlook": "Positive" | "Neutral" | "Negative",
  "keyTrends": ["trend1", "trend2"],
  "recommendedSkills": ["skill1", "skill2"]
}

IMPORTANT: Return ONLY the JSON. No additional text, notes, or markdown formatting.
Include at least 5 common roles for salary ranges.
Growth rate should be a percentage.
Include at least 5 skills and trends.`

// BuildInsightPrompt returns the market-analysis prompt for an industry.
func BuildInsightPrompt(industry string) string {
	return fmt.Sprintf(insightPromptTemplate, industry)
}
