// Package core contains the domain records shared by every other package:
// industry insights, quiz questions, assessments, and user profiles.
package core

import "time"

// Demand level values stored on an IndustryInsight.
const (
	DemandHigh   = "High"
	DemandMedium = "Medium"
	DemandLow    = "Low"
)

// Market outlook values stored on an IndustryInsight.
const (
	OutlookPositive = "Positive"
	OutlookNeutral  = "Neutral"
	OutlookNegative = "Negative"
)

// RefreshInterval is how long a freshly generated insight stays valid.
// NextUpdate is always LastUpdated plus this interval.
const RefreshInterval = 7 * 24 * time.Hour

// SalaryRange describes compensation for one role within an industry.
type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// IndustryInsight is the market-analysis record for a single industry.
// Industry is the unique key; exactly one record exists per industry string.
type IndustryInsight struct {
	Industry          string        `json:"industry"`
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
	LastUpdated       time.Time     `json:"lastUpdated"`
	NextUpdate        time.Time     `json:"nextUpdate"`
}

// PlaceholderInsight returns the default record written when a user onboards
// into an industry that has never been analyzed. Its empty salary data marks
// it as never-successfully-generated, so the next read regenerates it.
func PlaceholderInsight(industry string, now time.Time) *IndustryInsight {
	return &IndustryInsight{
		Industry:          industry,
		SalaryRanges:      []SalaryRange{},
		GrowthRate:        5.0,
		DemandLevel:       DemandMedium,
		TopSkills:         []string{"Communication", "Problem Solving"},
		MarketOutlook:     OutlookNeutral,
		KeyTrends:         []string{"Digital Transformation", "Remote Work"},
		RecommendedSkills: []string{"Communication", "Problem Solving"},
		LastUpdated:       now,
		NextUpdate:        now.Add(RefreshInterval),
	}
}

// QuizQuestion is one multiple-choice question produced by the quiz generator.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuestionResult pairs a question with the user's answer after grading.
type QuestionResult struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	UserAnswer  string `json:"userAnswer"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// Assessment is one graded quiz submission. Records are immutable once
// created and owned by the submitting user.
type Assessment struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	QuizScore      float64          `json:"quizScore"`
	Questions      []QuestionResult `json:"questions"`
	Category       string           `json:"category"`
	ImprovementTip string           `json:"improvementTip,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// User is the slice of the profile record this service reads and writes.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Industry   string    `json:"industry"`
	Experience int       `json:"experience"`
	Bio        string    `json:"bio"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProfileUpdate carries the onboarding fields a user may change.
type ProfileUpdate struct {
	Industry   string   `json:"industry"`
	Experience int      `json:"experience"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
}
