package consult

import "strings"

// Category is the subject area of a consultation question.
type Category string

const (
	CategoryCareer  Category = "career"
	CategoryLove    Category = "love"
	CategoryHealth  Category = "health"
	CategoryFinance Category = "finance"
	CategoryGeneral Category = "general"
)

// Urgency is how soon the asker wants an outcome.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyShortTerm Urgency = "short_term"
	UrgencyLongTerm  Urgency = "long_term"
)

// QuestionAnalysis summarizes a question for prompt building and fallback selection.
type QuestionAnalysis struct {
	Category  Category `json:"category"`
	Urgency   Urgency  `json:"urgency"`
	TimeScope int      `json:"time_scope"` // years
}

type keywordSet[T any] struct {
	value    T
	keywords []string
}

// Checked in order; the first match wins.
var categoryPatterns = []keywordSet[Category]{
	{CategoryCareer, []string{"이직", "퇴사", "직장", "취업", "승진", "사업", "career", "job", "promotion"}},
	{CategoryLove, []string{"연애", "결혼", "이별", "만남", "배우자", "love", "marriage", "partner"}},
	{CategoryHealth, []string{"건강", "병", "수술", "치료", "health", "illness", "surgery"}},
	{CategoryFinance, []string{"돈", "투자", "재산", "수입", "money", "invest", "income", "wealth"}},
}

var urgencyPatterns = []keywordSet[Urgency]{
	{UrgencyImmediate, []string{"당장", "지금", "오늘", "내일", "이번주", "now", "today", "tomorrow"}},
	{UrgencyShortTerm, []string{"올해", "이번년", "몇개월", "반년", "this year", "months"}},
	{UrgencyLongTerm, []string{"내년", "몇년", "장기적", "next year", "long term"}},
}

var fortuneKeywords = []string{"운세", "올해", "fortune", "this year"}

// Analyze classifies a question by keyword.
func Analyze(question string) QuestionAnalysis {
	q := strings.ToLower(question)
	category := match(q, categoryPatterns, CategoryGeneral)
	return QuestionAnalysis{
		Category:  category,
		Urgency:   match(q, urgencyPatterns, UrgencyShortTerm),
		TimeScope: timeScope(q, category),
	}
}

// IsFortuneQuestion reports whether the question asks about the general
// fortune of the year.
func IsFortuneQuestion(question string) bool {
	return containsAny(strings.ToLower(question), fortuneKeywords)
}

func timeScope(q string, c Category) int {
	switch c {
	case CategoryCareer:
		if containsAny(q, []string{"이직", "퇴사"}) {
			return 3
		}
	case CategoryLove:
		return 2
	case CategoryFinance:
		return 5
	}
	return 1
}

func match[T any](q string, sets []keywordSet[T], def T) T {
	for _, s := range sets {
		if containsAny(q, s.keywords) {
			return s.value
		}
	}
	return def
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
