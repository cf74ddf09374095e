package models

import "encoding/json"

// Element is one of the five elemental categories.
type Element string

const (
	Wood  Element = "wood"
	Fire  Element = "fire"
	Earth Element = "earth"
	Metal Element = "metal"
	Water Element = "water"
)

// Elements lists the categories in their fixed reporting order.
var Elements = []Element{Wood, Fire, Earth, Metal, Water}

// ElementCounts tallies stem and branch contributions per category.
// It always carries all five keys; zero is a valid count.
type ElementCounts map[Element]int

// NewElementCounts returns counts with every category present at zero.
func NewElementCounts() ElementCounts {
	c := make(ElementCounts, len(Elements))
	for _, e := range Elements {
		c[e] = 0
	}
	return c
}

// Total returns the sum of all counts.
func (c ElementCounts) Total() int {
	total := 0
	for _, e := range Elements {
		total += c[e]
	}
	return total
}

// Pillar is one stem+branch pair of the four pillars.
type Pillar struct {
	Raw           string  `json:"raw"`
	Stem          string  `json:"stem"`
	Branch        string  `json:"branch"`
	StemElement   Element `json:"stemElement,omitempty"`
	BranchElement Element `json:"branchElement,omitempty"`
	Label         string  `json:"label"`
}

// Pillars holds the year, month, day and hour pillars. A pillar the
// calculator did not report is nil.
type Pillars struct {
	Year  *Pillar `json:"year"`
	Month *Pillar `json:"month"`
	Day   *Pillar `json:"day"`
	Hour  *Pillar `json:"hour"`
}

// LunarInfo is the lunar calendar date reported by the calculator.
type LunarInfo struct {
	Year        *int   `json:"year"`
	Month       *int   `json:"month"`
	Day         *int   `json:"day"`
	IsLeapMonth bool   `json:"isLeapMonth"`
	LeapLabel   string `json:"leapLabel"`
	MonthName   string `json:"monthName"`
}

// ComputationResult is the normalized calculator output.
type ComputationResult struct {
	Pillars         Pillars         `json:"pillars"`
	ElementalCounts ElementCounts   `json:"elementalCounts"`
	ZodiacAnimal    string          `json:"zodiacAnimal"`
	BirthSign       string          `json:"birthSign"`
	LunarInfo       LunarInfo       `json:"lunarInfo"`
	DayStem         string          `json:"dayStem"`
	RawSource       json.RawMessage `json:"rawSource,omitempty"`
}

// Strength classifies how present an element is.
type Strength string

const (
	StrengthAbsent   Strength = "absent"
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// StrengthEntry is the analysis of a single elemental category.
type StrengthEntry struct {
	Category   Element  `json:"category"`
	Label      string   `json:"label"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Strength   Strength `json:"strength"`
}

// BirthInfo is the validated birth moment a computation was made for.
type BirthInfo struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Gender   string `json:"gender"`
	IsLunar  bool   `json:"isLunar"`
	Timezone string `json:"timezone"`
}

// Record is the cached payload of one computation.
type Record struct {
	Name     string            `json:"name"`
	Birth    BirthInfo         `json:"birth"`
	Result   ComputationResult `json:"result"`
	Strength []StrengthEntry   `json:"strength"`
}

// CalculatorInput is the argument set sent to the external calculator.
type CalculatorInput struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Hour     int    `json:"hour"`
	Gender   string `json:"gender"`
	Timezone string `json:"timezone"`
}
