// Package translate normalizes the calculator's native symbol set into the
// labels used throughout the service.
package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

// Translate maps a raw calculator payload to a ComputationResult. Only a
// payload whose root is not a JSON object is an error; missing or odd
// sub-fields degrade to null, zero or the verbatim value.
func Translate(raw []byte) (models.ComputationResult, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return models.ComputationResult{}, fmt.Errorf("%w: %w", models.ErrTranslation, err)
	}
	if root == nil {
		return models.ComputationResult{}, fmt.Errorf("%w: payload root is null", models.ErrTranslation)
	}

	pillars := object(field(root, "四柱", "四柱八字"))
	lunar := object(field(root, "農曆", "农历"))

	result := models.ComputationResult{
		Pillars: models.Pillars{
			Year:  translatePillar(field(pillars, "年柱")),
			Month: translatePillar(field(pillars, "月柱")),
			Day:   translatePillar(field(pillars, "日柱")),
			Hour:  translatePillar(field(pillars, "時柱", "时柱")),
		},
		ElementalCounts: translateCounts(object(field(root, "五行"))),
		ZodiacAnimal:    lookup(zodiacLabels, text(field(root, "生肖"))),
		BirthSign:       translateSign(text(field(root, "星座"))),
		LunarInfo:       translateLunar(lunar),
		DayStem:         Stem(text(field(root, "日主"))),
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err == nil {
		result.RawSource = compact.Bytes()
	}
	return result, nil
}

// TranslatePillar splits a two-symbol code into stem and branch and labels
// each independently. Codes of any other length are echoed as their label.
func TranslatePillar(code string) models.Pillar {
	p := models.Pillar{Raw: code, Label: code}
	runes := []rune(code)
	if len(runes) != 2 {
		return p
	}
	p.Stem = string(runes[0])
	p.Branch = string(runes[1])
	p.StemElement = stemElements[p.Stem]
	p.BranchElement = branchElements[p.Branch]
	p.Label = Stem(p.Stem) + Branch(p.Branch)
	return p
}

func translatePillar(raw json.RawMessage) *models.Pillar {
	code := text(raw)
	if code == "" {
		return nil
	}
	p := TranslatePillar(code)
	return &p
}

func translateCounts(tallies map[string]json.RawMessage) models.ElementCounts {
	counts := models.NewElementCounts()
	for symbol, raw := range tallies {
		e, ok := elementSymbols[symbol]
		if !ok {
			e, ok = englishElement(symbol)
		}
		if !ok {
			continue
		}
		counts[e] = count(raw)
	}
	return counts
}

func englishElement(s string) (models.Element, bool) {
	e := models.Element(strings.ToLower(s))
	for _, known := range models.Elements {
		if e == known {
			return e, true
		}
	}
	return "", false
}

// translateSign accepts the sign with or without the trailing 座.
func translateSign(s string) string {
	if l, ok := signLabels[s]; ok {
		return l
	}
	if trimmed := strings.TrimSuffix(s, "座"); trimmed != s {
		if l, ok := signLabels[trimmed]; ok {
			return l
		}
	}
	return s
}

func translateLunar(lunar map[string]json.RawMessage) models.LunarInfo {
	leap := boolean(field(lunar, "是否閏月", "是否闰月"))
	info := models.LunarInfo{
		Year:        intPtr(field(lunar, "農曆年", "农历年")),
		Month:       intPtr(field(lunar, "農曆月", "农历月")),
		Day:         intPtr(field(lunar, "農曆日", "农历日")),
		IsLeapMonth: leap,
		LeapLabel:   "평달",
		MonthName:   lookup(lunarMonthLabels, text(field(lunar, "農曆月名", "农历月名"))),
	}
	if leap {
		info.LeapLabel = "윤달"
	}
	return info
}

func field(obj map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return nil
}

func object(raw json.RawMessage) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	return obj
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// text returns a JSON string's value, or the raw JSON of any other value.
func text(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func number(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func count(raw json.RawMessage) int {
	f, ok := number(raw)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

func intPtr(raw json.RawMessage) *int {
	f, ok := number(raw)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func boolean(raw json.RawMessage) bool {
	if isNull(raw) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	if f, ok := number(raw); ok {
		return f != 0
	}
	switch strings.ToLower(text(raw)) {
	case "true", "yes", "是":
		return true
	}
	return false
}
