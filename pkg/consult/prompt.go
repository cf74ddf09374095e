package consult

import (
	"fmt"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/analysis"
	"github.com/yedamo-ai/yedamo/pkg/models"
)

// BuildPrompt renders the consultation prompt for a record and question.
func BuildPrompt(rec models.Record, question string, qa QuestionAnalysis, lang string) string {
	name := rec.Name
	if name == "" {
		name = bookFor(lang).anonymous
	}
	entries := rec.Strength
	if len(entries) == 0 {
		entries = analysis.Analyze(rec.Result.ElementalCounts)
	}

	var b strings.Builder
	if lang == "en" {
		b.WriteString("You are a professional saju (four pillars) counselor. Answer the question using the chart below.\n\n")
		fmt.Fprintf(&b, "Client: %s\nQuestion: %s\nCategory: %s\n\n", name, question, qa.Category)
		b.WriteString("Four pillars:\n")
	} else {
		b.WriteString("당신은 전문 사주명리학 상담사입니다. 다음 사주 정보를 바탕으로 질문에 답변해주세요.\n\n")
		fmt.Fprintf(&b, "고객명: %s\n질문: %s\n카테고리: %s\n\n", name, question, qa.Category)
		b.WriteString("사주팔자:\n")
	}
	writePillar(&b, "year", rec.Result.Pillars.Year)
	writePillar(&b, "month", rec.Result.Pillars.Month)
	writePillar(&b, "day", rec.Result.Pillars.Day)
	writePillar(&b, "hour", rec.Result.Pillars.Hour)

	if lang == "en" {
		b.WriteString("\nElements:\n")
	} else {
		b.WriteString("\n오행 분석:\n")
	}
	for _, e := range entries {
		b.WriteString("- " + analysis.Summary(e) + "\n")
	}

	if lang == "en" {
		b.WriteString("\nRequirements:\n" +
			"1. Be professional yet easy to understand\n" +
			"2. Give concrete, practical advice\n" +
			"3. Keep a positive, constructive tone\n" +
			"4. Keep it to about 150 words\n\nAnswer:")
	} else {
		b.WriteString("\n답변 요구사항:\n" +
			"1. 전문적이면서도 이해하기 쉽게 설명\n" +
			"2. 구체적이고 실용적인 조언 제공\n" +
			"3. 긍정적이고 건설적인 방향으로 안내\n" +
			"4. 200-300자 내외로 간결하게 작성\n\n답변:")
	}
	return b.String()
}

func writePillar(b *strings.Builder, slot string, p *models.Pillar) {
	label := "-"
	if p != nil {
		label = p.Label
	}
	fmt.Fprintf(b, "- %s: %s\n", slot, label)
}
