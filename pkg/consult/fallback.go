package consult

import (
	"fmt"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/analysis"
	"github.com/yedamo-ai/yedamo/pkg/models"
)

type phrasebook struct {
	greeting  string // formatted with the name
	anonymous string
	yearLead  string
	elements  map[models.Element]string
	balanced  string
	category  map[Category]string
	general   string
	closing   string
}

var phrasebooks = map[string]phrasebook{
	"ko": {
		greeting:  "%s님의 사주를 바탕으로 답변드리겠습니다.\n\n",
		anonymous: "고객",
		yearLead:  "올해는 ",
		elements: map[models.Element]string{
			models.Wood:  "목의 기운이 강해 새로운 시작과 성장이 돋보이는 한 해가 될 것입니다. ",
			models.Fire:  "화의 기운이 강해 활동적이고 적극적인 한 해가 될 것입니다. ",
			models.Earth: "토의 기운이 강해 기반을 다지고 신뢰를 쌓기 좋은 한 해입니다. ",
			models.Metal: "금의 기운으로 결단력과 추진력이 좋은 해입니다. ",
			models.Water: "수의 기운이 강해 지혜와 유연함이 빛나는 한 해가 될 것입니다. ",
		},
		balanced: "균형잡힌 오행으로 안정적인 운세를 보입니다. ",
		category: map[Category]string{
			CategoryCareer:  "직업운은 서두르기보다 준비된 기회를 잡을 때 좋은 흐름을 탑니다. ",
			CategoryLove:    "애정운은 솔직한 대화와 배려가 관계를 깊게 만들어 줄 것입니다. ",
			CategoryHealth:  "건강운은 규칙적인 생활과 충분한 휴식이 가장 큰 도움이 됩니다. ",
			CategoryFinance: "재물운은 무리한 투자보다 꾸준한 관리가 유리한 시기입니다. ",
		},
		general: "전반적으로 균형잡힌 사주를 가지고 계십니다. ",
		closing: "꾸준한 노력과 긍정적인 마음가짐이 좋은 결과를 가져다 줄 것입니다.",
	},
	"en": {
		greeting:  "Here is a reading based on %s's chart.\n\n",
		anonymous: "guest",
		yearLead:  "This year ",
		elements: map[models.Element]string{
			models.Wood:  "the strong wood energy favors new beginnings and growth. ",
			models.Fire:  "the strong fire energy makes it an active and assertive year. ",
			models.Earth: "the strong earth energy is good for building foundations and trust. ",
			models.Metal: "the metal energy brings decisiveness and drive. ",
			models.Water: "the strong water energy lets wisdom and flexibility shine. ",
		},
		balanced: "the balanced elements point to a stable fortune. ",
		category: map[Category]string{
			CategoryCareer:  "In your career, prepared opportunities work better than haste. ",
			CategoryLove:    "In love, honest conversation and care will deepen your relationships. ",
			CategoryHealth:  "For health, a regular routine and enough rest help the most. ",
			CategoryFinance: "For finances, steady management beats risky investment right now. ",
		},
		general: "Overall you have a well balanced chart. ",
		closing: "Steady effort and a positive attitude will bring good results.",
	},
}

// fortunePrecedence orders the element paragraphs of a fortune answer.
var fortunePrecedence = []models.Element{models.Fire, models.Metal}

func bookFor(lang string) phrasebook {
	if b, ok := phrasebooks[lang]; ok {
		return b
	}
	return phrasebooks["ko"]
}

// Fallback builds the rule-based answer used when no generated text is available.
func Fallback(rec models.Record, question, lang string) string {
	book := bookFor(lang)
	name := rec.Name
	if name == "" {
		name = book.anonymous
	}

	var b strings.Builder
	fmt.Fprintf(&b, book.greeting, name)

	if IsFortuneQuestion(question) {
		b.WriteString(book.yearLead)
		entries := rec.Strength
		if len(entries) == 0 {
			entries = analysis.Analyze(rec.Result.ElementalCounts)
		}
		strong := analysis.StrongFirst(entries, fortunePrecedence...)
		for _, e := range strong {
			b.WriteString(book.elements[e.Category])
		}
		if len(strong) == 0 {
			b.WriteString(book.balanced)
		}
	} else if p, ok := book.category[Analyze(question).Category]; ok {
		b.WriteString(p)
	} else {
		b.WriteString(book.general)
	}

	b.WriteString(book.closing)
	return b.String()
}
