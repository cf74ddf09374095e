package translate

import "github.com/yedamo-ai/yedamo/pkg/models"

// The tables below are the only symbol mappings in the module. They are
// never written after package initialization.

var stemLabels = map[string]string{
	"甲": "갑목",
	"乙": "을목",
	"丙": "병화",
	"丁": "정화",
	"戊": "무토",
	"己": "기토",
	"庚": "경금",
	"辛": "신금",
	"壬": "임수",
	"癸": "계수",
}

var branchLabels = map[string]string{
	"子": "자(쥐)",
	"丑": "축(소)",
	"寅": "인(호랑이)",
	"卯": "묘(토끼)",
	"辰": "진(용)",
	"巳": "사(뱀)",
	"午": "오(말)",
	"未": "미(양)",
	"申": "신(원숭이)",
	"酉": "유(닭)",
	"戌": "술(개)",
	"亥": "해(돼지)",
}

var stemElements = map[string]models.Element{
	"甲": models.Wood, "乙": models.Wood,
	"丙": models.Fire, "丁": models.Fire,
	"戊": models.Earth, "己": models.Earth,
	"庚": models.Metal, "辛": models.Metal,
	"壬": models.Water, "癸": models.Water,
}

var branchElements = map[string]models.Element{
	"寅": models.Wood, "卯": models.Wood,
	"巳": models.Fire, "午": models.Fire,
	"辰": models.Earth, "戌": models.Earth, "丑": models.Earth, "未": models.Earth,
	"申": models.Metal, "酉": models.Metal,
	"亥": models.Water, "子": models.Water,
}

// elementSymbols maps the calculator's tally keys to categories.
var elementSymbols = map[string]models.Element{
	"木": models.Wood,
	"火": models.Fire,
	"土": models.Earth,
	"金": models.Metal,
	"水": models.Water,
}

var elementLabels = map[models.Element]string{
	models.Wood:  "목(나무)",
	models.Fire:  "화(불)",
	models.Earth: "토(흙)",
	models.Metal: "금(쇠)",
	models.Water: "수(물)",
}

// zodiacLabels accepts both simplified and traditional forms.
var zodiacLabels = map[string]string{
	"鼠": "쥐",
	"牛": "소",
	"虎": "호랑이",
	"兔": "토끼",
	"龙": "용", "龍": "용",
	"蛇": "뱀",
	"马": "말", "馬": "말",
	"羊": "양",
	"猴": "원숭이",
	"鸡": "닭", "雞": "닭",
	"狗": "개",
	"猪": "돼지", "豬": "돼지",
}

var signLabels = map[string]string{
	"水瓶": "물병자리",
	"双鱼": "물고기자리", "雙魚": "물고기자리",
	"白羊": "양자리",
	"金牛": "황소자리",
	"双子": "쌍둥이자리", "雙子": "쌍둥이자리",
	"巨蟹": "게자리",
	"狮子": "사자자리", "獅子": "사자자리",
	"处女": "처녀자리", "處女": "처녀자리",
	"天秤": "천칭자리",
	"天蝎": "전갈자리", "天蠍": "전갈자리",
	"射手": "사수자리",
	"摩羯": "염소자리",
}

var lunarMonthLabels = map[string]string{
	"正月":  "정월",
	"二月":  "이월",
	"三月":  "삼월",
	"四月":  "사월",
	"五月":  "오월",
	"六月":  "유월",
	"七月":  "칠월",
	"八月":  "팔월",
	"九月":  "구월",
	"十月":  "시월",
	"十一月": "십일월", "冬月": "십일월",
	"十二月": "섣달", "腊月": "섣달", "臘月": "섣달",
}

// ElementLabel returns the display label of a category.
func ElementLabel(e models.Element) string {
	if l, ok := elementLabels[e]; ok {
		return l
	}
	return string(e)
}

// Stem returns the label of a heavenly stem symbol, or the symbol itself.
func Stem(s string) string { return lookup(stemLabels, s) }

// Branch returns the label of an earthly branch symbol, or the symbol itself.
func Branch(s string) string { return lookup(branchLabels, s) }

func lookup(table map[string]string, s string) string {
	if l, ok := table[s]; ok {
		return l
	}
	return s
}
