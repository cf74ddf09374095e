package saju

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

const (
	minYear = 1900
	maxYear = 2100

	defaultGender = "male"
)

// regionTimezones resolves the coarse birth regions offered by clients.
var regionTimezones = map[string]string{
	"korea":    "Asia/Seoul",
	"usa_east": "America/New_York",
	"usa_west": "America/Los_Angeles",
	"china":    "Asia/Shanghai",
	"japan":    "Asia/Tokyo",
}

// RegionTimezone returns the IANA timezone for a birth region.
func RegionTimezone(region string) (string, bool) {
	tz, ok := regionTimezones[strings.ToLower(strings.TrimSpace(region))]
	return tz, ok
}

// ParseBirth validates the date and time of req. Gender and timezone are
// copied as given; defaults are applied by the caller.
func ParseBirth(req ComputeRequest) (models.BirthInfo, error) {
	var b models.BirthInfo
	if strings.TrimSpace(req.BirthDate) == "" || strings.TrimSpace(req.BirthTime) == "" {
		return b, fmt.Errorf("%w: birthDate and birthTime are required", models.ErrValidation)
	}

	date, err := splitInts(req.BirthDate, "-", 3)
	if err != nil {
		return b, fmt.Errorf("%w: birthDate %q: want YYYY-MM-DD", models.ErrValidation, req.BirthDate)
	}
	clock, err := splitInts(req.BirthTime, ":", 2)
	if err != nil {
		return b, fmt.Errorf("%w: birthTime %q: want HH:MM", models.ErrValidation, req.BirthTime)
	}

	b = models.BirthInfo{
		Year:     date[0],
		Month:    date[1],
		Day:      date[2],
		Hour:     clock[0],
		Minute:   clock[1],
		Gender:   req.Gender,
		IsLunar:  req.IsLunar,
		Timezone: req.Timezone,
	}
	switch {
	case b.Year < minYear || b.Year > maxYear:
		return b, fmt.Errorf("%w: year %d outside %d-%d", models.ErrValidation, b.Year, minYear, maxYear)
	case b.Month < 1 || b.Month > 12:
		return b, fmt.Errorf("%w: month %d outside 1-12", models.ErrValidation, b.Month)
	case b.Day < 1 || b.Day > 31:
		return b, fmt.Errorf("%w: day %d outside 1-31", models.ErrValidation, b.Day)
	case b.Hour < 0 || b.Hour > 23:
		return b, fmt.Errorf("%w: hour %d outside 0-23", models.ErrValidation, b.Hour)
	case b.Minute < 0 || b.Minute > 59:
		return b, fmt.Errorf("%w: minute %d outside 0-59", models.ErrValidation, b.Minute)
	}
	return b, nil
}

func splitInts(s, sep string, n int) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != n {
		return nil, fmt.Errorf("want %d fields, got %d", n, len(parts))
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
