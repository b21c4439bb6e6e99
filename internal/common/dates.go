package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical record date format used throughout tickerd.
const DateLayout = "2006-01-02"

// RocDate converts an ISO date (yyyy-MM-dd) to the ROC-calendar form
// yyy/MM/dd used by TPEx query parameters (ROC year = Gregorian − 1911).
func RocDate(isoDate string) (string, error) {
	t, err := time.Parse(DateLayout, isoDate)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", isoDate, err)
	}
	return fmt.Sprintf("%d/%02d/%02d", t.Year()-1911, t.Month(), t.Day()), nil
}

// ParseRocDate converts a ROC-calendar date (yyy/MM/dd, with tolerance
// for surrounding whitespace) to the canonical ISO form.
func ParseRocDate(rocDate string) (string, error) {
	parts := strings.Split(strings.TrimSpace(rocDate), "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid roc date %q", rocDate)
	}

	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("invalid roc year in %q: %w", rocDate, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("invalid roc month in %q: %w", rocDate, err)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return "", fmt.Errorf("invalid roc day in %q: %w", rocDate, err)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year+1911, month, day), nil
}

// CompactDate converts an ISO date to the yyyyMMdd form used by TWSE
// query parameters.
func CompactDate(isoDate string) (string, error) {
	t, err := time.Parse(DateLayout, isoDate)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", isoDate, err)
	}
	return t.Format("20060102"), nil
}

// SlashDate converts an ISO date to the yyyy/MM/dd form used by TAIFEX
// form posts.
func SlashDate(isoDate string) (string, error) {
	t, err := time.Parse(DateLayout, isoDate)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", isoDate, err)
	}
	return t.Format("2006/01/02"), nil
}
