// Package timefields переводит значение даты-времени между двумя представлениями:
// локальным "настенным" временем, которое администратор редактирует в форме
// (YYYY-MM-DDTHH:mm), и каноническим UTC-моментом для хранения и передачи
// (YYYY-MM-DDTHH:mm:ssZ).
//
// Для редактирования значение раскладывается на отдельные поля (дата, час в
// 12-часовом формате, минуты, AM/PM) и собирается обратно при каждом изменении.
// Минуты при живом вводе не проверяются; нормализация выполняется отдельно,
// в момент потери фокуса.
package timefields

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// LocalLayout формат локального времени в форме редактирования.
	LocalLayout = "2006-01-02T15:04"
	// CanonicalLayout формат канонического UTC-момента.
	CanonicalLayout = "2006-01-02T15:04:05Z"

	// DefaultHour, DefaultMinute и DefaultMeridiem подставляются, когда значение пустое.
	DefaultHour     = "12"
	DefaultMinute   = "00"
	DefaultMeridiem = AM

	// AM и PM обозначают половины суток.
	AM = "AM"
	PM = "PM"
)

// Fields разложенное на части значение даты-времени.
// Всегда вычисляется из строки и нигде не хранится отдельно.
type Fields struct {
	Date     string `json:"date"`     // YYYY-MM-DD или пустая строка
	Hour     string `json:"hour"`     // 1..12
	Minute   string `json:"minute"`   // 0..2 цифры, при вводе может быть невалидным
	Meridiem string `json:"meridiem"` // AM | PM
}

// Decompose раскладывает значение вида YYYY-MM-DDTHH:mm на поля формы.
//
// Пустое значение даёт пустую дату и значения по умолчанию 12:00 AM.
// Нечисловой час молча оставляет значения по умолчанию. Минуты передаются как есть.
func Decompose(value string) Fields {
	f := Fields{
		Hour:     DefaultHour,
		Minute:   DefaultMinute,
		Meridiem: DefaultMeridiem,
	}
	if value == "" {
		return f
	}

	date, clock, hasClock := strings.Cut(value, "T")
	f.Date = date
	if !hasClock || clock == "" {
		return f
	}

	hourStr, minute, _ := strings.Cut(clock, ":")
	f.Minute = minute

	h, err := strconv.Atoi(hourStr)
	if err != nil || h < 0 || h > 23 {
		return f
	}
	f.Hour, f.Meridiem = to12(h)

	return f
}

// Recompose собирает поля формы обратно в строку YYYY-MM-DDTHH:mm.
//
// Пустая дата означает очистку всего значения. Час дополняется нулём до двух цифр,
// минуты остаются как есть, их дополнение выполняется в NormalizeMinuteOnCommit.
func Recompose(date, hour12, minute, meridiem string) string {
	if date == "" {
		return ""
	}

	h, err := strconv.Atoi(hour12)
	if err != nil || h < 1 || h > 12 {
		h = 12
	}

	return fmt.Sprintf("%sT%02d:%s", date, to24(h, meridiem), minute)
}

// NormalizeMinuteOnCommit приводит введённые минуты к двум цифрам в диапазоне 00..59.
// Вызывается при потере фокуса полем минут, а не на каждое нажатие клавиши.
func NormalizeMinuteOnCommit(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	m, err := strconv.Atoi(digits)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			m = 59
		} else {
			return DefaultMinute
		}
	}

	m = max(0, min(m, 59))
	return fmt.Sprintf("%02d", m)
}

// ToCanonical переводит локальное время формы в канонический UTC-момент
// с обнулёнными секундами и суффиксом Z.
func ToCanonical(local string, loc *time.Location) (string, error) {
	const op = "timefields.ToCanonical"
	t, err := time.ParseInLocation(LocalLayout, local, location(loc))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return FormatCanonical(t), nil
}

// FormatCanonical форматирует момент времени в каноническом виде.
func FormatCanonical(t time.Time) string {
	return t.UTC().Truncate(time.Minute).Format(CanonicalLayout)
}

// ParseCanonical разбирает канонический момент YYYY-MM-DDTHH:mm:ssZ.
func ParseCanonical(instant string) (time.Time, error) {
	const op = "timefields.ParseCanonical"
	t, err := time.Parse(CanonicalLayout, instant)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t.UTC(), nil
}

// FromCanonical переводит канонический UTC-момент в локальное время формы.
func FromCanonical(instant string, loc *time.Location) (string, error) {
	const op = "timefields.FromCanonical"
	t, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return FormatLocal(t, loc), nil
}

// FormatLocal форматирует момент времени как локальное время формы.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(LocalLayout)
}

func to12(h int) (string, string) {
	switch {
	case h == 0:
		return "12", AM
	case h == 12:
		return "12", PM
	case h > 12:
		return strconv.Itoa(h - 12), PM
	default:
		return strconv.Itoa(h), AM
	}
}

func to24(h int, meridiem string) int {
	if meridiem == PM && h < 12 {
		return h + 12
	}
	if meridiem == AM && h == 12 {
		return 0
	}
	return h
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
