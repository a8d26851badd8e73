// Package datetimeinput реализует составное поле ввода даты и времени:
// дата, час (1..12), минуты и AM/PM редактируются по отдельности,
// а наружу всегда отдаётся одна строка YYYY-MM-DDTHH:mm.
//
// Input не хранит собственного состояния: все подполя вычисляются из Value
// при каждом обращении, а любое изменение сразу уходит в OnChange.
package datetimeinput

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/wellness-events/internal/lib/timefields"
)

// Field имя подполя.
type Field string

const (
	FieldDate     Field = "date"
	FieldHour     Field = "hour"
	FieldMinute   Field = "minute"
	FieldMeridiem Field = "meridiem"
)

// ErrUnknownField возвращается при попытке изменить неизвестное подполе.
var ErrUnknownField = errors.New("unknown date/time sub-field")

// ChangeFunc получает имя поля и новое составное значение.
type ChangeFunc func(name, value string)

// Input управляемое составное поле.
type Input struct {
	Name     string     // Имя поля, передаётся в OnChange
	Value    string     // Текущее значение YYYY-MM-DDTHH:mm или пустая строка
	Min      string     // Нижняя граница в полном формате, ограничивает только дату
	Disabled bool       // Флаг отрисовки, на поведение не влияет
	OnChange ChangeFunc // Вызывается при каждом изменении подполя
}

// View отрисовываемое состояние поля.
type View struct {
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	Date      string   `json:"date"`
	Hour      string   `json:"hour"`
	Minute    string   `json:"minute"`
	Meridiem  string   `json:"meridiem"`
	DateMin   string   `json:"date_min,omitempty"`
	Disabled  bool     `json:"disabled"`
	Hours     []string `json:"hours"`
	Meridiems []string `json:"meridiems"`
}

var (
	hourOptions     = buildHourOptions()
	meridiemOptions = []string{timefields.AM, timefields.PM}
)

// Render вычисляет подполя из текущего значения.
func (in Input) Render() View {
	f := timefields.Decompose(in.Value)
	return View{
		Name:      in.Name,
		Value:     in.Value,
		Date:      f.Date,
		Hour:      f.Hour,
		Minute:    f.Minute,
		Meridiem:  f.Meridiem,
		DateMin:   in.DateMin(),
		Disabled:  in.Disabled,
		Hours:     append([]string(nil), hourOptions...),
		Meridiems: append([]string(nil), meridiemOptions...),
	}
}

// DateMin возвращает часть даты из Min.
func (in Input) DateMin() string {
	date, _, _ := strings.Cut(in.Min, "T")
	return date
}

// ChangeDate меняет дату. Пустая дата очищает всё значение.
func (in Input) ChangeDate(date string) {
	if date == "" {
		in.emit("")
		return
	}
	f := timefields.Decompose(in.Value)
	in.emit(timefields.Recompose(date, f.Hour, f.Minute, f.Meridiem))
}

// ChangeHour меняет час (1..12).
func (in Input) ChangeHour(hour string) {
	f := timefields.Decompose(in.Value)
	in.emit(timefields.Recompose(f.Date, hour, f.Minute, f.Meridiem))
}

// ChangeMinute меняет минуты без проверки, промежуточный ввод допустим.
func (in Input) ChangeMinute(minute string) {
	f := timefields.Decompose(in.Value)
	in.emit(timefields.Recompose(f.Date, f.Hour, minute, f.Meridiem))
}

// ChangeMeridiem меняет AM/PM.
func (in Input) ChangeMeridiem(meridiem string) {
	f := timefields.Decompose(in.Value)
	in.emit(timefields.Recompose(f.Date, f.Hour, f.Minute, meridiem))
}

// BlurMinute вызывается при потере фокуса полем минут:
// минуты нормализуются и значение отправляется повторно.
func (in Input) BlurMinute() {
	f := timefields.Decompose(in.Value)
	minute := timefields.NormalizeMinuteOnCommit(f.Minute)
	in.emit(timefields.Recompose(f.Date, f.Hour, minute, f.Meridiem))
}

// Apply изменяет подполе по имени.
func (in Input) Apply(field Field, value string) error {
	switch field {
	case FieldDate:
		in.ChangeDate(value)
	case FieldHour:
		in.ChangeHour(value)
	case FieldMinute:
		in.ChangeMinute(value)
	case FieldMeridiem:
		in.ChangeMeridiem(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (in Input) emit(value string) {
	if in.OnChange != nil {
		in.OnChange(in.Name, value)
	}
}

func buildHourOptions() []string {
	out := make([]string, 0, 12)
	for h := 1; h <= 12; h++ {
		out = append(out, strconv.Itoa(h))
	}
	return out
}
