package resolve_availability

import (
	"sort"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// mergeRanges сортирует интервалы по началу и склеивает пересекающиеся
// и граничащие. Результат - точное объединение входных интервалов.
func mergeRanges(ranges []domain.TimeRange) []domain.TimeRange {
	if len(ranges) == 0 {
		return []domain.TimeRange{}
	}

	sorted := make([]domain.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []domain.TimeRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		// Сортировка гарантирует last.Start <= r.Start: склеиваем
		// пересекающиеся и граничащие
		if last.Touches(r) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	return merged
}

// subtractInterval вычитает hole из каждого интервала.
// В зависимости от перекрытия интервал дает ноль, один или два куска.
func subtractInterval(ranges []domain.TimeRange, hole domain.TimeRange) []domain.TimeRange {
	if hole.IsEmpty() {
		return ranges
	}

	result := make([]domain.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if !r.Overlaps(hole) {
			result = append(result, r)
			continue
		}

		// Кусок до дыры
		if r.Start.Before(hole.Start) {
			result = append(result, domain.TimeRange{Start: r.Start, End: hole.Start})
		}
		// Кусок после дыры
		if r.End.After(hole.End) {
			result = append(result, domain.TimeRange{Start: hole.End, End: r.End})
		}
	}

	return result
}

// templateRangesForDay разворачивает недельные шаблоны в абсолютные
// интервалы для конкретной даты
func templateRangesForDay(
	templates []*domain.AvailabilityTemplate,
	date time.Time,
	loc *time.Location,
) ([]domain.TimeRange, error) {
	ranges := make([]domain.TimeRange, 0)

	for _, tpl := range templates {
		if tpl.Weekday != date.Weekday() {
			continue
		}

		start, err := tpl.StartTime.At(date, loc)
		if err != nil {
			return nil, err
		}
		end, err := tpl.EndTime.At(date, loc)
		if err != nil {
			return nil, err
		}

		r := domain.TimeRange{Start: start, End: end}
		if r.IsEmpty() {
			continue
		}
		ranges = append(ranges, r)
	}

	return mergeRanges(ranges), nil
}

// applyExceptions применяет дневные исключения к интервалам строго
// в порядке их создания (excs приходят отсортированными по id).
// Порядок значим: extra-исключение, созданное после full-day,
// снова открывает время в этот день.
func applyExceptions(
	ranges []domain.TimeRange,
	excs []*domain.AvailabilityException,
	date time.Time,
	loc *time.Location,
) ([]domain.TimeRange, error) {
	for _, exc := range excs {
		switch exc.Type {
		case domain.ExceptionFullDayUnavailable:
			ranges = []domain.TimeRange{}

		case domain.ExceptionPartialUnavailable:
			hole, ok, err := exceptionRange(exc, date, loc)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			ranges = subtractInterval(ranges, hole)

		case domain.ExceptionExtraAvailability:
			extra, ok, err := exceptionRange(exc, date, loc)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			ranges = mergeRanges(append(ranges, extra))
		}
	}

	return ranges, nil
}

// exceptionRange возвращает абсолютный интервал исключения.
// Исключения без времени начала или конца пропускаются.
func exceptionRange(exc *domain.AvailabilityException, date time.Time, loc *time.Location) (domain.TimeRange, bool, error) {
	if exc.StartTime == nil || exc.EndTime == nil {
		return domain.TimeRange{}, false, nil
	}

	start, err := exc.StartTime.At(date, loc)
	if err != nil {
		return domain.TimeRange{}, false, err
	}
	end, err := exc.EndTime.At(date, loc)
	if err != nil {
		return domain.TimeRange{}, false, err
	}

	r := domain.TimeRange{Start: start, End: end}
	if r.IsEmpty() {
		return domain.TimeRange{}, false, nil
	}
	return r, true, nil
}

// subtractSessions вычитает занятые сессиями интервалы тем же приемом
// разрезания вокруг дыры. Ширина сессии фиксированная - 60 минут.
func subtractSessions(ranges []domain.TimeRange, sessions []*domain.Session) []domain.TimeRange {
	for _, s := range sessions {
		if !s.IsActive() {
			continue
		}
		hole := domain.TimeRange{
			Start: s.StartAt,
			End:   s.StartAt.Add(domain.SessionDurationMinutes * time.Minute),
		}
		ranges = subtractInterval(ranges, hole)
	}
	return ranges
}

// resolveDay собирает свободные интервалы одного календарного дня:
// шаблоны -> merge -> исключения в порядке создания -> вычитание сессий.
func resolveDay(
	date time.Time,
	templates []*domain.AvailabilityTemplate,
	excs []*domain.AvailabilityException,
	sessions []*domain.Session,
	loc *time.Location,
) ([]domain.TimeRange, error) {
	ranges, err := templateRangesForDay(templates, date, loc)
	if err != nil {
		return nil, err
	}

	ranges, err = applyExceptions(ranges, excs, date, loc)
	if err != nil {
		return nil, err
	}

	ranges = subtractSessions(ranges, sessions)

	// Отбрасываем выродившиеся интервалы
	result := make([]domain.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if !r.IsEmpty() {
			result = append(result, r)
		}
	}

	return result, nil
}

// sameDay проверяет, что два момента относятся к одному календарному дню
// в локации loc
func sameDay(a, b time.Time, loc *time.Location) bool {
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// sameCalendarDate сравнивает календарные даты без приведения локаций.
// DATE колонки приходят из драйвера как полночь UTC, и переводить их
// в локацию тренера нельзя - дата уехала бы на соседний день.
func sameCalendarDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// asUTCDate возвращает календарную дату момента t как полночь UTC.
// Используется для сравнения с DATE колонками.
func asUTCDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayStart возвращает полночь календарного дня момента t в локации loc
func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
