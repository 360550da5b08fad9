package resolve_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	"github.com/m1shk4/PTS-BookingService/pkg/ptr"
	"github.com/m1shk4/PTS-BookingService/pkg/types"
)

var testLoc = time.UTC

// testDate - вторник
var testDate = time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2025, 11, 4, hour, min, 0, 0, time.UTC)
}

func rng(startHour, startMin, endHour, endMin int) domain.TimeRange {
	return domain.TimeRange{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func template(weekday time.Weekday, start, end string) *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		TrainerID: 1,
		Weekday:   weekday,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func exception(excType domain.ExceptionType, start, end *string) *domain.AvailabilityException {
	exc := &domain.AvailabilityException{
		TrainerID: 1,
		Date:      testDate,
		Type:      excType,
	}
	if start != nil {
		exc.StartTime = ptr.Ptr(types.TimeString(*start))
	}
	if end != nil {
		exc.EndTime = ptr.Ptr(types.TimeString(*end))
	}
	return exc
}

func TestMergeRanges_UnionOfOverlapping(t *testing.T) {
	ranges := []domain.TimeRange{
		rng(9, 0, 12, 0),
		rng(11, 0, 14, 0),
		rng(16, 0, 18, 0),
	}

	merged := mergeRanges(ranges)

	require.Len(t, merged, 2)
	assert.Equal(t, rng(9, 0, 14, 0), merged[0])
	assert.Equal(t, rng(16, 0, 18, 0), merged[1])
}

func TestMergeRanges_CommutativeUnderReordering(t *testing.T) {
	a := []domain.TimeRange{rng(9, 0, 12, 0), rng(11, 0, 14, 0), rng(13, 30, 15, 0)}
	b := []domain.TimeRange{rng(13, 30, 15, 0), rng(11, 0, 14, 0), rng(9, 0, 12, 0)}

	assert.Equal(t, mergeRanges(a), mergeRanges(b))
}

func TestMergeRanges_AdjacentRangesCoalesce(t *testing.T) {
	merged := mergeRanges([]domain.TimeRange{rng(9, 0, 10, 0), rng(10, 0, 11, 0)})

	require.Len(t, merged, 1)
	assert.Equal(t, rng(9, 0, 11, 0), merged[0])
}

func TestSubtractInterval_SplitsAroundHole(t *testing.T) {
	result := subtractInterval([]domain.TimeRange{rng(9, 0, 17, 0)}, rng(11, 0, 12, 0))

	require.Len(t, result, 2)
	assert.Equal(t, rng(9, 0, 11, 0), result[0])
	assert.Equal(t, rng(12, 0, 17, 0), result[1])
}

func TestSubtractInterval_NoOverlapKeepsRange(t *testing.T) {
	result := subtractInterval([]domain.TimeRange{rng(9, 0, 10, 0)}, rng(12, 0, 13, 0))

	require.Len(t, result, 1)
	assert.Equal(t, rng(9, 0, 10, 0), result[0])
}

func TestSubtractInterval_HoleSwallowsRange(t *testing.T) {
	result := subtractInterval([]domain.TimeRange{rng(10, 0, 11, 0)}, rng(9, 0, 12, 0))

	assert.Empty(t, result)
}

func TestResolveDay_FullDayExceptionClearsEverything(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{
		template(time.Tuesday, "09:00", "17:00"),
		template(time.Tuesday, "18:00", "20:00"),
	}
	excs := []*domain.AvailabilityException{
		exception(domain.ExceptionFullDayUnavailable, nil, nil),
	}

	result, err := resolveDay(testDate, templates, excs, nil, testLoc)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestResolveDay_PartialExceptionSplitsTemplate(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{
		template(time.Tuesday, "09:00", "17:00"),
	}
	excs := []*domain.AvailabilityException{
		exception(domain.ExceptionPartialUnavailable, ptr.Ptr("11:00"), ptr.Ptr("12:00")),
	}

	result, err := resolveDay(testDate, templates, excs, nil, testLoc)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, rng(9, 0, 11, 0), result[0])
	assert.Equal(t, rng(12, 0, 17, 0), result[1])
}

func TestResolveDay_ExtraAvailabilityAfterFullDayReopens(t *testing.T) {
	// Исключения применяются в порядке создания: extra после full-day
	// снова открывает время
	templates := []*domain.AvailabilityTemplate{
		template(time.Tuesday, "09:00", "17:00"),
	}
	excs := []*domain.AvailabilityException{
		exception(domain.ExceptionFullDayUnavailable, nil, nil),
		exception(domain.ExceptionExtraAvailability, ptr.Ptr("14:00"), ptr.Ptr("16:00")),
	}

	result, err := resolveDay(testDate, templates, excs, nil, testLoc)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, rng(14, 0, 16, 0), result[0])
}

func TestResolveDay_BookedSessionPunchesHole(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{
		template(time.Tuesday, "09:00", "17:00"),
	}
	sessions := []*domain.Session{
		{TrainerID: 1, StartAt: at(10, 0), DurationMinutes: 60, Status: domain.StatusScheduled},
	}

	result, err := resolveDay(testDate, templates, nil, sessions, testLoc)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, rng(9, 0, 10, 0), result[0])
	assert.Equal(t, rng(11, 0, 17, 0), result[1])
}

func TestResolveDay_CancelledSessionDoesNotBlock(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{
		template(time.Tuesday, "09:00", "12:00"),
	}
	sessions := []*domain.Session{
		{TrainerID: 1, StartAt: at(10, 0), DurationMinutes: 60, Status: domain.StatusCancelledEarly},
	}

	result, err := resolveDay(testDate, templates, nil, sessions, testLoc)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, rng(9, 0, 12, 0), result[0])
}

func TestResolveDay_OtherWeekdayTemplateIgnored(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{
		template(time.Monday, "09:00", "17:00"),
	}

	result, err := resolveDay(testDate, templates, nil, nil, testLoc)

	require.NoError(t, err)
	assert.Empty(t, result)
}
