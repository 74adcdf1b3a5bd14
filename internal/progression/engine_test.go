package progression

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	guitarID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	pianoID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func day(n int) Date {
	return DateOf(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

func emptyCatalog() *Catalog {
	return NewCatalog(nil)
}

func noUnlocks() map[uuid.UUID]struct{} {
	return map[uuid.UUID]struct{}{}
}

func TestApply_FirstEvent(t *testing.T) {
	res := Apply(Record{}, Event{CategoryID: guitarID, Minutes: 30, Date: day(0)},
		DefaultThresholds(), emptyCatalog(), noUnlocks())

	assert.Equal(t, 1, res.Record.CurrentStreak)
	assert.Equal(t, 1, res.Record.LongestStreak)
	assert.Equal(t, 30, res.Record.TotalPracticeTime)
	assert.Equal(t, LevelBeginner, res.Record.Level)
	assert.False(t, res.TokenAwarded)
	assert.NotNil(t, res.Record.LastPracticeDate)
	assert.True(t, res.Record.LastPracticeDate.Equal(day(0)))
}

func TestApply_StreakTransitions(t *testing.T) {
	base := func() Record {
		d := day(10)
		return Record{
			CurrentStreak:     4,
			LongestStreak:     6,
			TotalPracticeTime: 290,
			LastPracticeDate:  &d,
			Level:             LevelBeginner,
		}
	}

	tests := []struct {
		name        string
		eventDay    Date
		wantStreak  int
		wantLongest int
		wantToken   bool
		wantTotal   int
		wantLevel   Level
	}{
		{
			name:        "same day accumulates time only",
			eventDay:    day(10),
			wantStreak:  4,
			wantLongest: 6,
			wantToken:   false,
			wantTotal:   310,
			wantLevel:   LevelRookie,
		},
		{
			name:        "next day extends streak and crosses token interval",
			eventDay:    day(11),
			wantStreak:  5,
			wantLongest: 6,
			wantToken:   true,
			wantTotal:   310,
			wantLevel:   LevelRookie,
		},
		{
			name:        "three day gap resets streak without token",
			eventDay:    day(13),
			wantStreak:  1,
			wantLongest: 6,
			wantToken:   false,
			wantTotal:   310,
			wantLevel:   LevelRookie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(base(), Event{CategoryID: guitarID, Minutes: 20, Date: tt.eventDay},
				DefaultThresholds(), emptyCatalog(), noUnlocks())

			assert.Equal(t, tt.wantStreak, res.Record.CurrentStreak)
			assert.Equal(t, tt.wantLongest, res.Record.LongestStreak)
			assert.Equal(t, tt.wantTotal, res.Record.TotalPracticeTime)
			assert.Equal(t, tt.wantLevel, res.Record.Level)
			assert.Equal(t, tt.wantToken, res.TokenAwarded)
			if tt.wantToken {
				assert.Equal(t, 1, res.Record.RedeemTokens)
			} else {
				assert.Equal(t, 0, res.Record.RedeemTokens)
			}
			assert.GreaterOrEqual(t, res.Record.LongestStreak, res.Record.CurrentStreak)
			assert.True(t, res.Record.LastPracticeDate.Equal(tt.eventDay))
		})
	}
}

func TestApply_TwoEventsSameDay(t *testing.T) {
	cat := emptyCatalog()
	th := DefaultThresholds()

	res := Apply(Record{}, Event{CategoryID: guitarID, Minutes: 25, Date: day(0)}, th, cat, noUnlocks())
	first := res.Record

	res = Apply(first, Event{CategoryID: guitarID, Minutes: 40, Date: day(0)}, th, cat, noUnlocks())

	assert.Equal(t, first.CurrentStreak, res.Record.CurrentStreak)
	assert.Equal(t, first.LongestStreak, res.Record.LongestStreak)
	assert.Equal(t, 65, res.Record.TotalPracticeTime)
	assert.False(t, res.TokenAwarded)
}

func TestApply_LongestStreakNeverBelowCurrent(t *testing.T) {
	rec := Record{}
	th := DefaultThresholds()
	cat := emptyCatalog()

	for i := 0; i < 12; i++ {
		res := Apply(rec, Event{CategoryID: guitarID, Minutes: 15, Date: day(i)}, th, cat, noUnlocks())
		rec = res.Record
		assert.GreaterOrEqual(t, rec.LongestStreak, rec.CurrentStreak)
	}
	assert.Equal(t, 12, rec.CurrentStreak)
	assert.Equal(t, 12, rec.LongestStreak)

	// break the run, longest survives
	res := Apply(rec, Event{CategoryID: guitarID, Minutes: 15, Date: day(20)}, th, cat, noUnlocks())
	assert.Equal(t, 1, res.Record.CurrentStreak)
	assert.Equal(t, 12, res.Record.LongestStreak)
}

func TestApply_TokensOnlyOnConsecutivePath(t *testing.T) {
	rec := Record{}
	th := DefaultThresholds()
	cat := emptyCatalog()
	tokens := 0

	for i := 0; i < 11; i++ {
		res := Apply(rec, Event{CategoryID: guitarID, Minutes: 15, Date: day(i)}, th, cat, noUnlocks())
		rec = res.Record
		if res.TokenAwarded {
			tokens++
		}
	}

	// days 5 and 10 of the run
	assert.Equal(t, 2, tokens)
	assert.Equal(t, 2, rec.RedeemTokens)

	// a same-day repeat at streak 11 must not award anything
	res := Apply(rec, Event{CategoryID: guitarID, Minutes: 15, Date: day(10)}, th, cat, noUnlocks())
	assert.False(t, res.TokenAwarded)
	assert.Equal(t, 2, res.Record.RedeemTokens)
}

func TestApply_LevelIdempotentOverPaths(t *testing.T) {
	th := DefaultThresholds()
	cat := emptyCatalog()

	// consecutive days vs. scattered days, same cumulative minutes
	consec := Record{}
	for i := 0; i < 4; i++ {
		consec = Apply(consec, Event{CategoryID: guitarID, Minutes: 100, Date: day(i)}, th, cat, noUnlocks()).Record
	}

	scattered := Record{}
	for i := 0; i < 4; i++ {
		scattered = Apply(scattered, Event{CategoryID: guitarID, Minutes: 100, Date: day(i * 7)}, th, cat, noUnlocks()).Record
	}

	assert.Equal(t, 400, consec.TotalPracticeTime)
	assert.Equal(t, consec.TotalPracticeTime, scattered.TotalPracticeTime)
	assert.Equal(t, consec.Level, scattered.Level)
	assert.Equal(t, LevelRookie, consec.Level)
}

func TestApply_AchievementUnlocks(t *testing.T) {
	streak3 := uuid.New()
	streak3Piano := uuid.New()
	time100 := uuid.New()

	cat := NewCatalog([]Rule{
		{ID: streak3, Type: TypeStreak, Threshold: 3},
		{ID: streak3Piano, Type: TypeStreak, Threshold: 3, SkillSpecific: true, SkillCategory: pianoID},
		{ID: time100, Type: TypePracticeTime, Threshold: 100},
	})
	th := DefaultThresholds()

	rec := Record{}
	var unlockedSoFar []uuid.UUID
	unlocked := map[uuid.UUID]struct{}{}

	for i := 0; i < 4; i++ {
		res := Apply(rec, Event{CategoryID: guitarID, Minutes: 20, Date: day(i)}, th, cat, unlocked)
		rec = res.Record
		for _, id := range res.NewUnlocks {
			_, dup := unlocked[id]
			assert.False(t, dup, "achievement unlocked twice")
			unlocked[id] = struct{}{}
			unlockedSoFar = append(unlockedSoFar, id)
		}
	}

	// streak hit 3 on day index 2, 100 minutes reached on day index 4
	assert.Contains(t, unlockedSoFar, streak3)
	assert.NotContains(t, unlockedSoFar, streak3Piano)
	assert.NotContains(t, unlockedSoFar, time100)

	res := Apply(rec, Event{CategoryID: guitarID, Minutes: 20, Date: day(4)}, th, cat, unlocked)
	assert.Contains(t, res.NewUnlocks, time100)
	assert.NotContains(t, res.NewUnlocks, streak3)
}

func TestThresholds_LevelFor(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		minutes int
		want    Level
	}{
		{0, LevelBeginner},
		{299, LevelBeginner},
		{300, LevelRookie},
		{1799, LevelRookie},
		{1800, LevelApprentice},
		{6000, LevelMaster},
		{17999, LevelMaster},
		{18000, LevelGrandMaster},
		{50000, LevelGrandMaster},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, th.LevelFor(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestDate_DaysSince(t *testing.T) {
	assert.Equal(t, 0, day(3).DaysSince(day(3)))
	assert.Equal(t, 1, day(4).DaysSince(day(3)))
	assert.Equal(t, 7, day(10).DaysSince(day(3)))
	assert.Equal(t, -2, day(1).DaysSince(day(3)))

	// time-of-day never leaks into the difference
	late := DateOf(time.Date(2025, time.March, 2, 23, 59, 0, 0, time.UTC))
	early := DateOf(time.Date(2025, time.March, 1, 0, 1, 0, 0, time.UTC))
	assert.Equal(t, 1, late.DaysSince(early))
}

func TestCatalog_Eligible(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	cat := NewCatalog([]Rule{
		{ID: a, Type: TypeStreak, Threshold: 5},
		{ID: b, Type: TypeStreak, Threshold: 10},
		{ID: c, Type: TypePracticeTime, Threshold: 5},
	})

	ids := cat.Eligible(TypeStreak, 7, guitarID, noUnlocks())
	assert.ElementsMatch(t, []uuid.UUID{a}, ids)

	// already-unlocked rules never come back
	ids = cat.Eligible(TypeStreak, 12, guitarID, map[uuid.UUID]struct{}{a: {}})
	assert.ElementsMatch(t, []uuid.UUID{b}, ids)

	// type mismatch is filtered before thresholds
	ids = cat.Eligible(TypeMilestones, 100, guitarID, noUnlocks())
	assert.Empty(t, ids)
}
