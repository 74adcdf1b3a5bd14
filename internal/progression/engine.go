package progression

import "github.com/google/uuid"

// TokenRewardInterval is the streak length between redeem token grants.
const TokenRewardInterval = 5

// Record is the per-user, per-category progress aggregate.
type Record struct {
	CurrentStreak     int
	LongestStreak     int
	TotalPracticeTime int
	LastPracticeDate  *Date
	Level             Level
	RedeemTokens      int
}

// Result is the outcome of applying one practice event to a Record.
type Result struct {
	Record       Record
	NewUnlocks   []uuid.UUID
	TokenAwarded bool
}

// Event is a qualifying practice event. The caller validates it before the
// engine sees it: positive duration, existing category, duration at or above
// the category minimum.
type Event struct {
	CategoryID uuid.UUID
	Minutes    int
	Date       Date
}

// Apply computes the next Record for one practice event, plus the set of
// achievements to unlock. It is pure: the caller persists the returned state.
//
// Streak rules:
//   - first ever event starts the streak at 1
//   - a second event on the same calendar day leaves the streak untouched
//   - a gap of exactly one day extends the streak; every TokenRewardInterval-th
//     consecutive day grants a redeem token, only on this path
//   - any longer gap resets the streak to 1 (today still counts as day one)
//
// Level is always recomputed from total time, so reapplying the same event
// stream yields the same level regardless of path.
func Apply(rec Record, ev Event, th Thresholds, cat *Catalog, unlocked map[uuid.UUID]struct{}) Result {
	out := rec
	res := Result{}

	if rec.LastPracticeDate == nil {
		out.CurrentStreak = 1
		if out.LongestStreak < 1 {
			out.LongestStreak = 1
		}
	} else {
		switch diff := ev.Date.DaysSince(*rec.LastPracticeDate); {
		case diff == 0:
			// duplicate-day event, streak untouched
		case diff == 1:
			out.CurrentStreak++
			if out.CurrentStreak > out.LongestStreak {
				out.LongestStreak = out.CurrentStreak
			}
			res.NewUnlocks = append(res.NewUnlocks,
				cat.Eligible(TypeStreak, out.CurrentStreak, ev.CategoryID, unlocked)...)
			if out.CurrentStreak%TokenRewardInterval == 0 {
				out.RedeemTokens++
				res.TokenAwarded = true
			}
		default:
			out.CurrentStreak = 1
		}
	}

	out.TotalPracticeTime += ev.Minutes
	day := ev.Date
	out.LastPracticeDate = &day
	out.Level = th.LevelFor(out.TotalPracticeTime)

	res.NewUnlocks = append(res.NewUnlocks,
		cat.Eligible(TypePracticeTime, out.TotalPracticeTime, ev.CategoryID, unlocked)...)

	res.Record = out
	return res
}
