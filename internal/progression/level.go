package progression

type Level string

const (
	LevelBeginner    Level = "Beginner"
	LevelRookie      Level = "Rookie"
	LevelApprentice  Level = "Apprentice"
	LevelMaster      Level = "Master"
	LevelGrandMaster Level = "Grand Master"
)

// Thresholds maps cumulative practice minutes to levels for one skill
// category. Minimums must be strictly increasing with level rank.
type Thresholds struct {
	Rookie      int
	Apprentice  int
	Master      int
	GrandMaster int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Rookie:      300,
		Apprentice:  1800,
		Master:      6000,
		GrandMaster: 18000,
	}
}

func (t Thresholds) Valid() bool {
	return t.Rookie > 0 &&
		t.Apprentice > t.Rookie &&
		t.Master > t.Apprentice &&
		t.GrandMaster > t.Master
}

// LevelFor returns the highest level whose minimum is at or below the given
// cumulative practice time.
func (t Thresholds) LevelFor(totalMinutes int) Level {
	switch {
	case totalMinutes >= t.GrandMaster:
		return LevelGrandMaster
	case totalMinutes >= t.Master:
		return LevelMaster
	case totalMinutes >= t.Apprentice:
		return LevelApprentice
	case totalMinutes >= t.Rookie:
		return LevelRookie
	default:
		return LevelBeginner
	}
}
