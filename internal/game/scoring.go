package game

import "time"

// gravityTable maps a level to cells-per-frame at 60 frames per second.
// Index 0 is unused; levels past 20 reuse the last entry.
var gravityTable = [21]float64{
	0,
	0.01667, 0.02, 0.025, 0.03, 0.035,
	0.045, 0.055, 0.07, 0.085, 0.1,
	0.115, 0.13, 0.15, 0.17, 0.19,
	0.21, 0.235, 0.255, 0.28, 0.3,
}

// scoreTable holds the base award for clearing 0-4 rows with one lock;
// four is the most a single piece can clear.
var scoreTable = [5]int{0, 40, 100, 300, 1200}

// LevelForLines derives the level from the cumulative cleared-row count.
func LevelForLines(lines int) int {
	return lines/10 + 1
}

// DropIntervalForLevel derives the time between automatic one-row descents.
func DropIntervalForLevel(level int) time.Duration {
	if level > 20 {
		level = 20
	}

	seconds := 1 / (gravityTable[level] * 60)

	return time.Duration(seconds * float64(time.Second))
}

// ScoreForClear is the award for clearing the given number of rows at the
// given level.
func ScoreForClear(cleared, level int) int {
	return scoreTable[cleared] * level
}
