package catalogRepo

import (
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// NormalizeDuration converts a symbolic duration key from stored
// configuration ("30_minutes", "2_hours", "one_day") into integer minutes.
// The engine only ever sees the normalized value. Unknown keys yield 0, which
// the engine rejects as a non-positive duration.
func NormalizeDuration(key string) int {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return 0
	}

	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		var ok bool
		n, ok = wordNumbers[parts[0]]
		if !ok {
			return 0
		}
	}
	if n <= 0 {
		return 0
	}

	switch strings.TrimSuffix(parts[1], "s") {
	case "minute":
		return n
	case "hour":
		return n * 60
	case "day":
		return n * minutesPerDay
	}
	return 0
}
