package leaderboard

import "sort"

// ScoreEntry is a player's best elapsed time for one day. Lower is better.
// PlayerName doubles as the uniqueness key within a day.
type ScoreEntry struct {
	PlayerName string
	Score      float64
}

// Standing is a ranked row. Rank is never stored; it is derived on every read.
type Standing struct {
	Rank       int
	PlayerName string
	Score      float64
}

// Rank sorts entries ascending by score and assigns 1-based positions.
// Name is the tiebreak so equal scores rank deterministically.
func Rank(entries []ScoreEntry) []Standing {
	sorted := append([]ScoreEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].PlayerName < sorted[j].PlayerName
	})

	out := make([]Standing, 0, len(sorted))
	for i, e := range sorted {
		out = append(out, Standing{
			Rank:       i + 1,
			PlayerName: e.PlayerName,
			Score:      e.Score,
		})
	}
	return out
}
