package leaderboard

import (
	"sort"

	"fitChallengeAPI/internal/profile"
	"fitChallengeAPI/internal/progress"
)

// Aggregate reduces the rows of one challenge into ranked per-user standings.
//
// Streaks depend on visiting each user's rows in ascending date order, so the
// rows are stably sorted by date first whatever order the caller supplied.
// A completion exactly one day after the previous completion extends the
// streak, any other completion restarts it at 1, and a row that is not
// completed leaves it untouched.
func Aggregate(rows []Row) []*LeaderboardEntry {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	entries := make([]*LeaderboardEntry, 0)
	byUser := make(map[string]*LeaderboardEntry)

	for _, row := range sorted {
		entry, ok := byUser[row.UserID]
		if !ok {
			entry = &LeaderboardEntry{
				UserID:    row.UserID,
				TotalDays: row.Duration,
				Profile: ProfileSummary{
					DisplayName: row.DisplayName,
					Gender:      row.Gender,
					AvatarID:    row.AvatarID,
					AvatarURL:   profile.AvatarURL(row.AvatarID, 0),
				},
			}
			byUser[row.UserID] = entry
			entries = append(entries, entry)
		}

		if !row.Completed {
			continue
		}

		day := progress.Day(row.Date)
		if entry.LastCompletedDate != nil && progress.DaysBetween(*entry.LastCompletedDate, day) == 1 {
			entry.Streak++
		} else {
			entry.Streak = 1
		}
		entry.CompletedCount++
		entry.LastCompletedDate = &day
	}

	for _, entry := range entries {
		entry.CompletionRate = entry.Rate()
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CompletionRate != entries[j].CompletionRate {
			return entries[i].CompletionRate > entries[j].CompletionRate
		}
		return entries[i].Streak > entries[j].Streak
	})

	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries
}
