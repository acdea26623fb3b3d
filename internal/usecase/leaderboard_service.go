package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
	"github.com/rmachado/captcha-race/internal/domain/leaderboard"
	"github.com/rmachado/captcha-race/internal/platform/logging"
)

const maxPlayerNameLength = 20

// StandingsView is one full leaderboard read: ranked rows plus the metadata
// the scoreboard screen shows alongside them.
type StandingsView struct {
	Date             string
	Standings        []leaderboard.Standing
	TotalPlayers     int
	SecondsToNextDay int
}

// LeaderboardService owns ScoreEntry rows. Clients only ever propose a
// candidate score; rank is derived from a full re-sort on every read and is
// never stored.
type LeaderboardService struct {
	scores leaderboard.Repository
	logger *logging.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewLeaderboardService(scores leaderboard.Repository, logger *logging.Logger, loc *time.Location) *LeaderboardService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &LeaderboardService{
		scores: scores,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

func (s *LeaderboardService) TodayKey() string {
	return challenge.DateKey(s.now(), s.loc)
}

// SubmitScore records a player's elapsed time for the day and returns their
// 1-based rank. The stored entry only changes when the new score is strictly
// better; the comparison happens atomically in the repository.
func (s *LeaderboardService) SubmitScore(ctx context.Context, dateKey, playerName string, score float64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.SubmitScore")
	defer span.End()

	dateKey = strings.TrimSpace(dateKey)
	if !challenge.ValidDateKey(dateKey) {
		return 0, fmt.Errorf("%w: invalid date key %q", ErrInvalidInput, dateKey)
	}
	playerName, err := normalizePlayerName(playerName)
	if err != nil {
		return 0, err
	}
	if score <= 0 || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: score must be a positive number of seconds", ErrInvalidInput)
	}

	entry := leaderboard.ScoreEntry{PlayerName: playerName, Score: score}
	if err := s.scores.UpsertIfBetter(ctx, dateKey, entry); err != nil {
		return 0, fmt.Errorf("upsert score for %s: %w", playerName, err)
	}

	entries, err := s.scores.ListByDate(ctx, dateKey)
	if err != nil {
		return 0, fmt.Errorf("list scores for %s: %w", dateKey, err)
	}

	for _, row := range leaderboard.Rank(entries) {
		if row.PlayerName == playerName {
			s.logger.InfoContext(ctx, "score submitted",
				"date", dateKey,
				"player", playerName,
				"score", score,
				"rank", row.Rank,
			)
			return row.Rank, nil
		}
	}

	// Unreachable after a successful upsert unless the store lost the row.
	return 0, fmt.Errorf("%w: player %q missing after submit", ErrNotFound, playerName)
}

// Standings returns the full ranked list for a day; callers truncate for
// display.
func (s *LeaderboardService) Standings(ctx context.Context, dateKey string) (StandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	dateKey = strings.TrimSpace(dateKey)
	if !challenge.ValidDateKey(dateKey) {
		return StandingsView{}, fmt.Errorf("%w: invalid date key %q", ErrInvalidInput, dateKey)
	}

	entries, err := s.scores.ListByDate(ctx, dateKey)
	if err != nil {
		return StandingsView{}, fmt.Errorf("list scores for %s: %w", dateKey, err)
	}

	return StandingsView{
		Date:             dateKey,
		Standings:        leaderboard.Rank(entries),
		TotalPlayers:     len(entries),
		SecondsToNextDay: challenge.SecondsUntilNextDay(s.now(), s.loc),
	}, nil
}

func normalizePlayerName(playerName string) (string, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return "", fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if len(playerName) > maxPlayerNameLength {
		return "", fmt.Errorf("%w: player name exceeds %d characters", ErrInvalidInput, maxPlayerNameLength)
	}
	return playerName, nil
}
