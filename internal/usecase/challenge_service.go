package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
	"github.com/rmachado/captcha-race/internal/platform/logging"
)

// ChallengeService is the read side of the daily challenge lifecycle: it
// fetches the DaySet for a date and rewrites stored bucket URLs into
// client-fetchable media URLs.
type ChallengeService struct {
	days          challenge.Repository
	logger        *logging.Logger
	mediaBaseURL  string
	displayWidth  int
	displayHeight int
	loc           *time.Location
	now           func() time.Time
}

func NewChallengeService(
	days challenge.Repository,
	logger *logging.Logger,
	mediaBaseURL string,
	displayWidth, displayHeight int,
	loc *time.Location,
) *ChallengeService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if displayWidth <= 0 {
		displayWidth = 300
	}
	if displayHeight <= 0 {
		displayHeight = 120
	}

	return &ChallengeService{
		days:          days,
		logger:        logger,
		mediaBaseURL:  strings.TrimRight(strings.TrimSpace(mediaBaseURL), "/"),
		displayWidth:  displayWidth,
		displayHeight: displayHeight,
		loc:           loc,
		now:           time.Now,
	}
}

// TodayKey is the current date key in the canonical game timezone. Callers
// compute it once per operation and pass it along.
func (s *ChallengeService) TodayKey() string {
	return challenge.DateKey(s.now(), s.loc)
}

// TodaysChallenges returns today's ordered challenge list. An absent DaySet
// yields an empty slice, meaning "no race available today".
func (s *ChallengeService) TodaysChallenges(ctx context.Context) ([]challenge.Challenge, error) {
	return s.ChallengesForDay(ctx, s.TodayKey())
}

func (s *ChallengeService) ChallengesForDay(ctx context.Context, dateKey string) ([]challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.ChallengesForDay")
	defer span.End()

	dateKey = strings.TrimSpace(dateKey)
	if !challenge.ValidDateKey(dateKey) {
		return nil, fmt.Errorf("%w: invalid date key %q", ErrInvalidInput, dateKey)
	}

	set, exists, err := s.days.GetByDate(ctx, dateKey)
	if err != nil {
		return nil, fmt.Errorf("get day set %s: %w", dateKey, err)
	}
	if !exists {
		s.logger.InfoContext(ctx, "no challenge set for day", "date", dateKey)
		return []challenge.Challenge{}, nil
	}

	out := make([]challenge.Challenge, 0, len(set.Captchas))
	for _, c := range set.Captchas {
		c.ImageURL = s.mediaURL(c.ImageURL)
		out = append(out, c)
	}

	return out, nil
}

// mediaURL translates the generator's bucket URL into the media-serving URL
// clients can fetch. The two schemes address the same object; only the
// filename after the captchas path segment carries over, plus fixed display
// size parameters.
func (s *ChallengeService) mediaURL(stored string) string {
	marker := "/" + strings.TrimSuffix(blobPathPrefix, "/") + "/"
	_, fileName, found := strings.Cut(stored, marker)
	if !found || fileName == "" {
		return stored
	}

	query := url.Values{}
	query.Set("alt", "media")
	query.Set("width", strconv.Itoa(s.displayWidth))
	query.Set("height", strconv.Itoa(s.displayHeight))

	return s.mediaBaseURL + "/" + url.PathEscape(blobPathPrefix+fileName) + "?" + query.Encode()
}
