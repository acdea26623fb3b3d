package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/rmachado/captcha-race/internal/domain/race"
	"github.com/rmachado/captcha-race/internal/platform/id"
	"github.com/rmachado/captcha-race/internal/platform/logging"
)

const (
	defaultRaceTickInterval = time.Second
	defaultRaceSessionTTL   = time.Hour
)

// RaceView is a transport-neutral snapshot of one race session.
type RaceView struct {
	ID              string
	PlayerName      string
	Date            string
	State           string
	Countdown       int
	ChallengeIndex  int
	ChallengeTotal  int
	CurrentImageURL string
	Score           float64
	Rank            int
}

// AnswerOutcome reports what one submission did.
type AnswerOutcome struct {
	Correct   bool
	Completed bool
	Score     float64
	Rank      int
}

type raceSession struct {
	id         string
	playerName string
	dateKey    string
	session    *race.Session
	createdAt  time.Time
	score      float64
	rank       int
}

// RaceService drives race sessions server-side. Each session captures its
// player name and date key once at creation, then advances on a once-per-tick
// clock: waiting sessions retry challenge attachment, counting sessions tick
// the countdown, completed sessions are dropped after their TTL.
type RaceService struct {
	challenges *ChallengeService
	board      *LeaderboardService
	ids        id.Generator
	logger     *logging.Logger
	now        func() time.Time
	tick       time.Duration
	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*raceSession

	tickers conc.WaitGroup
	closed  chan struct{}
	once    sync.Once
}

func NewRaceService(
	challenges *ChallengeService,
	board *LeaderboardService,
	ids id.Generator,
	logger *logging.Logger,
) *RaceService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &RaceService{
		challenges: challenges,
		board:      board,
		ids:        ids,
		logger:     logger,
		now:        time.Now,
		tick:       defaultRaceTickInterval,
		sessionTTL: defaultRaceSessionTTL,
		sessions:   make(map[string]*raceSession),
		closed:     make(chan struct{}),
	}
}

// SetTiming overrides the ticker interval and session TTL. Call it before
// any session is created.
func (s *RaceService) SetTiming(tick, sessionTTL time.Duration) {
	if tick > 0 {
		s.tick = tick
	}
	if sessionTTL > 0 {
		s.sessionTTL = sessionTTL
	}
}

// Create starts a race for today. If the day has no challenge set yet the
// session stays in AwaitingChallenges and keeps retrying on every tick; there
// is no timeout.
func (s *RaceService) Create(ctx context.Context, playerName string) (RaceView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.Create")
	defer span.End()

	playerName, err := normalizePlayerName(playerName)
	if err != nil {
		return RaceView{}, err
	}

	raceID, err := s.ids.NewID()
	if err != nil {
		return RaceView{}, fmt.Errorf("generate race id: %w", err)
	}

	dateKey := s.challenges.TodayKey()
	session := race.NewSession()

	challenges, err := s.challenges.ChallengesForDay(ctx, dateKey)
	if err != nil {
		return RaceView{}, err
	}
	if len(challenges) > 0 {
		if err := session.Attach(challenges); err != nil {
			return RaceView{}, fmt.Errorf("attach challenges: %w", err)
		}
	}

	rs := &raceSession{
		id:         raceID,
		playerName: playerName,
		dateKey:    dateKey,
		session:    session,
		createdAt:  s.now(),
	}

	s.mu.Lock()
	s.sessions[raceID] = rs
	s.mu.Unlock()

	s.tickers.Go(func() { s.runTicker(raceID) })

	s.logger.InfoContext(ctx, "race created",
		"race_id", raceID,
		"player", playerName,
		"date", dateKey,
		"state", session.State().String(),
	)

	s.mu.Lock()
	view := s.viewLocked(rs)
	s.mu.Unlock()

	return view, nil
}

func (s *RaceService) Get(ctx context.Context, raceID string) (RaceView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.RaceService.Get")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rs, ok := s.lookupLocked(raceID)
	if !ok {
		return RaceView{}, fmt.Errorf("%w: race %q", ErrNotFound, raceID)
	}
	return s.viewLocked(rs), nil
}

// lookupLocked resolves a race id, dropping the session when its TTL has
// passed so an expired id reads as not found. Callers must hold s.mu.
func (s *RaceService) lookupLocked(raceID string) (*raceSession, bool) {
	rs, ok := s.sessions[strings.TrimSpace(raceID)]
	if !ok {
		return nil, false
	}
	if s.now().Sub(rs.createdAt) > s.sessionTTL {
		delete(s.sessions, rs.id)
		return nil, false
	}
	return rs, true
}

// SubmitAnswer validates one answer for the session's current challenge. On
// race completion the final score is recorded on the leaderboard and the
// resulting rank returned.
func (s *RaceService) SubmitAnswer(ctx context.Context, raceID, answer string) (AnswerOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.SubmitAnswer")
	defer span.End()

	if strings.TrimSpace(answer) == "" {
		return AnswerOutcome{}, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	s.mu.Lock()
	rs, ok := s.lookupLocked(raceID)
	if !ok {
		s.mu.Unlock()
		return AnswerOutcome{}, fmt.Errorf("%w: race %q", ErrNotFound, raceID)
	}

	result, err := rs.session.Submit(answer, s.now())
	if err != nil {
		state := rs.session.State().String()
		s.mu.Unlock()
		return AnswerOutcome{}, fmt.Errorf("%w: race is %s", ErrInvalidInput, state)
	}

	switch result {
	case race.SubmitIncorrect:
		s.mu.Unlock()
		return AnswerOutcome{}, nil
	case race.SubmitCorrect:
		s.mu.Unlock()
		return AnswerOutcome{Correct: true}, nil
	}

	// Completed: score is fixed, record it outside the lock.
	score := rs.session.Elapsed()
	playerName, dateKey := rs.playerName, rs.dateKey
	s.mu.Unlock()

	rank, err := s.board.SubmitScore(ctx, dateKey, playerName, score)
	if err != nil {
		return AnswerOutcome{}, fmt.Errorf("record race score: %w", err)
	}

	s.mu.Lock()
	rs.score = score
	rs.rank = rank
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "race completed",
		"race_id", rs.id,
		"player", playerName,
		"date", dateKey,
		"score", score,
		"rank", rank,
	)

	return AnswerOutcome{Correct: true, Completed: true, Score: score, Rank: rank}, nil
}

// Close stops all session tickers and waits for them to exit.
func (s *RaceService) Close() {
	s.once.Do(func() { close(s.closed) })
	s.tickers.Wait()
}

func (s *RaceService) runTicker(raceID string) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			if s.advance(raceID) {
				return
			}
		}
	}
}

// advance moves one session forward a single step and reports whether the
// ticker can stop.
func (s *RaceService) advance(raceID string) bool {
	s.mu.Lock()
	rs, ok := s.sessions[raceID]
	if !ok {
		s.mu.Unlock()
		return true
	}

	if s.now().Sub(rs.createdAt) > s.sessionTTL {
		delete(s.sessions, raceID)
		s.mu.Unlock()
		s.logger.Info("race session expired", "race_id", raceID)
		return true
	}

	state := rs.session.State()
	s.mu.Unlock()

	switch state {
	case race.StateAwaitingChallenges:
		s.tryAttach(rs)
		return false
	case race.StateCountdown:
		s.mu.Lock()
		rs.session.Tick(s.now())
		s.mu.Unlock()
		return false
	default:
		// InProgress and Complete sessions stay resident for Get reads;
		// the ticker keeps running so the TTL check above drops them.
		return false
	}
}

func (s *RaceService) tryAttach(rs *raceSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	challenges, err := s.challenges.ChallengesForDay(ctx, rs.dateKey)
	if err != nil {
		s.logger.Warn("retry challenge fetch failed", "race_id", rs.id, "error", err)
		return
	}
	if len(challenges) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rs.session.State() != race.StateAwaitingChallenges {
		return
	}
	if err := rs.session.Attach(challenges); err != nil {
		s.logger.Warn("attach challenges failed", "race_id", rs.id, "error", err)
	}
}

// viewLocked builds a snapshot. Callers must hold s.mu.
func (s *RaceService) viewLocked(rs *raceSession) RaceView {
	view := RaceView{
		ID:             rs.id,
		PlayerName:     rs.playerName,
		Date:           rs.dateKey,
		State:          rs.session.State().String(),
		Countdown:      rs.session.Countdown(),
		ChallengeIndex: rs.session.Index(),
		ChallengeTotal: rs.session.Total(),
		Score:          rs.score,
		Rank:           rs.rank,
	}
	if current, ok := rs.session.Current(); ok {
		view.CurrentImageURL = current.ImageURL
	}
	return view
}
