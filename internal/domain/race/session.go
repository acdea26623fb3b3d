package race

import (
	"errors"
	"time"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
)

// CountdownStart is the number of ticks before a race begins.
const CountdownStart = 3

type State int

const (
	StateAwaitingChallenges State = iota
	StateCountdown
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingChallenges:
		return "awaiting_challenges"
	case StateCountdown:
		return "countdown"
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// SubmitResult is the outcome of one answer submission.
type SubmitResult int

const (
	SubmitRejected SubmitResult = iota
	SubmitIncorrect
	SubmitCorrect
	SubmitCompleted
)

var (
	ErrNotInProgress = errors.New("race is not in progress")
	ErrNoChallenges  = errors.New("challenge list is empty")
)

// Session is the race state machine:
//
//	AwaitingChallenges -> Countdown(n) -> InProgress(index) -> Complete
//
// Transitions are explicit and the type carries no transport or rendering
// concern. Session is not safe for concurrent use; callers serialize access.
type Session struct {
	state      State
	countdown  int
	index      int
	startTime  time.Time
	elapsed    float64
	challenges []challenge.Challenge
}

// NewSession starts in AwaitingChallenges until a non-empty challenge list is
// attached. A day with zero challenges stalls here indefinitely; that is the
// accepted behavior, not an error.
func NewSession() *Session {
	return &Session{
		state:     StateAwaitingChallenges,
		countdown: CountdownStart,
	}
}

// Attach moves the session into Countdown once challenges are available.
// Attaching an empty list keeps the session waiting.
func (s *Session) Attach(challenges []challenge.Challenge) error {
	if s.state != StateAwaitingChallenges {
		return errors.New("challenges already attached")
	}
	if len(challenges) == 0 {
		return ErrNoChallenges
	}
	s.challenges = append([]challenge.Challenge(nil), challenges...)
	s.state = StateCountdown
	return nil
}

// Tick advances the countdown by one step. On reaching zero the session
// enters InProgress at index 0 and records the race start time; the clock
// never resets afterwards. Ticks in any other state are no-ops.
func (s *Session) Tick(now time.Time) {
	if s.state != StateCountdown {
		return
	}
	s.countdown--
	if s.countdown <= 0 {
		s.countdown = 0
		s.state = StateInProgress
		s.index = 0
		s.startTime = now
	}
}

// Submit checks one answer against the current challenge.
//
// A correct answer on the last challenge completes the race and fixes the
// score as fractional seconds since the countdown finished. A correct answer
// elsewhere advances the index with the original start time preserved, so the
// score is cumulative across all challenges. An incorrect answer changes
// nothing and costs nothing beyond the running clock.
func (s *Session) Submit(answer string, now time.Time) (SubmitResult, error) {
	if s.state != StateInProgress {
		return SubmitRejected, ErrNotInProgress
	}

	current := s.challenges[s.index]
	if !current.Matches(answer) {
		return SubmitIncorrect, nil
	}

	if s.index == len(s.challenges)-1 {
		s.elapsed = now.Sub(s.startTime).Seconds()
		s.state = StateComplete
		return SubmitCompleted, nil
	}

	s.index++
	return SubmitCorrect, nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Countdown() int { return s.countdown }

// Index is the zero-based position of the current challenge.
func (s *Session) Index() int { return s.index }

func (s *Session) Total() int { return len(s.challenges) }

// Elapsed is the final score in seconds; zero until the race completes.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Current returns the challenge awaiting an answer.
func (s *Session) Current() (challenge.Challenge, bool) {
	if s.state != StateInProgress {
		return challenge.Challenge{}, false
	}
	return s.challenges[s.index], true
}
