// apps/go-solver/internal/session/session.go
//
// Interactive solving session: the cooperative loop between the solver and
// the human relaying guesses to the real game.
// Responsibilities:
//   - Per round: show the remaining-option count, the estimator's best guess
//     with its information score, and an abbreviated preview of the live set.
//   - Prompt for the guess actually played and the mask actually observed,
//     rejecting malformed input with a re-prompt (never coercing it).
//   - Filter the live set by each (guess, mask) pair until one candidate
//     remains (solved) or none do (contradictory feedback).
//
// The loop is strictly sequential and blocks on console input; there is
// exactly one input source and nothing else to do while waiting, so no
// asynchrony is involved. The universe Set is never mutated: filtering
// produces successively smaller snapshots.

package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/mask"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/solver"
)

// DefaultPreviewLimit caps how many live candidates each round lists.
const DefaultPreviewLimit = 25

// Step is one applied round of feedback.
type Step struct {
	Guess string
	Mask  mask.Mask
}

// Outcome summarizes a finished session.
type Outcome struct {
	Solved    bool
	Solution  string // set when Solved
	Guesses   int    // feedback rounds applied
	Remaining int    // live-set size at exit (1 when solved, 0 on contradiction)
	Elapsed   time.Duration
}

// Config carries the tunables. Rand is injectable so runs can be made
// reproducible with a fixed seed.
type Config struct {
	SampleSize   int
	PreviewLimit int
	Rand         *rand.Rand
	Log          zerolog.Logger
}

// Session owns the live candidate set and the feedback applied so far.
// It exists for one interactive run; nothing persists across runs here.
type Session struct {
	cfg   Config
	live  *candidates.Set
	steps []Step
	in    *bufio.Reader
	out   io.Writer
}

// New builds a session over an already-loaded universe.
func New(universe *candidates.Set, in io.Reader, out io.Writer, cfg Config) *Session {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = solver.DefaultSampleSize
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = DefaultPreviewLimit
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		cfg:  cfg,
		live: universe,
		in:   bufio.NewReader(in),
		out:  out,
	}
}

// Steps returns the (guess, mask) pairs applied so far.
func (s *Session) Steps() []Step { return s.steps }

// Run drives the loop to completion. It returns io.EOF if the input closes
// mid-session; contradictory feedback is not an error but an Outcome with
// Remaining == 0.
func (s *Session) Run() (Outcome, error) {
	start := time.Now()
	fmt.Fprintf(s.out, "Loaded %d options\n", s.live.Len())

	for {
		n := s.live.Len()
		if n == 0 {
			// Feedback is self-contradictory; almost always a transcribed
			// mask was wrong. Nothing to do but start over.
			fmt.Fprintln(s.out, "No options remain: the feedback entered contradicts the candidate list")
			return Outcome{Remaining: 0, Guesses: len(s.steps), Elapsed: time.Since(start)}, nil
		}

		sugg, err := solver.BestGuess(s.live, s.cfg.SampleSize, s.cfg.Rand)
		if err != nil {
			return Outcome{}, err
		}

		fmt.Fprintf(s.out, "\n%d options remaining\n", n)
		fmt.Fprintf(s.out, "Best guess: %s (information %.3f, from %d sampled over %d candidates)\n",
			sugg.Guess, sugg.Information, sugg.Sampled, sugg.Over)
		preview, truncated := s.live.Preview(s.cfg.PreviewLimit)
		for _, v := range preview {
			fmt.Fprintf(s.out, "- %s\n", v)
		}
		if truncated {
			fmt.Fprintln(s.out, "- ...")
		}

		if n == 1 {
			fmt.Fprintf(s.out, "Solved: %s\n", s.live.At(0))
			return Outcome{
				Solved:    true,
				Solution:  s.live.At(0),
				Guesses:   len(s.steps),
				Remaining: 1,
				Elapsed:   time.Since(start),
			}, nil
		}

		guess, err := s.promptGuess()
		if err != nil {
			return Outcome{Remaining: n, Guesses: len(s.steps), Elapsed: time.Since(start)}, err
		}
		observed, err := s.promptMask()
		if err != nil {
			return Outcome{Remaining: n, Guesses: len(s.steps), Elapsed: time.Since(start)}, err
		}

		live, err := s.live.Filter(guess, observed)
		if err != nil {
			// Guess and mask were validated against the set length above,
			// so this indicates a broken invariant, not user error.
			return Outcome{}, err
		}
		s.live = live
		s.steps = append(s.steps, Step{Guess: guess, Mask: observed})
		s.cfg.Log.Debug().
			Str("guess", guess).
			Stringer("mask", observed).
			Int("remaining", live.Len()).
			Msg("applied feedback")
	}
}

// promptGuess asks for the guess actually played until a valid one arrives.
func (s *Session) promptGuess() (string, error) {
	for {
		line, err := s.prompt("Enter your guess (you can use s for ² and c for ³)")
		if err != nil {
			return "", err
		}
		guess := mask.NormalizeGuess(line)
		if err := mask.ValidateGuess(guess, s.live.Length()); err != nil {
			fmt.Fprintf(s.out, "Invalid guess: %v\n", err)
			continue
		}
		return guess, nil
	}
}

// promptMask asks for the observed mask until a valid one arrives.
func (s *Session) promptMask() (mask.Mask, error) {
	for {
		line, err := s.prompt("Enter your mask (G or 2 for green; P or 1 for purple; B or 0 for black)")
		if err != nil {
			return nil, err
		}
		m, err := mask.Parse(line, s.live.Length())
		if err != nil {
			fmt.Fprintf(s.out, "Invalid mask: %v\n", err)
			continue
		}
		return m, nil
	}
}

func (s *Session) prompt(msg string) (string, error) {
	fmt.Fprintln(s.out, msg)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			// Final line without a trailing newline still counts.
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
