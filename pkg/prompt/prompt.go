package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fadedpez/angeleyes/internal/types"
)

// DefaultMaxRetries is how many answers are accepted before giving up
const DefaultMaxRetries = 3

// Asker poses a question to whoever is on the other side of the terminal
// and returns their raw answer.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Parser validates and converts a raw answer
type Parser[T any] func(input string) (T, error)

// Ask poses a question and parses the answer, re-asking on invalid input
// up to maxRetries attempts. Exhausting the retries returns a
// RETRIES_EXHAUSTED error wrapping the last validation failure.
func Ask[T any](ctx context.Context, asker Asker, question string, maxRetries int, parse Parser[T]) (T, error) {
	var zero T

	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		raw, err := asker.Ask(ctx, question)
		if err != nil {
			return zero, fmt.Errorf("reading answer: %w", err)
		}

		value, err := parse(strings.TrimSpace(raw))
		if err == nil {
			return value, nil
		}
		lastErr = err
	}

	return zero, types.WrapError(types.ErrRetriesExhausted,
		fmt.Sprintf("no valid answer after %d attempts", maxRetries), lastErr)
}

// YesNo accepts y/yes/n/no in any case
func YesNo(input string) (bool, error) {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes or no, got %q", input)
	}
}

// Cents parses a dollar amount like "5", "5.50" or "$5.50" into cents.
// Negative amounts are rejected; zero is allowed so a zero answer can
// carry meaning (e.g. cashing out).
func Cents(input string) (int64, error) {
	input = strings.TrimPrefix(input, "$")
	if input == "" {
		return 0, fmt.Errorf("expected a dollar amount")
	}

	dollars := input
	centsPart := "0"
	if i := strings.Index(input, "."); i >= 0 {
		dollars = input[:i]
		centsPart = input[i+1:]
		if len(centsPart) != 2 {
			return 0, fmt.Errorf("expected two decimal places, got %q", input)
		}
	}
	if dollars == "" {
		dollars = "0"
	}

	d, err := strconv.ParseInt(dollars, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a dollar amount, got %q", input)
	}
	c, err := strconv.ParseInt(centsPart, 10, 64)
	if err != nil || c < 0 {
		return 0, fmt.Errorf("expected a dollar amount, got %q", input)
	}

	if d < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}

	return d*100 + c, nil
}

// OneOf builds a parser accepting exactly one of the given options,
// case-insensitively. Single-letter shorthand for an option's first
// letter is accepted when it is unambiguous.
func OneOf(options []string) Parser[string] {
	return func(input string) (string, error) {
		lowered := strings.ToLower(input)

		for _, option := range options {
			if strings.ToLower(option) == lowered {
				return option, nil
			}
		}

		if len(lowered) == 1 {
			match := ""
			for _, option := range options {
				if strings.HasPrefix(strings.ToLower(option), lowered) {
					if match != "" {
						return "", fmt.Errorf("%q is ambiguous", input)
					}
					match = option
				}
			}
			if match != "" {
				return match, nil
			}
		}

		return "", fmt.Errorf("expected one of %s, got %q", strings.Join(options, ", "), input)
	}
}
