package argh

import (
	"bufio"
	"fmt"
	"strings"
)

// Negations partitions comma-separated tokens by their "-" prefix.
type Negations struct {
	Disabled []string
	Enabled  []string
}

func (n Negations) merge(o Negations) Negations {
	return Negations{
		Disabled: append(n.Disabled, o.Disabled...),
		Enabled:  append(n.Enabled, o.Enabled...),
	}
}

// Elements partitions comma-separated tokens by their "-" or "+" prefix;
// unprefixed tokens are neutral.
type Elements struct {
	Disabled []string
	Neutral  []string
	Enabled  []string
}

func (e Elements) merge(o Elements) Elements {
	return Elements{
		Disabled: append(e.Disabled, o.Disabled...),
		Neutral:  append(e.Neutral, o.Neutral...),
		Enabled:  append(e.Enabled, o.Enabled...),
	}
}

// splitCSV splits a raw value on commas. Empty tokens are dropped so
// trailing or doubled commas are harmless.
func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitNegations partitions tokens on a leading "-". A bare prefix with no
// token is rejected.
func splitNegations(tokens []string) (Negations, error) {
	var n Negations
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "-") {
			if len(tok) == 1 {
				return Negations{}, fmt.Errorf("%q: negation with no value", tok)
			}
			n.Disabled = append(n.Disabled, tok[1:])
		} else {
			n.Enabled = append(n.Enabled, tok)
		}
	}
	return n, nil
}

// splitElements partitions tokens on a leading "-" or "+"; everything else
// is neutral.
func splitElements(tokens []string) (Elements, error) {
	var e Elements
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "-"):
			if len(tok) == 1 {
				return Elements{}, fmt.Errorf("%q: negation with no value", tok)
			}
			e.Disabled = append(e.Disabled, tok[1:])
		case strings.HasPrefix(tok, "+"):
			if len(tok) == 1 {
				return Elements{}, fmt.Errorf("%q: enablement with no value", tok)
			}
			e.Enabled = append(e.Enabled, tok[1:])
		default:
			e.Neutral = append(e.Neutral, tok)
		}
	}
	return e, nil
}

// parseBoolLiteral maps the accepted textual booleans to their value.
// Matching is case-insensitive.
func parseBoolLiteral(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("value %q must be [y|yes|true|n|no|false]", raw)
	}
}

// readLines drains a reader into one trimmed token per non-blank line.
func readLines(r *bufio.Scanner) ([]string, error) {
	var lines []string
	for r.Scan() {
		if line := strings.TrimSpace(r.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
