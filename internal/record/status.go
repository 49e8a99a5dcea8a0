package record

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// statusPattern is the fallback for bodies the JSON decoder rejects.
var statusPattern = regexp.MustCompile(`"status"\s*:\s*(\d+)`)

// StatusExtractor reads the lifecycle status code from an event body.
type StatusExtractor struct {
	Normalizer BodyNormalizer
}

// ExtractStatus reads the status with the default normalizer.
func ExtractStatus(body string) (int, bool) {
	return StatusExtractor{Normalizer: DefaultNormalizer()}.Extract(body)
}

// Extract returns the status code of body.
//
// The normalized body is decoded as strict JSON first. When it decodes, the
// result is final: an object with a usable "status" yields it, anything else
// yields no status. Only when decoding fails is the body scanned for a
// `"status": <digits>` pattern, raw form first, then normalized.
func (x StatusExtractor) Extract(body string) (int, bool) {
	normalizer := x.Normalizer
	if normalizer == nil {
		normalizer = DefaultNormalizer()
	}
	cleaned := normalizer.Normalize(body)

	value, err := decodeStrict(cleaned)
	if err == nil {
		obj, ok := value.(map[string]any)
		if !ok {
			return 0, false
		}
		raw, present := obj["status"]
		if !present {
			return 0, false
		}
		return coerceStatus(raw)
	}

	for _, candidate := range []string{body, cleaned} {
		if m := statusPattern.FindStringSubmatch(candidate); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, true
			}
		}
	}

	return 0, false
}

// decodeStrict decodes exactly one JSON value, rejecting trailing content.
func decodeStrict(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// coerceStatus converts a decoded status value to an int. Numbers are
// truncated toward zero; strings contribute their leading integer ("8", " 8a").
func coerceStatus(v any) (int, bool) {
	switch s := v.(type) {
	case json.Number:
		if n, err := s.Int64(); err == nil {
			return intInRange(n)
		}
		f, err := s.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return intInRange(int64(math.Trunc(f)))
	case string:
		return leadingInt(s)
	}
	return 0, false
}

// leadingInt parses an optional sign and the digits that follow, ignoring
// leading whitespace and anything after the digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func intInRange(n int64) (int, bool) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int(n), true
}
