package erd

import (
	"fmt"
	"strconv"
	"strings"
)

// parsePairs splits a "k=v,k=v" block. Each pair splits on its first '='.
func parsePairs(text string) map[string]string {
	pairs := make(map[string]string)
	text = strings.TrimSpace(text)
	if text == "" {
		return pairs
	}
	for _, item := range strings.Split(text, ",") {
		key, value, _ := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs
}

// pairReader pulls typed values out of a parsed pair map and remembers the
// first failure.
type pairReader struct {
	pairs map[string]string
	err   error
}

func readPairs(text string) *pairReader {
	return &pairReader{pairs: parsePairs(text)}
}

func (r *pairReader) str(key string) string {
	v, ok := r.pairs[key]
	if !ok && r.err == nil {
		r.err = fmt.Errorf("missing %q", key)
	}
	return v
}

func (r *pairReader) int(key string) int {
	s := r.str(key)
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
	return n
}

// bool reads an optional flag; an absent key is false.
func (r *pairReader) bool(key string) bool {
	s, ok := r.pairs[key]
	if !ok || r.err != nil {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
	return b
}
