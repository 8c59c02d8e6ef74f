package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// ErrMalformedRecord is returned when a spilled line cannot be decoded.
var ErrMalformedRecord = errors.New("store: malformed record")

const (
	fieldSep     = ","
	summarySep   = ":"
	selectionSep = ";"
)

// EncodeIndices joins indices with commas: "3,0,7".
func EncodeIndices[T constraints.Integer](idx []T) string {
	var b strings.Builder
	for i, v := range idx {
		if i > 0 {
			b.WriteString(fieldSep)
		}
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	return b.String()
}

// DecodeIndices parses a comma-joined index list.
func DecodeIndices(line string) ([]int, error) {
	if line == "" {
		return nil, nil
	}
	parts := strings.Split(line, fieldSep)
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedRecord, line, err)
		}
		out[i] = n
	}
	return out, nil
}

// EncodeSelectionCombination renders "<indices>:<selection>;<selection>;...",
// each selection comma-joined: "0,3:7,4,6,9;3,4,6,5".
func EncodeSelectionCombination[T constraints.Integer, S ~[]T](indices []T, selections []S) string {
	var b strings.Builder
	b.WriteString(EncodeIndices(indices))
	b.WriteString(summarySep)
	for i, sel := range selections {
		if i > 0 {
			b.WriteString(selectionSep)
		}
		b.WriteString(EncodeIndices([]T(sel)))
	}
	return b.String()
}

// DecodeSelectionCombination parses a record written by EncodeSelectionCombination.
func DecodeSelectionCombination(line string) ([]int, [][]int, error) {
	head, tail, ok := strings.Cut(line, summarySep)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q: missing %q", ErrMalformedRecord, line, summarySep)
	}
	indices, err := DecodeIndices(head)
	if err != nil {
		return nil, nil, err
	}
	var sels [][]int
	if tail != "" {
		for _, part := range strings.Split(tail, selectionSep) {
			sel, err := DecodeIndices(part)
			if err != nil {
				return nil, nil, err
			}
			sels = append(sels, sel)
		}
	}
	return indices, sels, nil
}

// EncodeWords joins words with commas.
func EncodeWords(words []string) string { return strings.Join(words, fieldSep) }

// DecodeWords splits a comma-joined word list.
func DecodeWords(line string) []string {
	if line == "" {
		return nil
	}
	return strings.Split(line, fieldSep)
}
