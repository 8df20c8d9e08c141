package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPair is returned when a pair code is not in the registry.
var ErrUnknownPair = errors.New("unknown pair")

// PairCode is a normalized (lower-case, 6-character) currency pair code.
type PairCode string

// Symbol is the provider-facing form of a pair, e.g. "EUR/USD".
type Symbol string

const symbolSeparator = "/"

var validPairs = map[PairCode]struct{}{
	"eurusd": {}, "audjpy": {}, "eurgbp": {}, "audusd": {}, "eurjpy": {},
	"audcad": {}, "gbpchf": {}, "eurcad": {}, "eurchf": {}, "gbpaud": {},
	"usdcad": {}, "chfjpy": {}, "euraud": {}, "gbpcad": {}, "gbpjpy": {},
	"audchf": {}, "usdchf": {}, "gbpusd": {}, "cadjpy": {}, "usdjpy": {},
}

// SupportedPairs lists the registry in lexical order. Treat as read-only.
var SupportedPairs = sortedPairs()

func sortedPairs() []PairCode {
	out := make([]PairCode, 0, len(validPairs))
	for p := range validPairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NormalizePair trims whitespace and lower-cases raw user input.
func NormalizePair(raw string) PairCode {
	return PairCode(strings.ToLower(strings.TrimSpace(raw)))
}

func IsValidPair(code PairCode) bool {
	_, ok := validPairs[code]
	return ok
}

// ToSymbol splits a registered code into base and quote, e.g. eurusd -> EUR/USD.
func ToSymbol(code PairCode) (Symbol, error) {
	if !IsValidPair(code) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPair, string(code))
	}
	s := strings.ToUpper(string(code))
	return Symbol(s[:3] + symbolSeparator + s[3:]), nil
}

// Upper is the display form used in replies.
func (p PairCode) Upper() string {
	return strings.ToUpper(string(p))
}

func (s Symbol) Base() string {
	base, _, _ := strings.Cut(string(s), symbolSeparator)
	return base
}

func (s Symbol) Quote() string {
	_, quote, _ := strings.Cut(string(s), symbolSeparator)
	return quote
}

// Ticker returns the exchange-qualified ticker, e.g. FX_IDC:EURUSD.
func (s Symbol) Ticker(exchange string) string {
	return exchange + ":" + s.Base() + s.Quote()
}
