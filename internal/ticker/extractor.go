// Package ticker maps free news text to at most one stock ticker symbol.
// Extraction favors precision over recall: a missed ticker is acceptable, a
// wrong one is not.
package ticker

import (
	"regexp"
	"strings"
)

// companyTicker binds a lower-cased company name fragment to its symbol.
// The table is scanned in declaration order and the first name contained in
// the text wins, so more specific names must be listed before shorter ones
// that could shadow them (e.g. "jp morgan" before "morgan stanley" is not
// needed, but "goldman sachs" must not be reachable through a bare "goldman"
// entry placed earlier).
type companyTicker struct {
	name   string
	symbol string
}

// companyTickers is the static company-name mapping. Company-name matches
// take absolute priority over pattern matches.
var companyTickers = []companyTicker{
	// Tech
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"amazon", "AMZN"},
	{"alphabet", "GOOGL"},
	{"google", "GOOGL"},
	{"meta", "META"},
	{"facebook", "META"},
	{"tesla", "TSLA"},
	{"nvidia", "NVDA"},
	{"netflix", "NFLX"},
	// Banking and finance
	{"jpmorgan", "JPM"},
	{"jp morgan", "JPM"},
	{"goldman sachs", "GS"},
	{"morgan stanley", "MS"},
	{"bank of america", "BAC"},
	{"wells fargo", "WFC"},
	{"citigroup", "C"},
	{"american express", "AXP"},
	{"berkshire hathaway", "BRK.B"},
	// Healthcare and pharma
	{"johnson & johnson", "JNJ"},
	{"pfizer", "PFE"},
	{"merck", "MRK"},
	{"abbvie", "ABBV"},
	{"moderna", "MRNA"},
	{"eli lilly", "LLY"},
	// Industrial
	{"boeing", "BA"},
	{"general electric", "GE"},
	{"caterpillar", "CAT"},
	{"3m", "MMM"},
	{"honeywell", "HON"},
	// Retail and consumer
	{"walmart", "WMT"},
	{"coca-cola", "KO"},
	{"pepsi", "PEP"},
	{"procter & gamble", "PG"},
	{"nike", "NKE"},
	{"mcdonald's", "MCD"},
	{"disney", "DIS"},
	{"starbucks", "SBUX"},
	// Energy
	{"exxon", "XOM"},
	{"chevron", "CVX"},
	{"conocophillips", "COP"},
	// Crypto-adjacent
	{"coinbase", "COIN"},
	{"microstrategy", "MSTR"},
	{"bitcoin", "BTC-USD"},
	{"ethereum", "ETH-USD"},
}

// tickerPatterns are tried in order after company names; the first pattern
// that yields a candidate surviving the stop-list wins.
var tickerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([A-Za-z]{1,5})\b`),                          // $AAPL
	regexp.MustCompile(`\(([A-Za-z]{1,5})\)`),                          // (AAPL)
	regexp.MustCompile(`(?:NYSE|NASDAQ):\s*([A-Za-z]{1,5})\b`),         // NYSE: AAPL
	regexp.MustCompile(`\b([A-Za-z]{2,5})\s+(?:stock|shares|ticker|symbol)\b`), // AAPL stock
}

// stopWords are common short English words that are case-identical to
// plausible ticker symbols and must never be returned.
var stopWords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "ARE": {}, "BUT": {}, "NOT": {},
	"YOU": {}, "ALL": {}, "CAN": {}, "HER": {}, "WAS": {}, "ONE": {},
	"OUR": {}, "HAD": {}, "HIS": {}, "SHE": {}, "HE": {}, "NOW": {},
	"NEW": {}, "OLD": {}, "GET": {}, "GOT": {}, "PUT": {}, "SET": {},
	"RUN": {}, "WAY": {}, "WIN": {}, "WHO": {}, "WHY": {}, "USE": {},
}

// Extract returns the ticker symbol found in text, or "" when no ticker can
// be extracted. It is deterministic, has no side effects, and performs no
// I/O. Absence of a ticker is not an error.
func Extract(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, ct := range companyTickers {
		if strings.Contains(lower, ct.name) {
			return ct.symbol
		}
	}

	for _, pattern := range tickerPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := strings.ToUpper(match[1])
			if isPlausibleTicker(candidate) {
				return candidate
			}
			// Stop-listed candidate: fall through to the next match,
			// not to failure of the whole extraction.
		}
	}

	return ""
}

func isPlausibleTicker(symbol string) bool {
	if len(symbol) < 1 || len(symbol) > 5 {
		return false
	}
	_, stopped := stopWords[symbol]
	return !stopped
}
