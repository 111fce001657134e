package ppsnap

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DecodeError reports a single numeric token that could not be parsed.
// The owning row is skipped with a warning, it is never fatal for a file.
type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode number %q: %s", e.Token, e.Reason)
}

// currencyMarks are stripped from numeric tokens before parsing. Exports mix
// plain numbers with "1.234,56 €" or "EUR 12.50" depending on the column.
var currencyMarks = strings.NewReplacer(
	" ", " ", // no-break space, German exports use it as grouping
	" ", " ",
	"€", "", "$", "", "£", "", "¥", "", "%", "",
)

var (
	groupedCommas = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	groupedDots   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	plainNumber   = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// DecodeNumber turns a raw text token from a CSV cell or XML attribute into a
// signed decimal, auto-detecting whether ',' or '.' is the decimal separator.
//
// When both separators appear the rightmost one is the decimal separator and
// the other one is grouping. A single ',' (or '.') is a decimal separator
// when fewer than 3 digits follow it or when the digits do not form valid
// groups of three; otherwise it is a thousands separator. The same token
// yields the same value whether it came from the CSV or the XML path.
func DecodeNumber(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(currencyMarks.Replace(token))
	// strip currency codes like "EUR 12,50" or "12.50 USD"
	s = strings.TrimLeft(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	s = strings.TrimRight(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, &DecodeError{Token: token, Reason: "empty token"}
	}

	neg := false
	switch s[0] {
	case '-':
		neg, s = true, s[1:]
	case '+':
		s = s[1:]
	}

	comma := strings.LastIndexByte(s, ',')
	dot := strings.LastIndexByte(s, '.')
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			// German style: '.' groups thousands, ',' is the decimal point.
			s = strings.ReplaceAll(s, ".", "")
			if strings.Count(s, ",") > 1 {
				return decimal.Zero, &DecodeError{Token: token, Reason: "ambiguous separators"}
			}
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
			if strings.Count(s, ".") > 1 {
				return decimal.Zero, &DecodeError{Token: token, Reason: "ambiguous separators"}
			}
		}
	case comma >= 0:
		s = resolveSingleSeparator(s, ',', groupedCommas)
		if s == "" {
			return decimal.Zero, &DecodeError{Token: token, Reason: "ambiguous separators"}
		}
	case dot >= 0:
		s = resolveSingleSeparator(s, '.', groupedDots)
		if s == "" {
			return decimal.Zero, &DecodeError{Token: token, Reason: "ambiguous separators"}
		}
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, &DecodeError{Token: token, Reason: "non-numeric residue"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &DecodeError{Token: token, Reason: err.Error()}
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// resolveSingleSeparator normalizes a token containing only one kind of
// separator to plain dot-decimal form. It returns "" when the separators
// cannot be resolved.
func resolveSingleSeparator(s string, sep byte, grouped *regexp.Regexp) string {
	ss := string(sep)
	if strings.Count(s, ss) == 1 {
		after := len(s) - strings.IndexByte(s, sep) - 1
		if after < 3 || !grouped.MatchString(s) {
			// decimal separator: "1234,5", "0,3333", "12.5"
			return strings.Replace(s, ss, ".", 1)
		}
		// exactly one valid group of three: "1,234"
		return strings.ReplaceAll(s, ss, "")
	}
	// several separators are only valid as thousands grouping
	if grouped.MatchString(s) {
		return strings.ReplaceAll(s, ss, "")
	}
	return ""
}
