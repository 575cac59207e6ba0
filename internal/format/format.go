package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FmtCurrency formats a major-unit amount for basic currencies.
// Example: FmtCurrency(1999, "INR", "en") => "₹1,999.00"
func FmtCurrency(amount float64, currency, lang string) string {
	currency = strings.ToUpper(currency)
	neg := amount < 0
	if neg {
		amount = -amount
	}
	// round to paise/cents before splitting
	minor := int64(math.Round(amount * 100))
	major := minor / 100
	frac := minor % 100
	body := thousandSep(major) + fmt.Sprintf(".%02d", frac)
	sign := ""
	if neg {
		sign = "-"
	}
	switch currency {
	case "INR":
		return sign + "₹" + body
	case "USD":
		return sign + "$" + body
	default:
		return sign + currency + " " + body
	}
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	out := ""
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(c)
	}
	return out
}

// FmtDate formats time in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "hi":
		return t.Format("02-01-2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}
