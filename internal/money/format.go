package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Lang selects the UI language used for number formatting.
type Lang string

const (
	LangVietnamese Lang = "vi"
	LangRussian    Lang = "ru"
)

var symbols = map[Currency]string{
	VND: "₫",
	RUB: "₽",
}

// Formatter renders amounts for display, optionally converting into a target
// currency at a fixed configured rate. The rate is a presentation concern:
// ledger and payroll values are always stored and computed in the native
// currency of their account.
type Formatter struct {
	vndToRUB float64
	printers map[Lang]*message.Printer
}

// NewFormatter builds a Formatter with the given VND to RUB display rate.
func NewFormatter(vndToRUB float64) *Formatter {
	return &Formatter{
		vndToRUB: vndToRUB,
		printers: map[Lang]*message.Printer{
			LangVietnamese: message.NewPrinter(language.Vietnamese),
			LangRussian:    message.NewPrinter(language.Russian),
		},
	}
}

// Format renders amount (minor units of native) in the display currency.
func (f *Formatter) Format(amount Amount, native, display Currency, lang Lang) string {
	value := float64(amount) / math.Pow10(native.Exponent())
	if native != display {
		value = f.convert(value, native, display)
	}

	p, ok := f.printers[lang]
	if !ok {
		p = f.printers[LangVietnamese]
	}
	exp := display.Exponent()
	return p.Sprintf("%v %s", number.Decimal(value, number.Scale(exp)), symbols[display])
}

func (f *Formatter) convert(value float64, from, to Currency) float64 {
	switch {
	case from == VND && to == RUB:
		return value * f.vndToRUB
	case from == RUB && to == VND:
		if f.vndToRUB == 0 {
			return value
		}
		return value / f.vndToRUB
	default:
		return value
	}
}
