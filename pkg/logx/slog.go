package logx

import (
	"fmt"
	"log/slog"

	"github.com/lmittmann/tint"
	"github.com/shopspring/decimal"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

// Decimal renders a price attribute without float rounding artifacts.
func Decimal(name string, value decimal.Decimal) slog.Attr {
	return slog.String(name, value.String())
}
