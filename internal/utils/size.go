package utils

import (
	"strconv"
	"strings"
)

const sizeUnitStep = 1024

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case binary unit, keeping
// one decimal below ten units ("1.5kb", "512kb").
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= sizeUnitStep && unitIndex < len(sizeUnits)-1 {
		scaled /= sizeUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	formatted := strconv.FormatFloat(scaled, 'f', precision, 64)
	return strings.TrimSuffix(formatted, ".0") + sizeUnits[unitIndex]
}
