// Package sfnum provides constants used across the spanfmt ecosystem.
package sfnum

import "fmt"

type Level int32

const (
	TraceLevel Level = 1  // trace
	DebugLevel Level = 5  // debug
	InfoLevel  Level = 9  // info
	WarnLevel  Level = 13 // warn
	ErrorLevel Level = 17 // error
)

// String returns the level in the uppercase form used in log output.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// ParseLevel is the inverse of String. It accepts only the exact
// uppercase forms that String produces.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	}
	return 0, fmt.Errorf("'%s' is not a valid level", s)
}
