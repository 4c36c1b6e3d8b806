package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Availability label constants.
const (
	FullValue     = "Full"     // No downtime observed
	HealthyValue  = "Healthy"  // Mostly up
	DegradedValue = "Degraded" // Meaningful downtime
	OutageValue   = "Outage"   // Mostly down
)

// Color variables for console output.
var (
	FullColor     = color.New(color.FgGreen, color.Bold) // fully available
	HealthyColor  = color.New(color.FgCyan)              // healthy, informational
	DegradedColor = color.New(color.FgYellow)            // standard caution
	OutageColor   = color.New(color.FgRed, color.Bold)   // standard danger
)

// GetPlainLabel returns a plain text availability label for a window given the
// uptime ratio (uptime / (uptime+downtime)). This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(ratio float64) string {
	switch {
	case ratio >= 0.999:
		return FullValue
	case ratio >= 0.95:
		return HealthyValue
	case ratio >= 0.50:
		return DegradedValue
	default:
		return OutageValue
	}
}

// GetColorLabel returns a colored availability label for console table output.
// It uses GetPlainLabel to determine the string, then applies the color.
func GetColorLabel(ratio float64) string {
	text := GetPlainLabel(ratio)

	switch text {
	case FullValue:
		return FullColor.Sprint(text)
	case HealthyValue:
		return HealthyColor.Sprint(text)
	case DegradedValue:
		return DegradedColor.Sprint(text)
	default: // "Outage"
		return OutageColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
