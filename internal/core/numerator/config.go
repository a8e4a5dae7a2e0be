// Package numerator provides contracts for registry numbering of stored expenses.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict reserves every number with its own UPDATE ... RETURNING.
	// Numbers are sequential without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers and hands them out from memory.
	// A restart may leave gaps.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Reset periods.
const (
	ResetYear  = "year"
	ResetMonth = "month"
	ResetNever = "never"
)

// ExpensePrefix is the registry prefix of stored expense invoices.
const ExpensePrefix = "EXP"

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "EXP")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: ResetYear, ResetMonth or ResetNever
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: ResetYear,
	}
}

// ExpenseConfig numbers expenses as EXP-YYYY-NNNNN, restarting every year.
func ExpenseConfig() Config {
	return DefaultConfig(ExpensePrefix)
}
