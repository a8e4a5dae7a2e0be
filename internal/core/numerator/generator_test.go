package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	period := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		num  int64
		want string
	}{
		{"expense", ExpenseConfig(), 7, "EXP-2025-00007"},
		{"no year", Config{Prefix: "EXP", PadWidth: 3}, 12, "EXP-012"},
		{"default pad", Config{Prefix: "X", IncludeYear: true}, 1, "X-2025-00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.cfg, period, tt.num))
		})
	}
}

func TestKey(t *testing.T) {
	period := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "EXP_2025", Key(ExpenseConfig(), period))
	assert.Equal(t, "EXP_2025_03", Key(Config{Prefix: "EXP", ResetPeriod: ResetMonth}, period))
	assert.Equal(t, "EXP", Key(Config{Prefix: "EXP", ResetPeriod: ResetNever}, period))
}

func TestParse(t *testing.T) {
	assert.Equal(t, int64(42), Parse("EXP-2025-00042"))
	assert.Equal(t, int64(12), Parse("EXP-012"))
	assert.Equal(t, int64(-1), Parse("garbage"))
}
