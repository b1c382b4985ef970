package utils

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

type fixedRandom int64

func (f fixedRandom) Int64N(n int64) int64 {
	if int64(f) >= n {
		return n - 1
	}
	return int64(f)
}

func TestGenerateNumericCodeBounds(t *testing.T) {
	tests := []struct {
		name     string
		draw     int64
		length   int
		expected string
	}{
		{name: "Lowest six digit code", draw: 0, length: 6, expected: "100000"},
		{name: "Highest six digit code", draw: 1 << 62, length: 6, expected: "999999"},
		{name: "Middle of range", draw: 23456, length: 6, expected: "123456"},
		{name: "Single digit never zero", draw: 0, length: 1, expected: "1"},
		{name: "Four digits", draw: 8999, length: 4, expected: "9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateNumericCode(fixedRandom(tt.draw), tt.length))
		})
	}
}

func TestGenerateNumericCodeLength(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))

	for length := MinCodeLength; length <= MaxCodeLength; length++ {
		for i := 0; i < 200; i++ {
			code := GenerateNumericCode(src, length)
			assert.Len(t, code, length)
			assert.Regexp(t, `^[1-9][0-9]*$`, code)
		}
	}
}

func TestGenerateNumericCodeClampsLength(t *testing.T) {
	src := rand.New(rand.NewPCG(3, 4))

	assert.Len(t, GenerateNumericCode(src, MaxCodeLength+5), MaxCodeLength)
	assert.Len(t, GenerateNumericCode(src, 0), MinCodeLength)

	// every length the code generator accepts passes validation
	s := domain.DefaultSettings()
	s.CodeLength = MaxCodeLength
	assert.NoError(t, ValidateSettings(s))
}

func TestGenerateNumericCodeDeterministic(t *testing.T) {
	a := GenerateNumericCode(rand.New(rand.NewPCG(7, 7)), 6)
	b := GenerateNumericCode(rand.New(rand.NewPCG(7, 7)), 6)

	assert.Equal(t, a, b)
}

func TestGlobalRandomInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := GlobalRandom{}.Int64N(10)
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Less(t, v, int64(10))
	}
}
