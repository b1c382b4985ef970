// pkg/utils/crypto.go

package utils

import (
	"math/rand/v2"
	"strconv"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// Code length bounds shared by generation and settings validation
const (
	MinCodeLength = 1
	MaxCodeLength = 10
)

// GlobalRandom draws from the math/rand/v2 global generator
type GlobalRandom struct{}

func (GlobalRandom) Int64N(n int64) int64 {
	return rand.Int64N(n)
}

// GenerateNumericCode draws a value uniformly from [10^(length-1), 10^length - 1]
// and renders it in decimal, so the result is always exactly length digits.
// This is a plain bounded draw, not a security token.
func GenerateNumericCode(src domain.RandomSource, length int) string {
	if length < MinCodeLength {
		length = MinCodeLength
	}
	if length > MaxCodeLength {
		length = MaxCodeLength
	}
	low := pow10(length - 1)
	high := pow10(length)
	return strconv.FormatInt(low+src.Int64N(high-low), 10)
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
