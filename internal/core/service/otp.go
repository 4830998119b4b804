package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	otpMin  = 100000
	otpSpan = 900000 // codes fall in [100000, 999999]
)

// RandomOTPGenerator draws six-digit codes uniformly from a cryptographic source.
type RandomOTPGenerator struct {
	src io.Reader
}

func NewOTPGenerator() *RandomOTPGenerator {
	return &RandomOTPGenerator{src: rand.Reader}
}

func (g *RandomOTPGenerator) Generate() (string, error) {
	n, err := rand.Int(g.src, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
