package security

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const otpRange = 900000

// GenerateOtp returns a 6 digit numeric code sampled uniformly from
// [100000, 999999].
func GenerateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
