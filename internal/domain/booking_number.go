package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// GenerateBookingNumber returns "CW-" followed by six uppercase hex digits
func GenerateBookingNumber() (string, error) {
	return generateBookingNumber(rand.Reader)
}

func generateBookingNumber(r io.Reader) (string, error) {
	buf := make([]byte, 3)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("generate booking number: %w", err)
	}
	return BookingNumberPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
