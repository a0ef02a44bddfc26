package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// abnWeights are the ATO checksum weights for the 11 ABN digits
var abnWeights = [11]int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

// ValidateABN validates an Australian Business Number: 11 digits with
// the ATO weighted checksum (subtract 1 from the first digit, weighted
// sum divisible by 89). Spaces are permitted and ignored.
func ValidateABN(abn string) error {
	digits := strings.ReplaceAll(abn, " ", "")
	if len(digits) != 11 {
		return fmt.Errorf("ABN must be 11 digits: %s", abn)
	}

	sum := 0
	for i, c := range digits {
		if c < '0' || c > '9' {
			return fmt.Errorf("ABN must contain only digits: %s", abn)
		}
		d := int(c - '0')
		if i == 0 {
			d--
		}
		sum += d * abnWeights[i]
	}

	if sum%89 != 0 {
		return fmt.Errorf("ABN checksum failed: %s", abn)
	}
	return nil
}

var bsbRegex = regexp.MustCompile(`^\d{3}-?\d{3}$`)

// ValidateBSB validates a Bank State Branch code: six digits, with an
// optional hyphen after the third.
func ValidateBSB(bsb string) error {
	if !bsbRegex.MatchString(bsb) {
		return fmt.Errorf("BSB must be 6 digits: %s", bsb)
	}
	return nil
}
