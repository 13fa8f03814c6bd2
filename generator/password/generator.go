// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package password

import (
	"fmt"

	sethvargo "github.com/sethvargo/go-password/password"
)

// Generate returns a random password conforming to the given constraints.
//
// length is the total length of the password, numDigits the number of
// digits to include, numSymbols the number of symbols to include. noUpper
// disables uppercase letters, allowRepeat allows character repetition.
//
// It returns an error when length is negative or above 4096, or when
// numDigits or numSymbols is negative or larger than length.
func Generate(length, numDigits, numSymbols int, noUpper, allowRepeat bool) (string, error) {
	const maxLength = 4096
	if length < 0 || length > maxLength {
		return "", fmt.Errorf("unable to generate password: length %d out of range [0, %d]", length, maxLength)
	}
	if numDigits < 0 || numDigits > length || numSymbols < 0 || numSymbols > length {
		return "", fmt.Errorf("unable to generate password: digit count %d and symbol count %d must be in [0, %d]", numDigits, numSymbols, length)
	}

	out, err := sethvargo.Generate(length, numDigits, numSymbols, noUpper, allowRepeat)
	if err != nil {
		return "", fmt.Errorf("unable to generate password: %w", err)
	}

	return out, nil
}

// FromProfile generates a password from the given profile settings.
func FromProfile(p *Profile) (string, error) {
	if p == nil {
		return "", fmt.Errorf("profile must not be nil")
	}

	return Generate(p.Length, p.NumDigits, p.NumSymbol, p.NoUpper, p.AllowRepeat)
}

// Paranoid generates a password using the ProfileParanoid settings.
func Paranoid() (string, error) {
	return FromProfile(ProfileParanoid)
}

// NoSymbol generates a password using the ProfileNoSymbol settings.
func NoSymbol() (string, error) {
	return FromProfile(ProfileNoSymbol)
}

// Strong generates a password using the ProfileStrong settings.
func Strong() (string, error) {
	return FromProfile(ProfileStrong)
}
