// Package bech32 implements the bech32 checksum encoding used for
// human-readable ledger addresses. It is self-contained: unlike the
// teacher's version, which delegated the base32 remapping and checksum math
// to internal helper files that were not retrievable, this package folds
// the charset conversion and checksum polymod into one file.
package bech32

import (
	"strings"

	"github.com/iotaledger/hive.go/ierrors"
)

const (
	maxStringLength = 90
	checksumLength  = 6
	separator       = '1'
)

var (
	// ErrInvalidLength gets returned when a bech32 string has an invalid length.
	ErrInvalidLength = ierrors.New("invalid bech32 string length")
	// ErrInvalidCharacter gets returned when a bech32 string contains an invalid character.
	ErrInvalidCharacter = ierrors.New("invalid character in bech32 string")
	// ErrInvalidChecksum gets returned when a bech32 string's checksum does not validate.
	ErrInvalidChecksum = ierrors.New("invalid bech32 checksum")
	// ErrMixedCase gets returned when a bech32 string mixes upper and lower case characters.
	ErrMixedCase = ierrors.New("mixed case bech32 string")
	// ErrMissingSeparator gets returned when a bech32 string has no separator.
	ErrMissingSeparator = ierrors.New("missing bech32 separator")
)

// SyntaxError is returned when a decode error can be pinned to a position in the input string.
type SyntaxError struct {
	Err    error
	Offset int
}

func (e *SyntaxError) Error() string { return e.Err.Error() }
func (e *SyntaxError) Unwrap() error { return e.Err }

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}

	return rev
}()

// Encode encodes hrp and the src data as a bech32 string.
func Encode(hrp string, src []byte) (string, error) {
	if len(hrp) < 1 {
		return "", ierrors.Wrap(ErrInvalidLength, "hrp must not be empty")
	}
	for _, c := range hrp {
		if !isValidHRPChar(c) {
			return "", ierrors.Wrap(ErrInvalidCharacter, "not US-ASCII character in human-readable part")
		}
	}
	if err := validateCase(hrp); err != nil {
		return "", err
	}

	hrpLower := strings.ToLower(hrp)

	values, err := convertBits(src, 8, 5, true)
	if err != nil {
		return "", err
	}

	if len(hrpLower)+len(values)+checksumLength+1 > maxStringLength {
		return "", ierrors.Wrapf(ErrInvalidLength, "hrp length=%d, data length=%d", len(hrp), len(values))
	}

	checksum := createChecksum(hrpLower, values)
	combined := append(values, checksum...)

	var res strings.Builder
	res.WriteString(hrp)
	res.WriteByte(separator)
	for _, v := range combined {
		res.WriteByte(charset[v])
	}

	if hrp == hrpLower {
		return res.String(), nil
	}

	return strings.ToUpper(res.String()), nil
}

// Decode decodes s into its human-readable and data part.
func Decode(s string) (string, []byte, error) {
	if len(s) > maxStringLength {
		return "", nil, &SyntaxError{ierrors.Wrap(ErrInvalidLength, "maximum length exceeded"), maxStringLength}
	}

	hrpLen := strings.LastIndexByte(s, separator)
	if hrpLen == -1 {
		return "", nil, ErrMissingSeparator
	}
	if hrpLen < 1 || hrpLen+checksumLength+1 > len(s) {
		return "", nil, &SyntaxError{ierrors.Wrap(ErrInvalidLength, "invalid separator position"), hrpLen}
	}

	for i, c := range s[:hrpLen] {
		if !isValidHRPChar(c) {
			return "", nil, &SyntaxError{ierrors.Wrap(ErrInvalidCharacter, "not US-ASCII character in human-readable part"), i}
		}
	}
	if err := validateCase(s); err != nil {
		return "", nil, err
	}

	s = strings.ToLower(s)
	hrp := s[:hrpLen]
	chars := s[hrpLen+1:]

	values := make([]byte, len(chars))
	for i, c := range chars {
		if c >= 128 || charsetRev[c] == -1 {
			return "", nil, &SyntaxError{ierrors.Wrap(ErrInvalidCharacter, "non-charset character in data part"), hrpLen + 1 + i}
		}
		values[i] = byte(charsetRev[c])
	}

	if len(values) < checksumLength || !verifyChecksum(hrp, values) {
		return "", nil, &SyntaxError{ErrInvalidChecksum, len(s) - checksumLength}
	}
	values = values[:len(values)-checksumLength]

	decoded, err := convertBits(values, 5, 8, false)
	if err != nil {
		return "", nil, err
	}

	return hrp, decoded, nil
}

// convertBits regroups a byte slice from one bit-width to another, MSB first.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)
	maxv := uint32(1<<toBits) - 1

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, ierrors.New("invalid data range for bit conversion")
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits)&byte(maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits))&byte(maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, ierrors.New("invalid padding in bit conversion")
	}

	return out, nil
}

func polymod(values []byte) uint32 {
	generators := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= generators[i]
			}
		}
	}

	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for _, c := range hrp {
		out = append(out, byte(c)>>5)
	}
	out = append(out, 0)
	for _, c := range hrp {
		out = append(out, byte(c)&31)
	}

	return out
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, make([]byte, checksumLength)...)
	mod := polymod(values) ^ 1
	checksum := make([]byte, checksumLength)
	for i := 0; i < checksumLength; i++ {
		checksum[i] = byte((mod >> uint(5*(checksumLength-1-i))) & 31)
	}

	return checksum
}

func verifyChecksum(hrp string, data []byte) bool {
	values := append(hrpExpand(hrp), data...)

	return polymod(values) == 1
}

func isValidHRPChar(r rune) bool {
	return r >= 33 && r <= 126
}

func validateCase(s string) error {
	upper, lower := firstUpper(s), firstLower(s)
	if upper < lower && upper >= 0 {
		return &SyntaxError{ErrMixedCase, lower}
	}
	if lower < upper && lower >= 0 {
		return &SyntaxError{ErrMixedCase, upper}
	}

	return nil
}

func firstUpper(s string) int {
	lower := strings.ToLower(s)
	for i := range s {
		if lower[i] != s[i] {
			return i
		}
	}

	return -1
}

func firstLower(s string) int {
	upper := strings.ToUpper(s)
	for i := range s {
		if upper[i] != s[i] {
			return i
		}
	}

	return -1
}
