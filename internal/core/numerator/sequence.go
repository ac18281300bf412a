package numerator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"pxc/internal/core/apperror"
)

var (
	errShortField  = errors.New("sequence field shorter than its minimum width")
	errNotDigits   = errors.New("sequence field contains non-digit characters")
	errShortEntry  = errors.New("identifier shorter than its fixed layout")
	errSeqOverflow = errors.New("sequence exhausted")
)

// NextSequence returns the next unused sequence for periodKey.
//
// Only entries starting with periodKey are considered. Each of them must carry
// a parseable sequence field; a malformed one is reported as CORRUPT_POOL
// instead of being skipped, since skipping it could re-issue its number.
// The result is max(0, sequences...) + 1.
func NextSequence(pool []string, periodKey string, field SeqField) (int64, error) {
	var maxSeq int64
	for _, entry := range pool {
		if !strings.HasPrefix(entry, periodKey) {
			continue
		}
		seq, err := field.Parse(entry)
		if err != nil {
			return 0, err
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	if maxSeq == math.MaxInt64 {
		return 0, apperror.NewInternal(fmt.Errorf("period %s: %w", periodKey, errSeqOverflow))
	}
	return maxSeq + 1, nil
}

// Digits returns the raw sequence digits of entry without parsing them.
func (f SeqField) Digits(entry string) (string, error) {
	if len(entry) < f.Offset {
		return "", apperror.NewCorruptPool(entry, errShortEntry)
	}
	end := len(entry)
	for i := 0; i < f.Tail; i++ {
		_, size := utf8.DecodeLastRuneInString(entry[:end])
		if size == 0 {
			return "", apperror.NewCorruptPool(entry, errShortEntry)
		}
		end -= size
	}
	if end-f.Offset < f.Width {
		return "", apperror.NewCorruptPool(entry, errShortField)
	}
	digits := entry[f.Offset:end]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", apperror.NewCorruptPool(entry, errNotDigits)
		}
	}
	return digits, nil
}

// Parse extracts the sequence number of entry.
func (f SeqField) Parse(entry string) (int64, error) {
	digits, err := f.Digits(entry)
	if err != nil {
		return 0, err
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, apperror.NewCorruptPool(entry, err)
	}
	return seq, nil
}
