package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	libBarcodePrefix    = "LIB"
	libBarcodeLength    = 9
	maxBarcodeSegment   = 999
	isbn10Length        = 10
	isbn13Length        = 13
	isbn10CheckDigitX   = 'X'
	barcodeSegmentWidth = 3
)

// NextCopyNumber returns the highest CopyNumber plus one, or 1 for no copies.
// Numbers of deleted copies are never handed out again.
func NextCopyNumber(existingCopies []BookCopy) int {
	highest := 0
	for _, bookCopy := range existingCopies {
		highest = max(highest, bookCopy.CopyNumber)
	}

	return highest + 1
}

// NextBookID returns the highest BookID plus one, or 1 for no copies.
func NextBookID(allCopies []BookCopy) int {
	highest := 0
	for _, bookCopy := range allCopies {
		highest = max(highest, bookCopy.BookID)
	}

	return highest + 1
}

// GenerateBarcode formats "LIB" + three digit book id + three digit copy number.
// Values outside 1..999 would not fit the fixed nine characters and are rejected with ErrBarcodeOutOfRange.
func GenerateBarcode(bookID int, copyNumber int) (string, error) {
	if !inBarcodeRange(bookID) || !inBarcodeRange(copyNumber) {
		return "", fmt.Errorf("%w: book id %d, copy number %d", ErrBarcodeOutOfRange, bookID, copyNumber)
	}

	return fmt.Sprintf("%s%03d%03d", libBarcodePrefix, bookID, copyNumber), nil
}

// CreateCopies allocates copyCount consecutive copy numbers for the batch bookID, starting after
// the highest number among the existing copies of that batch. All new copies are available and active.
func CreateCopies(bookID int, copyCount int, existingCopies []BookCopy, templateID TemplateIDString) ([]BookCopy, error) {
	if copyCount < 1 {
		return nil, ErrInvalidCopyCount
	}

	var batch []BookCopy
	for _, bookCopy := range existingCopies {
		if bookCopy.BookID == bookID {
			batch = append(batch, bookCopy)
		}
	}

	first := NextCopyNumber(batch)
	copies := make([]BookCopy, 0, copyCount)

	for copyNumber := first; copyNumber < first+copyCount; copyNumber++ {
		barcode, err := GenerateBarcode(bookID, copyNumber)
		if err != nil {
			return nil, err
		}

		copies = append(copies, BookCopy{
			BookID:         bookID,
			CopyNumber:     copyNumber,
			Barcode:        barcode,
			IsAvailable:    true,
			BookTemplateID: templateID,
			Lifecycle:      Active(),
		})
	}

	return copies, nil
}

// IsValidBarcode accepts an ISBN-10, an ISBN-13 or a LIB barcode.
func IsValidBarcode(value string) bool {
	return IsValidISBN(value) || isLibBarcode(value)
}

// IsValidISBN checks the shape only: 9 digits plus a digit or X, or 13 digits starting with 978 or 979.
// Check digits are not verified.
func IsValidISBN(value string) bool {
	switch len(value) {
	case isbn10Length:
		last := value[isbn10Length-1]
		return allDigits(value[:isbn10Length-1]) && (isDigit(last) || last == isbn10CheckDigitX)
	case isbn13Length:
		return allDigits(value) && (strings.HasPrefix(value, "978") || strings.HasPrefix(value, "979"))
	default:
		return false
	}
}

// ParseLibBarcode is the inverse of GenerateBarcode. It returns ok=false for anything that is not "LIB" + 6 digits.
func ParseLibBarcode(value string) (bookID int, copyNumber int, ok bool) {
	if !isLibBarcode(value) {
		return 0, 0, false
	}

	digits := value[len(libBarcodePrefix):]

	bookID, err := strconv.Atoi(digits[:barcodeSegmentWidth])
	if err != nil {
		return 0, 0, false
	}

	copyNumber, err = strconv.Atoi(digits[barcodeSegmentWidth:])
	if err != nil {
		return 0, 0, false
	}

	return bookID, copyNumber, true
}

func isLibBarcode(value string) bool {
	return len(value) == libBarcodeLength &&
		strings.HasPrefix(value, libBarcodePrefix) &&
		allDigits(value[len(libBarcodePrefix):])
}

func inBarcodeRange(n int) bool {
	return n >= 1 && n <= maxBarcodeSegment
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}

	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
