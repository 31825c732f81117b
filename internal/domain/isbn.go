package domain

import "strings"

var isbnSeparators = strings.NewReplacer("-", "", " ", "")

// NormalizeISBN strips hyphens and spaces and upper-cases an ISBN-10 'x'
// check digit.
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(isbnSeparators.Replace(isbn))
}

// IsValidISBN checks an ISBN-10 or ISBN-13 checksum after normalization.
// An empty string is treated as absent and is valid.
func IsValidISBN(isbn string) bool {
	if isbn == "" {
		return true
	}
	clean := NormalizeISBN(isbn)
	switch len(clean) {
	case 10:
		return validISBN10(clean)
	case 13:
		return validISBN13(clean)
	default:
		return false
	}
}

// validISBN10 weights digits 10..1; the last position may be 'X' for 10.
func validISBN10(isbn string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		c := isbn[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c == 'X' && i == 9:
			v = 10
		default:
			return false
		}
		sum += (10 - i) * v
	}
	return sum%11 == 0
}

// validISBN13 weights the first twelve digits alternately 1 and 3.
func validISBN13(isbn string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}
		if i == 12 {
			break
		}
		d := int(c - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	check := int(isbn[12] - '0')
	return (10-sum%10)%10 == check
}
