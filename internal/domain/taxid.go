package domain

// NormalizeTaxID strips every non-digit character from a raw tax ID.
// "11.222.333/0001-81" and "11222333000181" normalize to the same value.
func NormalizeTaxID(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	return string(out)
}

// ValidTaxID reports whether a normalized tax ID is a well-formed 14-digit
// identifier with matching check digits. The two check digits are computed
// with the standard weighted modulo-11 scheme: weights cycle 2..9 starting
// from the rightmost digit of the base, and a remainder below 2 yields a
// check digit of 0, otherwise 11 minus the remainder.
func ValidTaxID(normalized string) bool {
	if len(normalized) != 14 {
		return false
	}

	digits := make([]int, 14)
	for i := 0; i < 14; i++ {
		c := normalized[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	if taxIDCheckDigit(digits[:12]) != digits[12] {
		return false
	}
	return taxIDCheckDigit(digits[:13]) == digits[13]
}

// taxIDCheckDigit computes the modulo-11 check digit over the given base
// (12 digits for the first pass, 13 for the second).
func taxIDCheckDigit(base []int) int {
	weight := 2
	sum := 0
	for i := len(base) - 1; i >= 0; i-- {
		sum += base[i] * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
