package genome

import "math"

// ParsePosition parses a human-entered chromosome position.  Digits may be
// grouped with commas, and any 'k'/'K' or 'm'/'M' characters after the digits
// multiply by 1e3 and 1e6 respectively, so "3000000", "3,000,000", "3M",
// "3000k" and "3kk" all parse to 3000000.  Values that do not fit in an
// int64 are rejected.
func ParsePosition(s string) (int64, error) {
	var (
		pos     int64
		nDigits int
		i       int
	)
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			d := int64(c - '0')
			if pos > (math.MaxInt64-d)/10 {
				return 0, invalidCoordinate("position %q overflows", s)
			}
			pos = pos*10 + d
			nDigits++
		} else if c != ',' {
			break
		}
	}
	if nDigits == 0 {
		return 0, invalidCoordinate("position %q contains no digits", s)
	}
	for ; i < len(s); i++ {
		var scale int64
		switch s[i] {
		case 'k', 'K':
			scale = 1000
		case 'm', 'M':
			scale = 1000000
		default:
			continue
		}
		if pos > math.MaxInt64/scale {
			return 0, invalidCoordinate("position %q overflows", s)
		}
		pos *= scale
	}
	return pos, nil
}
