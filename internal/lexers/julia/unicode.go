package julia

import (
	"slices"
	"unicode"
)

// mathIDStart lists the symbols outside the letter categories that may
// start an identifier: math operators on the whitelist, angles, super and
// subscript +-=(), Other_ID_Start and the bold and double-struck digits.
var mathIDStart = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x207a, Hi: 0x207e, Stride: 1},
		{Lo: 0x208a, Hi: 0x208e, Stride: 1},
		{Lo: 0x2118, Hi: 0x2118, Stride: 1},
		{Lo: 0x212e, Hi: 0x212e, Stride: 1},
		{Lo: 0x2140, Hi: 0x2144, Stride: 1},
		{Lo: 0x2200, Hi: 0x2200, Stride: 1},
		{Lo: 0x2202, Hi: 0x2207, Stride: 1},
		{Lo: 0x220e, Hi: 0x2211, Stride: 1},
		{Lo: 0x221e, Hi: 0x2222, Stride: 1},
		{Lo: 0x222b, Hi: 0x2233, Stride: 1},
		{Lo: 0x223f, Hi: 0x223f, Stride: 1},
		{Lo: 0x22a4, Hi: 0x22a5, Stride: 1},
		{Lo: 0x22be, Hi: 0x22c3, Stride: 1},
		{Lo: 0x25f8, Hi: 0x25ff, Stride: 1},
		{Lo: 0x266f, Hi: 0x266f, Stride: 1},
		{Lo: 0x27c0, Hi: 0x27c1, Stride: 1},
		{Lo: 0x27d8, Hi: 0x27d9, Stride: 1},
		{Lo: 0x299b, Hi: 0x29b4, Stride: 1},
		{Lo: 0x2a00, Hi: 0x2a06, Stride: 1},
		{Lo: 0x2a09, Hi: 0x2a16, Stride: 1},
		{Lo: 0x2a1b, Hi: 0x2a1c, Stride: 1},
		{Lo: 0x309b, Hi: 0x309c, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1d6c1, Hi: 0x1d6c1, Stride: 1},
		{Lo: 0x1d6db, Hi: 0x1d6db, Stride: 1},
		{Lo: 0x1d6fb, Hi: 0x1d6fb, Stride: 1},
		{Lo: 0x1d715, Hi: 0x1d715, Stride: 1},
		{Lo: 0x1d735, Hi: 0x1d735, Stride: 1},
		{Lo: 0x1d74f, Hi: 0x1d74f, Stride: 1},
		{Lo: 0x1d76f, Hi: 0x1d76f, Stride: 1},
		{Lo: 0x1d789, Hi: 0x1d789, Stride: 1},
		{Lo: 0x1d7a9, Hi: 0x1d7a9, Stride: 1},
		{Lo: 0x1d7c3, Hi: 0x1d7c3, Stride: 1},
		{Lo: 0x1d7ce, Hi: 0x1d7e1, Stride: 1},
	},
}

// opSuffixes are the modifier letters, primes, super and subscripts that
// may follow an operator. Sorted for binary search.
var opSuffixes = []rune{
	0x00b2, 0x00b3, 0x00b9, 0x02b0, 0x02b2, 0x02b3, 0x02b7, 0x02b8, 0x02e1, 0x02e2, 0x02e3,
	0x1d2c, 0x1d2e, 0x1d30, 0x1d31, 0x1d33, 0x1d34, 0x1d35, 0x1d36, 0x1d37, 0x1d38, 0x1d39,
	0x1d3a, 0x1d3c, 0x1d3e, 0x1d3f, 0x1d40, 0x1d41, 0x1d42, 0x1d43, 0x1d47, 0x1d48, 0x1d49,
	0x1d4d, 0x1d4f, 0x1d50, 0x1d52, 0x1d56, 0x1d57, 0x1d58, 0x1d5b, 0x1d5d, 0x1d5e, 0x1d5f,
	0x1d60, 0x1d61, 0x1d62, 0x1d63, 0x1d64, 0x1d65, 0x1d66, 0x1d67, 0x1d68, 0x1d69, 0x1d6a,
	0x1d9c, 0x1da0, 0x1da5, 0x1da6, 0x1dab, 0x1db0, 0x1db8, 0x1dbb, 0x1dbf,
	0x2032, 0x2033, 0x2034, 0x2035, 0x2036, 0x2037, 0x2057, 0x2070, 0x2071,
	0x2074, 0x2075, 0x2076, 0x2077, 0x2078, 0x2079, 0x207a, 0x207b, 0x207c, 0x207d, 0x207e,
	0x207f, 0x2080, 0x2081, 0x2082, 0x2083, 0x2084, 0x2085, 0x2086, 0x2087, 0x2088, 0x2089,
	0x208a, 0x208b, 0x208c, 0x208d, 0x208e, 0x2090, 0x2091, 0x2092, 0x2093, 0x2095, 0x2096,
	0x2097, 0x2098, 0x2099, 0x209a, 0x209b, 0x209c, 0x2c7c, 0x2c7d, 0xa71b, 0xa71c, 0xa71d,
}

func isIDStartRune(wc rune) bool {
	if unicode.In(wc, unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl, unicode.Sc) {
		return true
	}
	// Other symbols, but not arrows, replacement characters, notslash or
	// the broken bar.
	if unicode.Is(unicode.So, wc) && (wc < 0x2190 || wc > 0x21ff) &&
		wc != 0xfffc && wc != 0xfffd && wc != 0x233f && wc != 0x00a6 {
		return true
	}
	return unicode.Is(mathIDStart, wc)
}

func isIdentifierStart(ch rune) bool {
	if ch < 0x80 {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
	}
	if ch < 0xa1 || ch > unicode.MaxRune {
		return false
	}
	return isIDStartRune(ch)
}

func isIdentifierChar(ch rune) bool {
	if ch < 0x80 {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' || ch == '!'
	}
	if ch < 0xa1 || ch > unicode.MaxRune {
		return false
	}
	if isIDStartRune(ch) {
		return true
	}
	// Primes are identifier characters too.
	return unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Sk, unicode.Me, unicode.No) ||
		(ch >= 0x2032 && ch <= 0x2037) || ch == 0x2057
}

func isOperatorSuffix(wc rune) bool {
	if wc < 0xa1 || wc > unicode.MaxRune {
		return false
	}
	if unicode.In(wc, unicode.Mn, unicode.Mc, unicode.Me) {
		return true
	}
	_, found := slices.BinarySearch(opSuffixes, wc)
	return found
}

func neverIDChar(wc rune) bool {
	return unicode.In(wc, unicode.Zs, unicode.Zl, unicode.Zp, unicode.Cc, unicode.Cf, unicode.Cs) ||
		(wc < 0xff && unicode.In(wc, unicode.Pd, unicode.Ps, unicode.Pe, unicode.Pi, unicode.Pf, unicode.Po)) ||
		wc == '`' ||
		(wc >= 0x27e6 && wc <= 0x27ef) ||
		(wc >= 0x3008 && wc <= 0x3011) ||
		(wc >= 0x3014 && wc <= 0x301b) ||
		wc == 0xff08 || wc == 0xff09 || wc == 0xff3b || wc == 0xff3d
}

// isUnaryOperator covers the non-ASCII unary operators.
func isUnaryOperator(ch rune) bool {
	switch ch {
	case 0x00ac, 0x221a, 0x221b, 0x221c, 0x22c6, 0x00b1, 0x2213:
		return true
	}
	return false
}

func isJuliaOperator(ch rune) bool {
	switch ch {
	case '%', '^', '&', '*', '-', '+', '=', '|', '<', '>', '/', '~', '\\':
		return true
	}
	return false
}

func isOperatorStart(ch rune) bool {
	if ch < 0x80 {
		return isJuliaOperator(ch) || ch == '!' || ch == '?' || ch == ':' || ch == ';' || ch == ',' || ch == '.'
	}
	if isIDStartRune(ch) {
		return false
	}
	return isUnaryOperator(ch) || !neverIDChar(ch)
}

func isOperatorChar(ch rune) bool {
	return isOperatorStart(ch) || (ch >= 0x80 && isOperatorSuffix(ch))
}

func isParen(ch rune) bool {
	switch ch {
	case '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}
