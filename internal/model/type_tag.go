package model

import "strings"

// NormalizeTypeTag canonicalizes a fully-qualified type string so that
// "0x0002::m::T" and "0x2::m::T" compare equal. Every address segment inside
// the tag, including generic arguments, is normalized.
func NormalizeTypeTag(tag string) string {
	tag = strings.ToLower(strings.ReplaceAll(tag, " ", ""))
	if tag == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(tag))
	start := 0
	for i := 0; i <= len(tag); i++ {
		if i < len(tag) && !isTagDelimiter(tag[i]) {
			continue
		}
		b.WriteString(normalizeAddress(tag[start:i]))
		if i < len(tag) {
			b.WriteByte(tag[i])
		}
		start = i + 1
	}
	return b.String()
}

func isTagDelimiter(c byte) bool {
	switch c {
	case ':', '<', '>', ',':
		return true
	default:
		return false
	}
}

func normalizeAddress(segment string) string {
	if !strings.HasPrefix(segment, "0x") {
		return segment
	}
	hex := strings.TrimLeft(segment[2:], "0")
	if hex == "" {
		hex = "0"
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return segment
		}
	}
	return "0x" + hex
}

// TypeArgs returns the top-level generic arguments of a type tag, so
// "0x1::pool::Pool<A, B<C>, D>" yields ["A", "B<C>", "D"].
func TypeArgs(tag string) []string {
	open := strings.IndexByte(tag, '<')
	if open < 0 || !strings.HasSuffix(tag, ">") {
		return nil
	}
	inner := tag[open+1 : len(tag)-1]

	var args []string
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(inner[start:]))
}

// BaseType strips generic arguments from a type tag.
func BaseType(tag string) string {
	if open := strings.IndexByte(tag, '<'); open >= 0 {
		return tag[:open]
	}
	return tag
}
