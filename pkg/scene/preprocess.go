package scene

import "strings"

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// preprocess rewrites scene source into something zygomys accepts:
//
//   - :keyword becomes the string "__kw_keyword", so keywords never clash
//     with user symbols and need no global registration.
//   - kebab-case identifiers become snake_case (stroke-width -> stroke_width)
//     since zygomys reads a hyphen as subtraction.
//   - ; comments become // comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocess(src string) string {
	var out strings.Builder
	out.Grow(len(src) + len(src)/4)

	n := len(src)
	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '"':
			j := skipQuoted(src, i)
			out.WriteString(src[i:j])
			i = j

		case c == '`':
			j := strings.IndexByte(src[i+1:], '`')
			if j < 0 {
				out.WriteString(src[i:])
				return out.String()
			}
			out.WriteString(src[i : i+j+2])
			i += j + 2

		case c == ';':
			for i < n && src[i] == ';' {
				i++
			}
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = n - i
			}
			out.WriteString("//")
			out.WriteString(src[i : i+end])
			i += end

		case c == ':' && i+1 < n && src[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < n && isLetter(src[i+1]):
			j := i + 1
			for j < n && isKeywordChar(src[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(src[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < n && isIdentChar(src[i-1]) && isLetter(src[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the double-quoted literal
// starting at i, honouring backslash escapes.
func skipQuoted(src string, i int) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(src)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isKeywordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
