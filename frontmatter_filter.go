package mdv

import "bytes"

// stripFrontMatter removes a leading front matter block delimited by
// "---", "+++" or ";;;". Input that only looks like the start of one, or
// whose block is never closed, is returned unchanged.
func stripFrontMatter(src []byte) []byte {
	open, next, ok := nextLine(src, 0)
	if !ok {
		return src
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(open)
	if !isFrontMatter {
		return src
	}
	second, _, ok := nextLine(src, next)
	if !ok || !frontMatterMetadataLikely(second) {
		return src
	}
	end, found := findClosingFrontMatterDelimiter(src, next, delim)
	if !found {
		return src
	}
	return src[end:]
}

// nextLine returns the line starting at start without its terminator, and the
// offset of the following line.
func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	return trimCR(src[start : start+i]), start + i + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	for _, delim := range [][]byte{[]byte("---"), []byte("+++"), []byte(";;;")} {
		if bytes.Equal(trimmed, delim) {
			return delim, true
		}
	}
	return nil, false
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case '{', '[':
		return true
	}
	return bytes.ContainsAny(trimmed, ":=")
}

func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		idx = next
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	return bytes.TrimSuffix(b, []byte("\r"))
}

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xEF\xBB\xBF"))
}
