package app

import "strings"

type SegmentKind string

const (
	SegmentKindText SegmentKind = "text"
	SegmentCode SegmentKind = "code"
)

// Segment is one slice of a response body: either plain text or the inside
// of a fenced code block. Segments are derived transiently from message
// content and never persisted.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Content string      `json:"content"`
	// Language is the trimmed tag token following the opening fence.
	// Tagged distinguishes a bare ``` fence (no token at all) from a
	// fence whose token trimmed down to the empty string.
	Language string `json:"language,omitempty"`
	Tagged   bool   `json:"-"`

	// raw is the exact source span this segment was cut from, fence
	// markers included. Concatenating raw over all segments reproduces
	// the input byte for byte.
	raw string
}

// Reassemble rebuilds the original text from a segmentation produced by
// SegmentText. For hand-built segments without source spans it falls back
// to Content.
func Reassemble(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.raw != "" || s.Content == "" {
			b.WriteString(s.raw)
		} else {
			b.WriteString(s.Content)
		}
	}
	return b.String()
}

// SegmentText decomposes text into alternating plain-text and fenced-code
// segments. It is a two-state scanner over line boundaries: a line starting
// with ``` opens a fence, a line that is exactly ``` (modulo surrounding
// whitespace) closes it. An unterminated fence and everything after it is
// plain text. Zero-length text segments are omitted; content is never
// dropped. Never fails.
func SegmentText(text string) []Segment {
	if text == "" {
		return []Segment{}
	}

	lines := splitLines(text)
	segments := make([]Segment, 0, 4)

	// pendingRaw holds delimiter-only bytes (a text run whose content
	// emptied out) so reassembly stays exact even though the segment
	// itself is omitted.
	pendingRaw := ""
	emit := func(seg Segment) {
		seg.raw = pendingRaw + seg.raw
		pendingRaw = ""
		segments = append(segments, seg)
	}

	textStart := 0 // byte offset where the current text run began
	i := 0
	for i < len(lines) {
		ln := lines[i]
		if !isOpeningFence(ln.content) {
			i++
			continue
		}
		end := findClosingFence(lines, i+1)
		if end < 0 {
			// Unterminated fence: the marker and the rest stay text.
			break
		}

		if ln.start > textStart {
			seg := textSegment(text, textStart, ln.start)
			if seg.Content == "" {
				pendingRaw += seg.raw
			} else {
				emit(seg)
			}
		}

		codeStart := ln.end // first byte after the opening fence line
		codeEnd := lines[end].start
		content := text[codeStart:codeEnd]
		content = strings.TrimSuffix(content, "\n")

		token := ln.content[3:]
		emit(Segment{
			Kind:     SegmentCode,
			Content:  content,
			Language: strings.TrimSpace(token),
			Tagged:   token != "",
			raw:      text[ln.start:lines[end].end],
		})

		textStart = lines[end].end
		i = end + 1
	}

	if textStart < len(text) {
		emit(textSegment(text, textStart, len(text)))
	} else if pendingRaw != "" && len(segments) > 0 {
		segments[len(segments)-1].raw += pendingRaw
	}

	if len(segments) == 0 {
		segments = append(segments, Segment{Kind: SegmentKindText, Content: text, raw: text})
	}
	return segments
}

// textSegment cuts [start, end) out of text. A single newline directly
// before a fence belongs to the fence delimiter, so it is stripped from the
// content (but kept in the raw span).
func textSegment(text string, start, end int) Segment {
	raw := text[start:end]
	content := raw
	if end < len(text) {
		content = strings.TrimSuffix(content, "\n")
	}
	return Segment{Kind: SegmentKindText, Content: content, raw: raw}
}

type line struct {
	content string // without the trailing newline
	start   int    // byte offset of the first character
	end     int    // byte offset just past the newline (or past EOF)
}

func splitLines(text string) []line {
	lines := make([]line, 0, 16)
	start := 0
	for start <= len(text) {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			if start < len(text) {
				lines = append(lines, line{content: text[start:], start: start, end: len(text)})
			}
			break
		}
		lines = append(lines, line{content: text[start : start+idx], start: start, end: start + idx + 1})
		start = start + idx + 1
	}
	return lines
}

func isOpeningFence(content string) bool {
	return strings.HasPrefix(content, "```")
}

func isClosingFence(content string) bool {
	return strings.TrimSpace(content) == "```"
}

func findClosingFence(lines []line, from int) int {
	for j := from; j < len(lines); j++ {
		if isClosingFence(lines[j].content) {
			return j
		}
	}
	return -1
}
