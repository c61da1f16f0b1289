package telegram

import (
	"strings"
	"unicode/utf8"
)

const messageLimit = 4096

// SplitMessage breaks an HTML message into parts within Telegram's size limit.
//
// The first paragraph is the header; its first line is repeated on every later part.
// After the header, each unindented line opens a block that keeps its indented
// continuation lines, so a highlighted item and its description never straddle two
// messages and no <b>/<s> pair is cut. A single block larger than a message is sent
// as plain text in several pieces.
func SplitMessage(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if utf8.RuneCountInString(trimmed) <= messageLimit {
		return []string{trimmed}
	}

	header, body := splitHeader(trimmed)
	p := &packer{}
	if header != "" {
		if first, _, _ := strings.Cut(header, "\n"); utf8.RuneCountInString(first) <= messageLimit/4 {
			p.prefix = first
		}
	}
	room := messageLimit - utf8.RuneCountInString(p.prefix) - 2

	if header != "" {
		for i, piece := range fitBlock(header, room) {
			if i == 0 {
				// blank line between the header and the first item
				piece += "\n"
			}
			p.add(piece)
		}
	}
	for _, block := range splitBlocks(body) {
		for _, piece := range fitBlock(block, room) {
			p.add(piece)
		}
	}
	return p.finish()
}

// splitHeader separates the first paragraph from the rest of the message.
func splitHeader(text string) (string, string) {
	header, body, ok := strings.Cut(text, "\n\n")
	if !ok {
		return "", text
	}
	return header, strings.TrimLeft(body, "\n")
}

// splitBlocks groups lines so that indented and blank lines stay with the line above.
func splitBlocks(body string) []string {
	var blocks []string
	for _, line := range strings.Split(body, "\n") {
		if len(blocks) > 0 && (line == "" || strings.HasPrefix(line, " ")) {
			blocks[len(blocks)-1] += "\n" + line
			continue
		}
		blocks = append(blocks, line)
	}
	return blocks
}

// fitBlock returns block unchanged when it fits in max runes. Otherwise the markup is
// dropped and the text is cut on whitespace, never inside an HTML entity.
func fitBlock(block string, max int) []string {
	if utf8.RuneCountInString(block) <= max {
		return []string{block}
	}
	runes := []rune(stripTags(block))
	var out []string
	for len(runes) > max {
		cut := safeCut(runes, max)
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			out = append(out, piece)
		}
		runes = runes[cut:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		out = append(out, rest)
	}
	return out
}

func safeCut(runes []rune, max int) int {
	cut := max
	for i := max; i > max/2; i-- {
		if runes[i-1] == '\n' || runes[i-1] == ' ' {
			cut = i
			break
		}
	}
	for i := cut - 1; i > 0 && cut-i <= 10; i-- {
		if runes[i] == ';' {
			break
		}
		if runes[i] == '&' {
			return i
		}
	}
	return cut
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// packer fills parts with whole blocks joined by newlines.
type packer struct {
	prefix string
	parts  []string
	cur    []string
	size   int
}

func (p *packer) add(block string) {
	n := utf8.RuneCountInString(block)
	if len(p.cur) > 0 && p.size+1+n > messageLimit {
		p.flush()
	}
	if len(p.cur) == 0 && len(p.parts) > 0 && p.prefix != "" {
		p.cur = append(p.cur, p.prefix+"\n")
		p.size = utf8.RuneCountInString(p.prefix) + 1
	}
	if len(p.cur) > 0 {
		p.size++
	}
	p.cur = append(p.cur, block)
	p.size += n
}

func (p *packer) flush() {
	if len(p.cur) == 0 {
		return
	}
	if part := strings.TrimSpace(strings.Join(p.cur, "\n")); part != "" {
		p.parts = append(p.parts, part)
	}
	p.cur, p.size = nil, 0
}

func (p *packer) finish() []string {
	p.flush()
	return p.parts
}
