package utils

import "strings"

// emojiRanges covers the unicode blocks stripped when a user disables
// emojis: pictographs, emoticons, transport, supplemental symbols, flags,
// dingbats and misc symbols, plus the variation selector and ZWJ used in
// emoji sequences.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA70, 0x1FAFF}, // symbols and pictographs extended-A
	{0x1F1E6, 0x1F1FF}, // regional indicators (flags)
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
	{0xFE0F, 0xFE0F},   // variation selector-16
	{0x200D, 0x200D},   // zero-width joiner
}

// IsEmoji reports whether the rune falls in an emoji block
func IsEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// ContainsEmoji reports whether the string carries any emoji code point
func ContainsEmoji(s string) bool {
	for _, r := range s {
		if IsEmoji(r) {
			return true
		}
	}
	return false
}

// StripEmojis removes emoji code points and preserves all other text
func StripEmojis(s string) string {
	if !ContainsEmoji(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !IsEmoji(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
