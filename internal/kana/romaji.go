// Package kana converts romaji input to hiragana for answer checking.
package kana

import "strings"

// Longest-match table. Multi-letter sequences are tried before shorter
// ones, so entries only need to exist at their natural length.
var romajiTable = map[string]string{
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",
	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"sa": "さ", "shi": "し", "si": "し", "su": "す", "se": "せ", "so": "そ",
	"ta": "た", "chi": "ち", "ti": "ち", "tsu": "つ", "tu": "つ", "te": "て", "to": "と",
	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の",
	"ha": "は", "hi": "ひ", "fu": "ふ", "hu": "ふ", "he": "へ", "ho": "ほ",
	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"ya": "や", "yu": "ゆ", "yo": "よ",
	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"wa": "わ", "wo": "を",
	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"za": "ざ", "ji": "じ", "zi": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",
	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"kya": "きゃ", "kyu": "きゅ", "kyo": "きょ",
	"sha": "しゃ", "shu": "しゅ", "sho": "しょ",
	"sya": "しゃ", "syu": "しゅ", "syo": "しょ",
	"cha": "ちゃ", "chu": "ちゅ", "cho": "ちょ",
	"tya": "ちゃ", "tyu": "ちゅ", "tyo": "ちょ",
	"nya": "にゃ", "nyu": "にゅ", "nyo": "にょ",
	"hya": "ひゃ", "hyu": "ひゅ", "hyo": "ひょ",
	"mya": "みゃ", "myu": "みゅ", "myo": "みょ",
	"rya": "りゃ", "ryu": "りゅ", "ryo": "りょ",
	"gya": "ぎゃ", "gyu": "ぎゅ", "gyo": "ぎょ",
	"ja": "じゃ", "ju": "じゅ", "jo": "じょ",
	"jya": "じゃ", "jyu": "じゅ", "jyo": "じょ",
	"bya": "びゃ", "byu": "びゅ", "byo": "びょ",
	"pya": "ぴゃ", "pyu": "ぴゅ", "pyo": "ぴょ",
	"n'": "ん",
	"-":  "ー",
}

func isConsonant(c byte) bool {
	switch c {
	case 'a', 'i', 'u', 'e', 'o', 'n', '\'', '-':
		return false
	}
	return c >= 'a' && c <= 'z'
}

// ToHiragana converts romaji to hiragana using longest-match lookup
// (three characters, then two, then one). A doubled consonant becomes a
// small tsu, and a lone "n" not followed by a vowel becomes ん. Input
// the table cannot resolve passes through unchanged.
func ToHiragana(input string) string {
	s := strings.ToLower(input)
	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); {
		// Doubled consonant: "kko" -> small tsu + "ko".
		if i+1 < len(s) && s[i] == s[i+1] && isConsonant(s[i]) {
			out.WriteString("っ")
			i++
			continue
		}

		matched := false
		for length := 3; length >= 1; length-- {
			if i+length > len(s) {
				continue
			}
			chunk := s[i : i+length]
			if length == 1 && chunk == "n" {
				// "n" before a consonant or at the end is the syllabic ん;
				// before a vowel it belongs to the next syllable.
				if i+1 >= len(s) || !strings.ContainsRune("aiueoy", rune(s[i+1])) {
					out.WriteString("ん")
					i++
					matched = true
					break
				}
			}
			if kana, ok := romajiTable[chunk]; ok {
				out.WriteString(kana)
				i += length
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(s[i])
			i++
		}
	}
	return out.String()
}
