package kana

import "testing"

func TestToHiragana(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"single vowel", "a", "あ"},
		{"basic word", "neko", "ねこ"},
		{"digraph shi", "sushi", "すし"},
		{"three letter syllable", "tsunami", "つなみ"},
		{"youon", "kyoto", "きょと"},
		{"ja digraph", "jikan", "じかん"},
		{"doubled consonant", "kitte", "きって"},
		{"doubled consonant at start of cluster", "gakkou", "がっこう"},
		{"syllabic n at end", "nihon", "にほん"},
		{"syllabic n before consonant", "kanji", "かんじ"},
		{"explicit nn", "konnichiha", "こんにちは"},
		{"apostrophe n", "kon'ya", "こんや"},
		{"long vowel dash", "ra-men", "らーめん"},
		{"uppercase normalized", "NEKO", "ねこ"},
		{"empty", "", ""},
		{"unknown characters pass through", "ne ko!", "ね こ!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToHiragana(tc.input)
			if got != tc.expected {
				t.Errorf("ToHiragana(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNBeforeVowelJoinsSyllable(t *testing.T) {
	// "na" must become な, never んあ.
	if got := ToHiragana("nani"); got != "なに" {
		t.Errorf("expected なに, got %q", got)
	}
}

func TestNBeforeYStaysWithDigraph(t *testing.T) {
	// "nya" belongs to the digraph; only "n'" or "nn" splits it.
	if got := ToHiragana("nyanko"); got != "にゃんこ" {
		t.Errorf("expected にゃんこ, got %q", got)
	}
}
