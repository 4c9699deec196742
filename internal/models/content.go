package models

import "time"

// ItemRef points at one catalog item without carrying its body.
type ItemRef struct {
	ItemType ItemType `bson:"item_type" json:"item_type"`
	ItemID   string   `bson:"item_id" json:"item_id"`
}

// Radical is a kanji building block.
type Radical struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Character   string    `bson:"character" json:"character"`
	Name        string    `bson:"name" json:"name"`
	PrimaryName string    `bson:"primary_name" json:"primary_name"`
	Meaning     string    `bson:"meaning" json:"meaning"`
	StrokeCount int       `bson:"stroke_count" json:"stroke_count"`
	Level       int       `bson:"level" json:"level"`
	Mnemonic    string    `bson:"mnemonic" json:"mnemonic"`
	Explanation string    `bson:"explanation" json:"explanation"`
	IsGenerated bool      `bson:"is_generated" json:"is_generated"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// KanjiItem is one catalog kanji with its readings and mnemonics.
type KanjiItem struct {
	ID                  string            `bson:"_id,omitempty" json:"id"`
	Character           string            `bson:"character" json:"character"`
	Meaning             string            `bson:"meaning" json:"meaning"`
	AlternativeMeanings []string          `bson:"alternative_meanings" json:"alternative_meanings"`
	Onyomi              []string          `bson:"onyomi" json:"onyomi"`
	Kunyomi             []string          `bson:"kunyomi" json:"kunyomi"`
	StrokeCount         int               `bson:"stroke_count" json:"stroke_count"`
	JLPTLevel           int               `bson:"jlpt_level" json:"jlpt_level"`
	Level               int               `bson:"level" json:"level"`
	MeaningMnemonic     string            `bson:"meaning_mnemonic" json:"meaning_mnemonic"`
	ReadingMnemonic     string            `bson:"reading_mnemonic" json:"reading_mnemonic"`
	RadicalIDs          []string          `bson:"radical_ids" json:"radical_ids"`
	ContextSentences    []ContextSentence `bson:"context_sentences" json:"context_sentences"`
	IsGenerated         bool              `bson:"is_generated" json:"is_generated"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
}

// Vocabulary is a word built from catalog kanji.
type Vocabulary struct {
	ID                  string            `bson:"_id,omitempty" json:"id"`
	Word                string            `bson:"word" json:"word"`
	Reading             string            `bson:"reading" json:"reading"`
	Meaning             string            `bson:"meaning" json:"meaning"`
	AlternativeMeanings []string          `bson:"alternative_meanings" json:"alternative_meanings"`
	WordType            string            `bson:"word_type" json:"word_type"`
	Level               int               `bson:"level" json:"level"`
	ContextSentences    []ContextSentence `bson:"context_sentences" json:"context_sentences"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
}

type ContextSentence struct {
	Japanese string `bson:"japanese" json:"japanese"`
	English  string `bson:"english" json:"english"`
	Reading  string `bson:"reading" json:"reading"`
}

// GeneratedKanji is a user-specific kanji variant produced by the
// content generation collaborator, with mnemonics tailored to the user.
type GeneratedKanji struct {
	ID                  string            `bson:"_id,omitempty" json:"id"`
	UserID              string            `bson:"user_id" json:"user_id"`
	Character           string            `bson:"character" json:"character"`
	Meaning             string            `bson:"meaning" json:"meaning"`
	AlternativeMeanings []string          `bson:"alternative_meanings" json:"alternative_meanings"`
	Onyomi              []string          `bson:"onyomi" json:"onyomi"`
	Kunyomi             []string          `bson:"kunyomi" json:"kunyomi"`
	JLPTLevel           int               `bson:"jlpt_level" json:"jlpt_level"`
	MeaningMnemonic     string            `bson:"meaning_mnemonic" json:"meaning_mnemonic"`
	ReadingMnemonic     string            `bson:"reading_mnemonic" json:"reading_mnemonic"`
	ContextSentences    []ContextSentence `bson:"context_sentences" json:"context_sentences"`
	Difficulty          string            `bson:"difficulty" json:"difficulty"`
	UserLevel           int               `bson:"user_level" json:"user_level"`
	IsGenerated         bool              `bson:"is_generated" json:"is_generated"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
}
