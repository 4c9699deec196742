// Package generation calls the external text-generation API to produce
// personalized kanji study content. The scheduling core never imports
// this package; it is consumed by the recommendations handler. Every
// call degrades to deterministic fallback content on failure so a dead
// generation backend never blocks lessons.
package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"kanji-service/internal/models"
)

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
	}
}

type chatCompletionRequest struct {
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
	Stream   bool                    `json:"stream"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends one prompt and returns the raw completion text.
func (c *Client) Generate(prompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:    c.Model,
		Messages: []chatCompletionMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("generation API returned no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

var jsonBlockPattern = regexp.MustCompile(`\{[\s\S]*\}`)

type kanjiPayload struct {
	Meaning             string                   `json:"meaning"`
	AlternativeMeanings []string                 `json:"alternativeMeanings"`
	Onyomi              []string                 `json:"onyomi"`
	Kunyomi             []string                 `json:"kunyomi"`
	MeaningMnemonic     string                   `json:"meaningMnemonic"`
	ReadingMnemonic     string                   `json:"readingMnemonic"`
	ContextSentences    []models.ContextSentence `json:"contextSentences"`
	Difficulty          string                   `json:"difficulty"`
}

// GenerateKanji produces full study data for one character. On any
// failure it logs and returns the fallback variant instead of erroring.
func (c *Client) GenerateKanji(character string, jlptLevel int, difficulty string) *models.GeneratedKanji {
	prompt := fmt.Sprintf(`Generate learning data for the Japanese kanji %q (JLPT N%d) as JSON with keys:
meaning, alternativeMeanings, onyomi, kunyomi, meaningMnemonic, readingMnemonic,
contextSentences (array of {japanese, english, reading}), difficulty (easy/medium/hard).
Target difficulty: %s. Make the mnemonics vivid and memorable.`, character, jlptLevel, difficulty)

	text, err := c.Generate(prompt)
	if err != nil {
		log.Printf("Kanji generation failed for %q: %v", character, err)
		return fallbackKanji(character, jlptLevel)
	}

	match := jsonBlockPattern.FindString(text)
	if match == "" {
		log.Printf("Kanji generation returned no JSON for %q", character)
		return fallbackKanji(character, jlptLevel)
	}

	var payload kanjiPayload
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		log.Printf("Kanji generation returned malformed JSON for %q: %v", character, err)
		return fallbackKanji(character, jlptLevel)
	}

	generated := &models.GeneratedKanji{
		Character:           character,
		Meaning:             payload.Meaning,
		AlternativeMeanings: payload.AlternativeMeanings,
		Onyomi:              payload.Onyomi,
		Kunyomi:             payload.Kunyomi,
		JLPTLevel:           jlptLevel,
		MeaningMnemonic:     payload.MeaningMnemonic,
		ReadingMnemonic:     payload.ReadingMnemonic,
		ContextSentences:    payload.ContextSentences,
		Difficulty:          payload.Difficulty,
		IsGenerated:         true,
	}
	if generated.Meaning == "" {
		return fallbackKanji(character, jlptLevel)
	}
	if generated.Difficulty == "" {
		generated.Difficulty = "medium"
	}
	return generated
}

func fallbackKanji(character string, jlptLevel int) *models.GeneratedKanji {
	return &models.GeneratedKanji{
		Character:       character,
		Meaning:         "Unknown",
		JLPTLevel:       jlptLevel,
		MeaningMnemonic: fmt.Sprintf("Remember %s by visualizing its shape.", character),
		ReadingMnemonic: fmt.Sprintf("Practice the reading of %s.", character),
		Difficulty:      "medium",
		IsGenerated:     false,
	}
}
