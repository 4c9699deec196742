package service

import (
	"context"
	"fmt"
	"time"

	"kanji-service/internal/models"
)

// batchSize is how many kanji one generation round produces.
const batchSize = 5

// jlptPools holds the candidate characters for each JLPT level. The
// generator fills in meanings and mnemonics; the pools only decide
// which characters a user at a given level may be assigned.
var jlptPools = map[int][]string{
	5: {"日", "一", "人", "大", "年", "中", "本", "山", "川", "水", "火", "木", "金", "土", "月", "上", "下", "左", "右", "口", "目", "手", "耳", "足", "田"},
	4: {"会", "同", "事", "自", "社", "発", "者", "地", "業", "方", "新", "場", "員", "立", "開", "手", "力", "問", "題", "世", "界", "全", "部", "家", "話"},
	3: {"政", "議", "民", "連", "対", "部", "合", "市", "内", "相", "定", "回", "選", "米", "実", "関", "決", "全", "表", "戦", "経", "最", "現", "調", "化"},
	2: {"党", "協", "総", "区", "領", "県", "設", "保", "改", "第", "結", "派", "府", "査", "委", "軍", "案", "策", "団", "際", "載", "副", "歳", "師", "額"},
	1: {"氏", "統", "保", "第", "結", "派", "府", "査", "憲", "巡", "墾", "酌", "遵", "楼", "繕", "褒", "芙", "蓉", "寡", "窯", "雌", "薦", "疎", "竜", "翁"},
}

// JLPTForLevel maps an internal user level to the JLPT band whose
// kanji the user should be studying.
func JLPTForLevel(level int) int {
	switch {
	case level <= 10:
		return 5
	case level <= 20:
		return 4
	case level <= 35:
		return 3
	case level <= 50:
		return 2
	default:
		return 1
	}
}

// Recommendations is the personalized content picture for one user:
// the current generated batch plus whatever this call added to it.
type Recommendations struct {
	Level        int                     `json:"level"`
	JLPTLevel    int                     `json:"jlpt_level"`
	Difficulty   Difficulty              `json:"difficulty"`
	Items        []models.GeneratedKanji `json:"items"`
	GeneratedNow []models.GeneratedKanji `json:"generated_now"`
}

// ContentService serves the personalized content surface: catalog
// browsing plus lazily replenished generated kanji batches.
type ContentService struct {
	Users     UserStore
	Generated GeneratedStore
	Selector  *SelectorService

	generator Generator
}

func NewContentService(users UserStore, generated GeneratedStore, selector *SelectorService, generator Generator) *ContentService {
	return &ContentService{
		Users:     users,
		Generated: generated,
		Selector:  selector,
		generator: generator,
	}
}

// GetRecommendations returns the user's generated batch, first topping
// it up when the selector reports the current one is used up. Top-up is
// best effort per character: a character the user already has is
// skipped rather than regenerated.
func (s *ContentService) GetRecommendations(ctx context.Context, userID string, now time.Time) (*Recommendations, error) {
	level := 1
	if state, err := s.Users.Find(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	} else if state != nil {
		level = state.Level
	}
	jlpt := JLPTForLevel(level)

	difficulty, err := s.Selector.RecommendDifficulty(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	rec := &Recommendations{Level: level, JLPTLevel: jlpt, Difficulty: difficulty}

	replenish, err := s.Selector.ShouldGenerateMore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if replenish && s.generator != nil {
		generated, err := s.generateBatch(ctx, userID, level, jlpt, difficulty, now)
		if err != nil {
			return nil, err
		}
		rec.GeneratedNow = generated
	}

	items, err := s.Generated.ListGenerated(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing generated kanji: %w", err)
	}
	rec.Items = items
	return rec, nil
}

func (s *ContentService) generateBatch(ctx context.Context, userID string, level, jlpt int, difficulty Difficulty, now time.Time) ([]models.GeneratedKanji, error) {
	pool := jlptPools[jlpt]

	var generated []models.GeneratedKanji
	for _, character := range pool {
		if len(generated) == batchSize {
			break
		}
		existing, err := s.Generated.FindGeneratedByCharacter(ctx, userID, character)
		if err != nil {
			return nil, fmt.Errorf("checking character %s: %w", character, err)
		}
		if existing != nil {
			continue
		}

		k := s.generator.GenerateKanji(character, jlpt, string(difficulty))
		k.UserID = userID
		k.UserLevel = level
		k.CreatedAt = now
		if err := s.Generated.InsertGenerated(ctx, k); err != nil {
			return nil, fmt.Errorf("storing generated kanji %s: %w", character, err)
		}
		generated = append(generated, *k)
	}
	return generated, nil
}
