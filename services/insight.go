package services

import (
	"fmt"
	"sort"
	"strings"

	"EmoTrackGo/models"
)

// SummaryWindowSeconds 仪表盘与建议统计的滚动窗口（秒）
const SummaryWindowSeconds = 120

// Emotion 建议表支持的情绪枚举
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionSad      Emotion = "sad"
	EmotionAngry    Emotion = "angry"
	EmotionFear     Emotion = "fear"
	EmotionNeutral  Emotion = "neutral"
	EmotionSurprise Emotion = "surprise"
)

// suggestionTable 各情绪对应的三条固定建议
// 识别服务输出的标签不在此表内时走兜底分支
var suggestionTable = map[Emotion][]string{
	EmotionHappy: {
		"Write down 3 things you're grateful for.",
		"Share positivity by messaging someone you appreciate.",
		"Do a quick joyful activity like dancing or listening to music.",
	},
	EmotionSad: {
		"Talk to a friend or someone you trust.",
		"Write your emotions in a journal.",
		"Watch something uplifting or calming.",
	},
	EmotionAngry: {
		"Take 5–10 deep breaths slowly.",
		"Go for a short walk to release frustration.",
		"Step away from the situation temporarily.",
	},
	EmotionFear: {
		"Practice slow breathing for 60 seconds.",
		"Remind yourself what is under your control.",
		"Talk to someone supportive to reduce anxiety.",
	},
	EmotionNeutral: {
		"Take a short mindful walk.",
		"Drink water and stretch your body.",
		"Plan the next task with clarity.",
	},
	EmotionSurprise: {
		"Pause and take a moment to process the situation.",
		"Identify whether the surprise is good or bad.",
		"Write down how this surprise may affect your goals.",
	},
}

// SuggestionsFor 查询情绪对应的建议列表
func SuggestionsFor(label string) ([]string, bool) {
	s, ok := suggestionTable[Emotion(label)]
	return s, ok
}

// SummarizeLogs 统计各情绪出现次数与占比
// 按次数降序排列，次数相同按标签字典序升序
func SummarizeLogs(logs []models.EmotionLog) models.SummaryResponse {
	if len(logs) == 0 {
		return models.SummaryResponse{Total: 0, Summary: []models.SummaryItem{}}
	}

	counts := make(map[string]int)
	for _, log := range logs {
		counts[log.Emotion]++
	}

	total := len(logs)
	summary := make([]models.SummaryItem, 0, len(counts))
	for emotion, count := range counts {
		summary = append(summary, models.SummaryItem{
			Emotion:    emotion,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}

	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Emotion < summary[j].Emotion
	})

	return models.SummaryResponse{Total: total, Summary: summary}
}

// DominantEmotion 返回出现次数最多的情绪标签（统一转小写）
// 次数相同时取字典序较小的标签，两处建议入口共用，保证文案一致
func DominantEmotion(logs []models.EmotionLog) string {
	counts := make(map[string]int)
	for _, log := range logs {
		counts[strings.ToLower(log.Emotion)]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var dominant string
	var best int
	for i, label := range labels {
		if i == 0 || counts[label] > best {
			dominant = label
			best = counts[label]
		}
	}
	return dominant
}

func bulletList(suggestions []string) string {
	return "\n• " + strings.Join(suggestions, "\n• ")
}

// RecommendationMessage 构建 /api/recommendation 的建议文案
func RecommendationMessage(logs []models.EmotionLog) string {
	if len(logs) == 0 {
		return "No emotion data found in the last 2 minutes."
	}

	dominant := DominantEmotion(logs)
	suggestions, ok := SuggestionsFor(dominant)
	if !ok {
		return fmt.Sprintf("No suggestions available for %s.", dominant)
	}

	return fmt.Sprintf("Based on the last 2 minutes, the dominant emotion is %s.\nHere are your suggestions:%s",
		dominant, bulletList(suggestions))
}

// BuildRecommendation 构建PDF报告用的建议文案，可结合周目标
func BuildRecommendation(logs []models.EmotionLog, goal *models.WeeklyGoal) string {
	if len(logs) == 0 {
		return "No emotion data available."
	}

	dominant := DominantEmotion(logs)

	var bullets string
	if suggestions, ok := SuggestionsFor(dominant); ok {
		bullets = bulletList(suggestions)
	} else {
		bullets = "\n• No suggestions available."
	}

	if goal != nil {
		target := strings.ToLower(goal.TargetEmotion)
		if dominant == target {
			return fmt.Sprintf("Your dominant emotion for this period was %s, "+
				"which aligns well with your weekly goal (%s).\n"+
				"Recommended actions to maintain this positive state:%s",
				dominant, target, bullets)
		}
		return fmt.Sprintf("Your dominant emotion for this period was %s, "+
			"which does not fully match your weekly goal (%s).\n"+
			"Here are some helpful activities:%s",
			dominant, target, bullets)
	}

	return fmt.Sprintf("Your dominant emotion for this period was %s.\nSuggested actions:%s",
		dominant, bullets)
}
