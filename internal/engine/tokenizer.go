package engine

// HeuristicTokenizer approximates token counts at four runes per token. The
// llama runtime tokenizes for real during prediction and enforces its own
// context bound; this bound only keeps oversized prompts from reaching it.
type HeuristicTokenizer struct{}

const runesPerToken = 4

func (HeuristicTokenizer) Count(text string) int {
	n := len([]rune(text))
	return (n + runesPerToken - 1) / runesPerToken
}

func (HeuristicTokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	runes := []rune(text)
	limit := maxTokens * runesPerToken
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
