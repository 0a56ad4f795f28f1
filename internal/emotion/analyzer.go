package emotion

import "strings"

// Result is the local engine's verdict for one utterance.
type Result struct {
	Dominant         string
	Score            int
	Reply            string
	SuggestedActions []string
}

// bucketOrder fixes the precedence between labels: on tied scores the
// earlier label wins, so identical input always yields identical output.
var bucketOrder = []string{
	"Sadness", "Joy", "Nervousness", "Anger", "Gratitude", "Confusion",
}

var keywordBuckets = map[string][]string{
	"Sadness": {
		"sad", "unhappy", "down", "depressed", "cry", "lonely", "miserable",
		"heartbroken", "grief", "hopeless", "lost", "hurt",
	},
	"Joy": {
		"happy", "joyful", "great", "good", "wonderful", "excited", "amazing",
		"awesome", "fantastic", "glad", "delighted",
	},
	"Nervousness": {
		"anxious", "stressed", "worried", "nervous", "overwhelmed", "panic",
		"scared", "afraid", "tense", "restless",
	},
	"Anger": {
		"angry", "frustrated", "mad", "furious", "annoyed", "irritated",
		"fed up", "rage", "resent",
	},
	"Gratitude": {
		"thank", "grateful", "appreciate", "thanks",
	},
	"Confusion": {
		"confused", "unsure", "don't know", "no idea", "lost track", "puzzled",
	},
}

const exclamationBoost = 2

var replies = map[string]string{
	"Sadness":     "I'm sorry to hear you're feeling that way. It's okay to feel sad, and I'm here to listen whenever you need to talk.",
	"Joy":         "That's wonderful to hear! I'm glad you're feeling happy. What's making you feel this way?",
	"Nervousness": "It sounds like you're going through a stressful time. Remember to be kind to yourself. Let's talk through what's on your mind.",
	"Anger":       "It's completely valid to feel angry. Your feelings are important. What's causing this frustration?",
	"Gratitude":   "You're very welcome. I'm glad I could be here for you.",
	"Confusion":   "That sounds disorienting. Let's slow down and untangle it together, one piece at a time.",
	"Neutral":     "Thank you for sharing that with me. Can you tell me more about what's on your mind?",
}

var actions = map[string][]string{
	"Sadness":     {"Reach out to someone you trust", "Write down what you're feeling", "Be gentle with yourself today"},
	"Joy":         {"Savor the moment", "Share the good news with someone close"},
	"Nervousness": {"Try a slow breathing exercise", "Break the worry into small concrete steps", "Take a short walk"},
	"Anger":       {"Pause before responding", "Name what triggered the feeling", "Channel the energy into movement"},
	"Gratitude":   {"Keep a gratitude note for today"},
	"Confusion":   {"List what you do know", "Pick one question to answer first"},
	"Neutral":     {"Keep the conversation going", "Reflect on how today has felt"},
}

var greetings = []string{"hi", "hello", "hey"}

const greetingReply = "Hello there! How are you feeling today?"

// Analyze scores the utterance against the keyword buckets and returns the
// dominant label with a canned empathetic reply. Only text is scored; image
// and audio payloads are accepted upstream but not decoded here.
func Analyze(text string) Result {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return neutral()
	}

	scores := make(map[string]int)
	for label, words := range keywordBuckets {
		for _, w := range words {
			if strings.Contains(normalized, w) {
				scores[label] += 3
			}
		}
	}

	if n := strings.Count(text, "!"); n > 0 {
		scores["Joy"] += n * exclamationBoost
	}

	best, bestScore := "", 0
	for _, label := range bucketOrder {
		if s := scores[label]; s > bestScore {
			best, bestScore = label, s
		}
	}

	if bestScore == 0 {
		for _, word := range strings.FieldsFunc(normalized, func(r rune) bool {
			return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?'
		}) {
			for _, g := range greetings {
				if word == g {
					return Result{
						Dominant:         "Neutral",
						Reply:            greetingReply,
						SuggestedActions: actions["Neutral"],
					}
				}
			}
		}
		return neutral()
	}

	return Result{
		Dominant:         best,
		Score:            bestScore,
		Reply:            replies[best],
		SuggestedActions: actions[best],
	}
}

func neutral() Result {
	return Result{
		Dominant:         "Neutral",
		Reply:            replies["Neutral"],
		SuggestedActions: actions["Neutral"],
	}
}
