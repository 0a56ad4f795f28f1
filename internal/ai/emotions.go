package ai

// EmotionLabels is the GoEmotions vocabulary. Chat replies may use an open
// vocabulary; report profiles are constrained to this set.
var EmotionLabels = []string{
	"Admiration", "Amusement", "Anger", "Annoyance", "Approval", "Caring",
	"Confusion", "Curiosity", "Desire", "Disappointment", "Disapproval",
	"Disgust", "Embarrassment", "Excitement", "Fear", "Gratitude", "Grief",
	"Joy", "Love", "Nervousness", "Optimism", "Pride", "Realization",
	"Relief", "Remorse", "Sadness", "Surprise", "Neutral",
}
