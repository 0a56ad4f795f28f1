package report

// EmotionalProfileItem is one bar of the report's emotion chart.
type EmotionalProfileItem struct {
	Emotion string `json:"emotion"`
	Score   int    `json:"score"` // 0-100
	Color   string `json:"color"` // hex
}

// AnalysisReport is the derived psychological summary of one session.
// Computed on demand; never persisted outside a job result.
type AnalysisReport struct {
	Timestamp              string                 `json:"timestamp"`
	PatientName            string                 `json:"patientName"`
	StressLevel            int                    `json:"stressLevel"` // 0-100
	EmotionalProfile       []EmotionalProfileItem `json:"emotionalProfile"`
	RootCauseAnalysis      string                 `json:"rootCauseAnalysis"`
	LongTermStrategy       string                 `json:"longTermStrategy"`
	InputSummary           string                 `json:"inputSummary"`
	SuggestedInterventions []string               `json:"suggestedInterventions"`
}
