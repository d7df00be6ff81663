package usecase

import (
	"math"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

const (
	weightRetrieval     = 0.30
	weightDocument      = 0.20
	weightHallucination = 0.20
	weightRelevance     = 0.20
	weightSource        = 0.10

	// Source confidence saturates at this many retrieved chunks.
	sourceSaturation = 5.0

	confidenceHigh   = 0.8
	confidenceMedium = 0.6
)

// confidenceComponents derives the five per-signal scores, each in
// [0,1], from a run's current state.
func confidenceComponents(state *domain.WorkflowState) domain.ConfidenceComponents {
	var retrieval float64
	if n := len(state.RetrievedChunks); n > 0 {
		var sum float64
		for _, chunk := range state.RetrievedChunks {
			sum += chunk.Score
		}
		retrieval = clamp01(sum / float64(n))
	}

	components := domain.ConfidenceComponents{
		Retrieval: retrieval,
		Source:    math.Min(float64(len(state.RetrievedChunks))/sourceSaturation, 1.0),
	}
	if state.DocumentGrade == domain.VerdictYes {
		components.Document = 1.0
	}
	if state.HallucinationCheck == domain.VerdictNo {
		components.Hallucination = 1.0
	}
	if state.RelevanceCheck == domain.VerdictYes {
		components.Relevance = 1.0
	}
	return components
}

// scoreConfidence folds the weighted components into one score, rounded
// to three decimals, and the matching level.
func scoreConfidence(state *domain.WorkflowState) (float64, string, domain.ConfidenceComponents) {
	components := confidenceComponents(state)

	score := components.Retrieval*weightRetrieval +
		components.Document*weightDocument +
		components.Hallucination*weightHallucination +
		components.Relevance*weightRelevance +
		components.Source*weightSource
	score = math.Round(score*1000) / 1000

	level := "low"
	switch {
	case score >= confidenceHigh:
		level = "high"
	case score >= confidenceMedium:
		level = "medium"
	}
	return score, level, components
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
