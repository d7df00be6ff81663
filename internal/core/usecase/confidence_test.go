package usecase

import (
	"math"
	"testing"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

func chunksWithScore(n int, score float64) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, n)
	for i := range out {
		out[i] = domain.ScoredChunk{Score: score}
	}
	return out
}

func TestScoreConfidenceAllSignalsMax(t *testing.T) {
	state := &domain.WorkflowState{
		RetrievedChunks:    chunksWithScore(5, 1.0),
		DocumentGrade:      domain.VerdictYes,
		HallucinationCheck: domain.VerdictNo,
		RelevanceCheck:     domain.VerdictYes,
	}

	score, level, components := scoreConfidence(state)
	if score != 1.0 {
		t.Fatalf("score = %v, want 1.0", score)
	}
	if level != "high" {
		t.Fatalf("level = %s, want high", level)
	}
	if components.Source != 1.0 || components.Retrieval != 1.0 {
		t.Fatalf("unexpected components: %+v", components)
	}
}

func TestScoreConfidenceWeightsAndRounding(t *testing.T) {
	state := &domain.WorkflowState{
		RetrievedChunks:    chunksWithScore(3, 0.7),
		DocumentGrade:      domain.VerdictYes,
		HallucinationCheck: domain.VerdictNo,
		RelevanceCheck:     domain.VerdictNo,
	}

	score, level, _ := scoreConfidence(state)
	// 0.7*0.30 + 1*0.20 + 1*0.20 + 0*0.20 + (3/5)*0.10
	want := math.Round((0.21+0.20+0.20+0.06)*1000) / 1000
	if score != want {
		t.Fatalf("score = %v, want %v", score, want)
	}
	if level != "medium" {
		t.Fatalf("level = %s, want medium", level)
	}
}

func TestScoreConfidenceEmptyRetrieval(t *testing.T) {
	score, level, components := scoreConfidence(&domain.WorkflowState{})
	if score != 0 {
		t.Fatalf("score = %v, want 0", score)
	}
	if level != "low" {
		t.Fatalf("level = %s, want low", level)
	}
	if components.Retrieval != 0 || components.Source != 0 {
		t.Fatalf("expected zero components, got %+v", components)
	}
}

func TestScoreConfidenceClampsRetrievalScores(t *testing.T) {
	state := &domain.WorkflowState{RetrievedChunks: chunksWithScore(2, 3.5)}
	_, _, components := scoreConfidence(state)
	if components.Retrieval != 1.0 {
		t.Fatalf("retrieval component = %v, want clamped 1.0", components.Retrieval)
	}
}

func TestScoreConfidenceSourceSaturation(t *testing.T) {
	state := &domain.WorkflowState{RetrievedChunks: chunksWithScore(8, 0.5)}
	_, _, components := scoreConfidence(state)
	if components.Source != 1.0 {
		t.Fatalf("source component = %v, want saturated 1.0", components.Source)
	}

	state = &domain.WorkflowState{RetrievedChunks: chunksWithScore(2, 0.5)}
	_, _, components = scoreConfidence(state)
	if components.Source != 0.4 {
		t.Fatalf("source component = %v, want 0.4", components.Source)
	}
}

func TestConfidenceLevelBoundariesAreInclusive(t *testing.T) {
	// All signals max except relevance lands exactly on the high
	// boundary: 0.30 + 0.20 + 0.20 + 0 + 0.10 = 0.80.
	state := &domain.WorkflowState{
		RetrievedChunks:    chunksWithScore(5, 1.0),
		DocumentGrade:      domain.VerdictYes,
		HallucinationCheck: domain.VerdictNo,
	}
	score, level, _ := scoreConfidence(state)
	if score != 0.8 || level != "high" {
		t.Fatalf("got score=%v level=%s, want 0.8 high", score, level)
	}

	// Dropping hallucination too lands exactly on the medium
	// boundary: 0.30 + 0.20 + 0 + 0 + 0.10 = 0.60.
	state.HallucinationCheck = domain.VerdictYes
	score, level, _ = scoreConfidence(state)
	if score != 0.6 || level != "medium" {
		t.Fatalf("got score=%v level=%s, want 0.6 medium", score, level)
	}

	// Retrieval and source alone stay low: 0.30 + 0.10 = 0.40.
	state.DocumentGrade = domain.VerdictNo
	score, level, _ = scoreConfidence(state)
	if score != 0.4 || level != "low" {
		t.Fatalf("got score=%v level=%s, want 0.4 low", score, level)
	}
}
