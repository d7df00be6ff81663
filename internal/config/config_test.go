package config

import "testing"

func TestLoadRetrievalDefaults(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("FUSION_RRF_K", "")
	t.Setenv("FUSION_TOP_N", "")
	t.Setenv("CORPUS_VERSION", "")

	cfg := Load()
	if cfg.RetrievalTopK != 15 {
		t.Fatalf("expected default retrieval top k 15, got %d", cfg.RetrievalTopK)
	}
	if cfg.FusionRRFK != 60 {
		t.Fatalf("expected default fusion rrf k 60, got %d", cfg.FusionRRFK)
	}
	if cfg.FusionTopN != 8 {
		t.Fatalf("expected default fusion top n 8, got %d", cfg.FusionTopN)
	}
	if cfg.CorpusVersion != "v1" {
		t.Fatalf("expected default corpus version v1, got %q", cfg.CorpusVersion)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "25")
	t.Setenv("FUSION_RRF_K", "90")
	t.Setenv("FUSION_TOP_N", "12")
	t.Setenv("API_RATE_LIMIT_RPS", "3")
	t.Setenv("OPENAI_JUDGE_MODEL", "judge-override")

	cfg := Load()
	if cfg.RetrievalTopK != 25 {
		t.Fatalf("expected retrieval top k 25, got %d", cfg.RetrievalTopK)
	}
	if cfg.FusionRRFK != 90 {
		t.Fatalf("expected fusion rrf k 90, got %d", cfg.FusionRRFK)
	}
	if cfg.FusionTopN != 12 {
		t.Fatalf("expected fusion top n 12, got %d", cfg.FusionTopN)
	}
	if cfg.APIRateLimitRPS != 3 {
		t.Fatalf("expected rate limit rps 3, got %d", cfg.APIRateLimitRPS)
	}
	if cfg.OpenAIJudgeModel != "judge-override" {
		t.Fatalf("expected judge model override, got %q", cfg.OpenAIJudgeModel)
	}
}

func TestLoadMalformedIntFallsBack(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "not-a-number")
	cfg := Load()
	if cfg.RetrievalTopK != 15 {
		t.Fatalf("expected fallback 15 for malformed value, got %d", cfg.RetrievalTopK)
	}
}
