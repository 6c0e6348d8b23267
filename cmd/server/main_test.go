package main

import "testing"

func TestIntEnv(t *testing.T) {
	t.Setenv("GRIDSTEAD_SCENE_ROWS", "22")
	if got := intEnv("GRIDSTEAD_SCENE_ROWS", 15); got != 22 {
		t.Fatalf("intEnv=%d want 22", got)
	}

	t.Setenv("GRIDSTEAD_SCENE_ROWS", "not-a-number")
	if got := intEnv("GRIDSTEAD_SCENE_ROWS", 15); got != 15 {
		t.Fatalf("intEnv fallback=%d want 15", got)
	}

	t.Setenv("GRIDSTEAD_SCENE_ROWS", "")
	if got := intEnv("GRIDSTEAD_SCENE_ROWS", 15); got != 15 {
		t.Fatalf("intEnv empty=%d want 15", got)
	}
}

func TestSeedFromEnv(t *testing.T) {
	t.Setenv("GRIDSTEAD_WORLD_SEED", "42")
	if got := seedFromEnv(); got != 42 {
		t.Fatalf("seedFromEnv=%d want 42", got)
	}

	t.Setenv("GRIDSTEAD_WORLD_SEED", "")
	if got := seedFromEnv(); got == 0 {
		t.Fatalf("expected a clock-derived seed, got 0")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("GRIDSTEAD_HTTP_ADDR", " :9090 ")
	if got := envOr("GRIDSTEAD_HTTP_ADDR", ":8080"); got != ":9090" {
		t.Fatalf("envOr=%q want :9090", got)
	}

	t.Setenv("GRIDSTEAD_HTTP_ADDR", "")
	if got := envOr("GRIDSTEAD_HTTP_ADDR", ":8080"); got != ":8080" {
		t.Fatalf("envOr fallback=%q want :8080", got)
	}
}
