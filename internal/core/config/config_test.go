package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.DatasetDriver != "csv" || cfg.DatasetPath != "collision.csv" {
		t.Fatalf("dataset defaults: %q %q", cfg.DatasetDriver, cfg.DatasetPath)
	}
	if cfg.ClusterRes != 6 || cfg.HeatRadius != 8 || cfg.HeatBlur != 12 {
		t.Fatalf("map defaults: res=%d radius=%d blur=%d", cfg.ClusterRes, cfg.HeatRadius, cfg.HeatBlur)
	}
	if cfg.SessionMax != 1024 {
		t.Fatalf("session max=%d", cfg.SessionMax)
	}
	if cfg.MetricsEnabled {
		t.Fatal("metrics must default off")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DATASET_DRIVER", "SQLite")
	t.Setenv("SESSION_MAX", "4")
	t.Setenv("METRICS_ENABLED", "yes")

	cfg := FromEnv()
	if cfg.Addr != ":9999" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.DatasetDriver != "sqlite" {
		t.Fatalf("driver=%q want lowercased", cfg.DatasetDriver)
	}
	if cfg.SessionMax != 4 {
		t.Fatalf("session max=%d", cfg.SessionMax)
	}
	if !cfg.MetricsEnabled {
		t.Fatal("metrics override ignored")
	}
}

func TestFromEnv_ClusterResClamped(t *testing.T) {
	t.Setenv("CLUSTER_RES", "99")
	if got := FromEnv().ClusterRes; got != 15 {
		t.Fatalf("res=%d want clamp to 15", got)
	}
	t.Setenv("CLUSTER_RES", "-3")
	if got := FromEnv().ClusterRes; got != 0 {
		t.Fatalf("res=%d want clamp to 0", got)
	}
}

func TestFromEnv_BadIntIgnored(t *testing.T) {
	t.Setenv("SESSION_MAX", "lots")
	if got := FromEnv().SessionMax; got != 1024 {
		t.Fatalf("session max=%d want default on parse failure", got)
	}
}
