package config

import "testing"

func TestParseArgsAppliesNetworkDefaults(t *testing.T) {
	cfg, err := ParseArgs([]string{"--network", "simnet"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.Params.Name != "simnet" {
		t.Errorf("expected simnet params, got %s", cfg.Params.Name)
	}
	if cfg.ListenAddr != defaultListenAddr {
		t.Errorf("expected default listen addr %s, got %s", defaultListenAddr, cfg.ListenAddr)
	}
}

func TestParseArgsKOverridesNetworkDefault(t *testing.T) {
	cfg, err := ParseArgs([]string{"--network", "simnet", "-k", "7"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.Params.K != 7 {
		t.Errorf("expected k=7 to override simnet default, got %d", cfg.Params.K)
	}
}

func TestParseArgsRejectsUnknownNetwork(t *testing.T) {
	_, err := ParseArgs([]string{"--network", "nope"})
	if err == nil {
		t.Fatalf("expected unknown network to fail")
	}
}

func TestParseArgsLowercasesDebugLevel(t *testing.T) {
	cfg, err := ParseArgs([]string{"--debuglevel", "DEBUG"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.DebugLevel != "debug" {
		t.Errorf("expected debuglevel lowercased to 'debug', got %q", cfg.DebugLevel)
	}
}
