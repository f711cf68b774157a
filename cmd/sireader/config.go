package main

import (
	"gopkg.in/ini.v1"
)

// fileConfig is the optional on-disk configuration for the CLI. The
// library itself is entirely configuration-free; this only exists to
// save the operator from retyping -p/-b on every invocation.
type fileConfig struct {
	Port       string
	Baud       int
	FamilyHint string
	LogLevel   string
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := fileConfig{Baud: 38400, LogLevel: "info"}
	if path == "" {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, err
	}

	station := f.Section("station")
	if v := station.Key("port").String(); v != "" {
		cfg.Port = v
	}
	if v := station.Key("baud").MustInt(0); v != 0 {
		cfg.Baud = v
	}
	cfg.FamilyHint = station.Key("family_hint").String()

	if v := f.Section("log").Key("level").String(); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
