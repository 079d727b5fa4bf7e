package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type serviceConfig struct {
	ControlSocket string
	NotifySocket  string
	LoginURL      string
	AdminAddr     string
	CorsOrigins   []string
	LogLevel      string
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		ControlSocket: "/tmp/metaverse-client.sock",
		NotifySocket:  "/tmp/metaverse-client-ui.sock",
		AdminAddr:     "127.0.0.1:9400",
	}
}

type fileConfig struct {
	ControlSocket string   `toml:"control_socket"`
	NotifySocket  string   `toml:"notify_socket"`
	LoginURL      string   `toml:"login_url"`
	AdminAddr     string   `toml:"admin_addr"`
	CorsOrigins   []string `toml:"cors_origins"`
	LogLevel      string   `toml:"log_level"`
}

func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("control_socket") {
		if v := strings.TrimSpace(raw.ControlSocket); v != "" {
			cfg.ControlSocket = v
		}
	}
	if meta.IsDefined("notify_socket") {
		if v := strings.TrimSpace(raw.NotifySocket); v != "" {
			cfg.NotifySocket = v
		}
	}
	if meta.IsDefined("login_url") {
		cfg.LoginURL = strings.TrimSpace(raw.LoginURL)
	}
	if meta.IsDefined("admin_addr") {
		if v := strings.TrimSpace(raw.AdminAddr); v != "" {
			cfg.AdminAddr = v
		}
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
