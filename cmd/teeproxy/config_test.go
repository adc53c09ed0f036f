package main

import "testing"

func TestParseConfigPositional(t *testing.T) {
	cfg, err := parseConfig([]string{"8080", "example.com", "80"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ListenPort != 8080 || cfg.ConnectHost != "example.com" || cfg.ConnectPort != 80 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Binary {
		t.Error("binary mode should default off")
	}
	if got := cfg.Target(); got != "example.com:80" {
		t.Errorf("target %q", got)
	}
}

func TestParseConfigBinaryFlag(t *testing.T) {
	cfg, err := parseConfig([]string{"-b", "9000", "localhost", "22"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.Binary {
		t.Error("expected binary mode enabled")
	}
}

func TestParseConfigErrors(t *testing.T) {
	cases := [][]string{
		{},                                     // no args
		{"8080", "example.com"},                // missing connectPort
		{"8080", "example.com", "80", "x"},     // trailing garbage
		{"abc", "example.com", "80"},           // unparsable listen port
		{"8080", "example.com", "70000"},       // connect port out of range
		{"0", "example.com", "80"},             // listen port out of range
		{"-nope", "8080", "example.com", "80"}, // unknown flag
		{"8080", "", "80"},                     // empty host
	}
	for _, args := range cases {
		if _, err := parseConfig(args); err == nil {
			t.Errorf("expected error for args %v", args)
		}
	}
}

func TestParseConfigIPv6Target(t *testing.T) {
	cfg, err := parseConfig([]string{"8080", "::1", "80"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := cfg.Target(); got != "[::1]:80" {
		t.Errorf("target %q, want bracketed ipv6", got)
	}
}
