// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Corp", "acme-corp"},
		{"Café Corner", "cafe-corner"},
		{"Über München", "uber-munchen"},
		{"  Shop -- Online!  ", "shop-online"},
		{"Store #42", "store-42"},
		{"日本語", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 40))
	if len(got) > MaxSlugLength {
		t.Fatalf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if !IsValidSlug(got) {
		t.Errorf("truncated slug %q is not valid", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"acme", true},
		{"acme-corp-2", true},
		{"", false},
		{"Acme", false},
		{"acme corp", false},
		{"-acme", false},
		{"acme-", false},
		{"acme--corp", false},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.expected {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]bool{"shop": true, "shop-2": true}
	got, err := UniqueSlug("shop", func(s string) (bool, error) { return used[s], nil })
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if got != "shop-3" {
		t.Errorf("UniqueSlug = %q, want %q", got, "shop-3")
	}

	long := strings.Repeat("a", MaxSlugLength)
	got, err = UniqueSlug(long, func(s string) (bool, error) { return s == long, nil })
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if len(got) > MaxSlugLength || !strings.HasSuffix(got, "-2") {
		t.Errorf("UniqueSlug = %q", got)
	}

	boom := errors.New("boom")
	if _, err := UniqueSlug("x", func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
