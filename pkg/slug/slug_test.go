// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phamduc/newsdesk/pkg/slug"
)

/*
TestFrom covers the slug pipeline: lowercasing, accent folding, punctuation
replacement, and hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Markets", "markets"},
		{"sentence", "Markets Rally After Rate Cut", "markets-rally-after-rate-cut"},
		{"accents", "Café Économie", "cafe-economie"},
		{"punctuation", "Breaking: Rates, Cut!", "breaking-rates-cut"},
		{"multiple_spaces", "a   b", "a-b"},
		{"leading_trailing", "  hello  ", "hello"},
		{"digits", "Top 10 Stocks of 2026", "top-10-stocks-of-2026"},
		{"empty", "", ""},
		{"symbols_only", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
