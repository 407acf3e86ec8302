package main

import "testing"

func TestRecipePath(t *testing.T) {
	if got := recipePath(nil); got != defaultRecipe {
		t.Errorf("recipePath(nil) = %q, want %q", got, defaultRecipe)
	}
	if got := recipePath([]string{"custom.yaml"}); got != "custom.yaml" {
		t.Errorf("recipePath = %q, want custom.yaml", got)
	}
}
