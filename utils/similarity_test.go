package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetNormalization(t *testing.T) {
	set := TokenSet("  Coffee, or TEA?! ")
	assert.Len(t, set, 3)
	assert.Contains(t, set, "coffee")
	assert.Contains(t, set, "or")
	assert.Contains(t, set, "tea")
}

func TestJaccardIndexIdenticalAnswers(t *testing.T) {
	assert.Equal(t, 1.0, JaccardIndex("Coffee or tea?", "Coffee or tea?"))
	assert.True(t, IsSimilar("Coffee or tea?", "Coffee or tea?", 0.5))
}

func TestJaccardIndexBothEmpty(t *testing.T) {
	assert.Equal(t, 0.0, JaccardIndex("", ""))
	assert.False(t, IsSimilar("", "", 0.5))
	assert.Equal(t, 0.0, JaccardIndex("?!.", "..."))
}

func TestJaccardIndexDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, JaccardIndex("cats", "dogs"))
}

// Two 4-word answers sharing exactly 2 words: intersection 2, union 6.
func TestJaccardBoundaryBelowThreshold(t *testing.T) {
	a := "red apples taste great"
	b := "green pears taste great"
	assert.InDelta(t, 2.0/6.0, JaccardIndex(a, b), 1e-9)
	assert.False(t, IsSimilar(a, b, 0.5))
}

// Two 4-word answers sharing 3 words: intersection 3, union 5.
func TestJaccardBoundaryAboveThreshold(t *testing.T) {
	a := "red apples taste great"
	b := "green apples taste great"
	assert.InDelta(t, 3.0/5.0, JaccardIndex(a, b), 1e-9)
	assert.True(t, IsSimilar(a, b, 0.5))
}

func TestJaccardLoveVersusHate(t *testing.T) {
	// {i, love, cats} vs {i, hate, cats}: intersection 2, union 4
	assert.InDelta(t, 0.5, JaccardIndex("I love cats", "I hate cats"), 1e-9)
	assert.True(t, IsSimilar("I love cats", "I hate cats", 0.5))
}

func TestJaccardCaseAndPunctuationInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, JaccardIndex("COFFEE!!!", "coffee"))
}

func TestJaccardSymmetry(t *testing.T) {
	a := "plan ahead always"
	b := "go with the flow"
	assert.Equal(t, JaccardIndex(a, b), JaccardIndex(b, a))
}
