package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	cases := []struct {
		name         string
		a, b         uint
		wantA, wantB uint
	}{
		{"already ordered", 3, 7, 3, 7},
		{"reversed", 7, 3, 3, 7},
		{"equal ids", 5, 5, 5, 5},
		{"zero participant", 9, 0, 0, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := NormalizePair(tc.a, tc.b)
			assert.Equal(t, tc.wantA, a)
			assert.Equal(t, tc.wantB, b)
		})
	}
}

func TestNormalizePairSymmetric(t *testing.T) {
	a1, b1 := NormalizePair(12, 4)
	a2, b2 := NormalizePair(4, 12)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestChatInvolves(t *testing.T) {
	chat := Chat{ParticipantA: 3, ParticipantB: 7}

	assert.True(t, chat.Involves(3))
	assert.True(t, chat.Involves(7))
	assert.False(t, chat.Involves(5))
	assert.False(t, chat.Involves(0))
}
