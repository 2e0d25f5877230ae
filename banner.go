package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Banner fades a message in and holds it.
type Banner struct {
	Text  string
	tween *gween.Tween
	alpha float32
}

func NewBanner(msg string) *Banner {
	return &Banner{
		Text:  msg,
		tween: gween.New(0, 1, 0.6, ease.OutCubic),
	}
}

// Update advances the fade by dt seconds.
func (b *Banner) Update(dt float32) {
	if b.tween == nil {
		return
	}
	cur, done := b.tween.Update(dt)
	b.alpha = cur
	if done {
		b.tween = nil
		b.alpha = 1
	}
}

func (b *Banner) Alpha() float32 {
	return b.alpha
}
