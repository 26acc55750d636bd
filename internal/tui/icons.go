package tui

import "github.com/sadopc/studylog/internal/store"

var iconGlyphs = map[store.Icon]string{
	store.IconCalculator: "∑",
	store.IconLanguages:  "あ",
	store.IconCode:       "</>",
	store.IconBook:       "▤",
	store.IconPen:        "✎",
	store.IconAtom:       "⚛",
}

func glyph(icon store.Icon) string {
	return iconGlyphs[icon.OrDefault()]
}
