package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskflow/internal/ui"
)

func TestContentHeight(t *testing.T) {
	l := ui.NewLayout(80, 24)
	assert.Equal(t, 80, l.ContentWidth())
	assert.Equal(t, 22, l.ContentHeight(), "header and status bar each take a row")
}

func TestRenderHeader_BellBadge(t *testing.T) {
	l := ui.NewLayout(80, 24)

	assert.Contains(t, l.RenderHeader("TaskFlow", 3, "idle"), "🔔 3")

	// No unread events (or the bell toggled off) means no badge.
	assert.NotContains(t, l.RenderHeader("TaskFlow", 0, "idle"), "🔔")
}

func TestRenderStatusBar_AlertReplacesHints(t *testing.T) {
	l := ui.NewLayout(80, 24)

	out := l.RenderStatusBar("q quit | ? help", "complete failed: boom (change undone)")
	assert.Contains(t, out, "complete failed")
	assert.NotContains(t, out, "q quit")

	assert.Contains(t, l.RenderStatusBar("q quit | ? help", ""), "q quit")
}
