package htmlchart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var b strings.Builder
	err := Render(&b, PageOptions{Title: "Sales <2024>", ModelURL: "/charts/1/model"})
	require.NoError(t, err)
	page := b.String()

	require.True(t, strings.HasPrefix(strings.ToLower(page), "<!doctype html>"))
	require.Contains(t, page, "<title>Sales &lt;2024&gt;</title>")
	require.Contains(t, page, `data-model="/charts/1/model"`)
	require.Contains(t, page, `data-events="events"`)
	require.Contains(t, page, `data-vizzu="`+DefaultVizzuURL+`"`)
	require.Contains(t, page, `<script type="module">`)
	require.Contains(t, page, `new EventSource(el.dataset.events)`)
}
