package projectconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, cfg Config) any {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	var raw any
	require.NoError(t, json.Unmarshal(data, &raw))
	return raw
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestMerge_NonObjectInput_ReturnsDefaults(t *testing.T) {
	for _, raw := range []any{nil, "x", 1.0, true, []any{1.0}} {
		require.Equal(t, Default(), Merge(raw))
	}
}

func TestDefault_ReturnsIndependentValues(t *testing.T) {
	a := Default()
	a.Variables["x"] = "y"
	a.Navigation = append(a.Navigation, NavigationItem{Title: "t"})

	b := Default()
	require.Empty(t, b.Variables)
	require.Empty(t, b.Navigation)
}

func TestMerge_TypeMismatches_AreDiscarded(t *testing.T) {
	cfg := Merge(decode(t, `{
		"name": 12,
		"theme": false,
		"noindex": "yes",
		"zoomImages": true,
		"headerDepth": "2",
		"navigation": {"a": 1},
		"variables": ["x"],
		"googleAnalytics": 5
	}`))

	want := Default()
	want.ZoomImages = true
	require.Equal(t, want, cfg)
}

func TestMerge_KnownFields(t *testing.T) {
	cfg := Merge(decode(t, `{
		"name": "Docs",
		"logo": "/logo.png",
		"theme": "#ff0000",
		"defaultLayout": "wide",
		"googleAnalytics": "G-1",
		"noindex": true,
		"variables": {"version": "1.2", "nested": {"a": "b"}},
		"unknown": "ignored"
	}`))

	assert.Equal(t, "Docs", cfg.Name)
	assert.Equal(t, "/logo.png", cfg.Logo)
	assert.Equal(t, "#ff0000", cfg.Theme)
	assert.Equal(t, "wide", cfg.DefaultLayout)
	require.NotNil(t, cfg.GoogleAnalytics)
	assert.Equal(t, "G-1", *cfg.GoogleAnalytics)
	assert.True(t, cfg.Noindex)
	assert.Equal(t, "1.2", cfg.Variables["version"])
	assert.Equal(t, []int{1, 2, 3}, cfg.HeaderDepth.Ranks())
}

func TestMerge_Navigation_DropsMalformedEntriesKeepingOrder(t *testing.T) {
	cfg := Merge(decode(t, `{"navigation": [
		["Home", "/"],
		["broken"],
		{"title": "Guide", "href": "/guide"},
		[1, "/x"],
		["API", "/api"]
	]}`))

	require.Equal(t, []NavigationItem{
		{Title: "Home", Href: "/"},
		{Title: "Guide", Href: "/guide"},
		{Title: "API", Href: "/api"},
	}, cfg.Navigation)
}

func TestMerge_Sidebar_Groups(t *testing.T) {
	cfg := Merge(decode(t, `{"sidebar": [
		["Overview", "/"],
		["Guides", [["Install", "/install"], "junk", ["Usage", "/usage"]]],
		{"title": "Reference", "href": "/ref", "items": [["CLI", "/cli"]]},
		42
	]}`))

	require.Equal(t, []SidebarItem{
		{Title: "Overview", Href: "/"},
		{Title: "Guides", Items: []SidebarItem{{Title: "Install", Href: "/install"}, {Title: "Usage", Href: "/usage"}}},
		{Title: "Reference", Href: "/ref", Items: []SidebarItem{{Title: "CLI", Href: "/cli"}}},
	}, cfg.Sidebar)
}

func TestMerge_IsIdempotent(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"headerDepth": 2, "name": "n", "googleAnalytics": "G"}`,
		`{"headerDepth": [2, 4, 4, 9], "navigation": [["a", "/a"]]}`,
		`{"headerDepth": 12, "sidebar": [["G", [["a", "/a"]]], {"title": "L", "href": "/l", "items": [["b", "/b"]]}, ["E", []]]}`,
		`{"variables": {"a": {"b": 1}}, "zoomImages": true, "noindex": true}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Merge(decode(t, in))
			twice := Merge(roundTrip(t, once))
			require.Equal(t, once, twice)
		})
	}
}

func TestMergeJSON(t *testing.T) {
	cfg, ok := MergeJSON([]byte(`{"name": "x"}`))
	require.True(t, ok)
	require.Equal(t, "x", cfg.Name)

	cfg, ok = MergeJSON([]byte(`{not json`))
	require.False(t, ok)
	require.Equal(t, Default(), cfg)

	cfg, ok = MergeJSON(nil)
	require.False(t, ok)
	require.Equal(t, Default(), cfg)

	cfg, ok = MergeJSON([]byte(`[1, 2]`))
	require.False(t, ok)
	require.Equal(t, Default(), cfg)
}
