package projectconfig

import (
	"encoding/json"
	"maps"
)

// DefaultTheme is the theme colour used when docs.json does not set one.
const DefaultTheme = "#00bcd4"

// DefaultHeaderDepth is the deepest heading rank collected by default.
const DefaultHeaderDepth = 3

// Config is the merged project configuration of one repository revision.
type Config struct {
	Name            string           `json:"name"`
	Logo            string           `json:"logo"`
	LogoDark        string           `json:"logoDark"`
	Favicon         string           `json:"favicon"`
	SocialPreview   string           `json:"socialPreview"`
	Twitter         string           `json:"twitter"`
	DefaultLayout   string           `json:"defaultLayout"`
	Theme           string           `json:"theme"`
	HeaderDepth     HeaderDepth      `json:"headerDepth"`
	Navigation      []NavigationItem `json:"navigation"`
	Sidebar         []SidebarItem    `json:"sidebar"`
	GoogleAnalytics *string          `json:"googleAnalytics"`
	ZoomImages      bool             `json:"zoomImages"`
	Noindex         bool             `json:"noindex"`
	Variables       map[string]any   `json:"variables"`
}

// Default returns a fresh all-defaults configuration.
func Default() Config {
	return Config{
		Theme:       DefaultTheme,
		HeaderDepth: MaxDepth(DefaultHeaderDepth),
		Navigation:  []NavigationItem{},
		Sidebar:     []SidebarItem{},
		Variables:   map[string]any{},
	}
}

// Merge overlays raw, typically the result of decoding docs.json into an any,
// onto the defaults. Fields are taken from raw only when present with the
// expected JSON type. Merge never fails.
func Merge(raw any) Config {
	cfg := Default()
	obj, ok := raw.(map[string]any)
	if !ok {
		return cfg
	}

	apply(obj, "name", &cfg.Name, asString)
	apply(obj, "logo", &cfg.Logo, asString)
	apply(obj, "logoDark", &cfg.LogoDark, asString)
	apply(obj, "favicon", &cfg.Favicon, asString)
	apply(obj, "socialPreview", &cfg.SocialPreview, asString)
	apply(obj, "twitter", &cfg.Twitter, asString)
	apply(obj, "defaultLayout", &cfg.DefaultLayout, asString)
	apply(obj, "theme", &cfg.Theme, asString)
	apply(obj, "headerDepth", &cfg.HeaderDepth, asHeaderDepth)
	apply(obj, "navigation", &cfg.Navigation, asNavigation)
	apply(obj, "sidebar", &cfg.Sidebar, asSidebar)
	apply(obj, "googleAnalytics", &cfg.GoogleAnalytics, asOptionalString)
	apply(obj, "zoomImages", &cfg.ZoomImages, asBool)
	apply(obj, "noindex", &cfg.Noindex, asBool)
	apply(obj, "variables", &cfg.Variables, asObject)
	return cfg
}

// MergeJSON decodes data and merges it. ok is false when data is empty or is not
// a JSON object; the returned Config then holds the defaults.
func MergeJSON(data []byte) (cfg Config, ok bool) {
	if len(data) == 0 {
		return Default(), false
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Default(), false
	}
	_, ok = raw.(map[string]any)
	return Merge(raw), ok
}

// apply writes the converted value of obj[key] to dst when the key is present
// and conv accepts its type. dst keeps its default otherwise.
func apply[T any](obj map[string]any, key string, dst *T, conv func(any) (T, bool)) {
	v, present := obj[key]
	if !present {
		return
	}
	if out, ok := conv(v); ok {
		*dst = out
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asOptionalString(v any) (*string, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return maps.Clone(m), true
}
