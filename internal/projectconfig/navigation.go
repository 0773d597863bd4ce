package projectconfig

import "encoding/json"

// NavigationItem is one header navigation link. docs.json writes it as a
// ["Title", "/href"] pair.
type NavigationItem struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// MarshalJSON writes the pair form.
func (n NavigationItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{n.Title, n.Href})
}

// SidebarItem is a sidebar link or, when Items is set, a titled group of links.
// docs.json writes links as ["Title", "/href"] and groups as ["Group", [...]].
type SidebarItem struct {
	Title string        `json:"title"`
	Href  string        `json:"href,omitempty"`
	Items []SidebarItem `json:"items,omitempty"`
}

type sidebarObject struct {
	Title string        `json:"title"`
	Href  string        `json:"href,omitempty"`
	Items []SidebarItem `json:"items,omitempty"`
}

// MarshalJSON writes the pair form where possible and the object form for a
// group that also carries a link.
func (s SidebarItem) MarshalJSON() ([]byte, error) {
	switch {
	case len(s.Items) == 0:
		return json.Marshal([2]string{s.Title, s.Href})
	case s.Href == "":
		return json.Marshal([2]any{s.Title, s.Items})
	default:
		return json.Marshal(sidebarObject(s))
	}
}

func asNavigation(v any) ([]NavigationItem, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]NavigationItem, 0, len(list))
	for _, e := range list {
		if item, ok := navigationEntry(e); ok {
			out = append(out, item)
		}
	}
	return out, true
}

func navigationEntry(v any) (NavigationItem, bool) {
	switch t := v.(type) {
	case []any:
		if len(t) != 2 {
			return NavigationItem{}, false
		}
		title, ok1 := t[0].(string)
		href, ok2 := t[1].(string)
		if !ok1 || !ok2 {
			return NavigationItem{}, false
		}
		return NavigationItem{Title: title, Href: href}, true
	case map[string]any:
		title, ok1 := t["title"].(string)
		href, ok2 := t["href"].(string)
		if !ok1 || !ok2 {
			return NavigationItem{}, false
		}
		return NavigationItem{Title: title, Href: href}, true
	default:
		return NavigationItem{}, false
	}
}

func asSidebar(v any) ([]SidebarItem, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return sidebarEntries(list), true
}

func sidebarEntries(list []any) []SidebarItem {
	out := make([]SidebarItem, 0, len(list))
	for _, e := range list {
		if item, ok := sidebarEntry(e); ok {
			out = append(out, item)
		}
	}
	return out
}

func sidebarEntry(v any) (SidebarItem, bool) {
	switch t := v.(type) {
	case []any:
		if len(t) != 2 {
			return SidebarItem{}, false
		}
		title, ok := t[0].(string)
		if !ok {
			return SidebarItem{}, false
		}
		switch target := t[1].(type) {
		case string:
			return SidebarItem{Title: title, Href: target}, true
		case []any:
			return group(SidebarItem{Title: title}, target), true
		}
		return SidebarItem{}, false
	case map[string]any:
		title, ok := t["title"].(string)
		if !ok {
			return SidebarItem{}, false
		}
		item := SidebarItem{Title: title}
		if href, ok := t["href"].(string); ok {
			item.Href = href
		}
		if items, ok := t["items"].([]any); ok {
			item = group(item, items)
		}
		return item, true
	default:
		return SidebarItem{}, false
	}
}

func group(item SidebarItem, children []any) SidebarItem {
	if entries := sidebarEntries(children); len(entries) > 0 {
		item.Items = entries
	}
	return item
}
