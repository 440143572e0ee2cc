// Package nav declares the console's sidebar as plain data. Templates render
// the tree generically; adding a screen means adding an entry here.
package nav

// Entry is one sidebar link, optionally with children.
type Entry struct {
	Title    string
	Route    string
	Icon     string
	Children []Entry
}

// Section groups related entries under a heading.
type Section struct {
	Title   string
	Entries []Entry
}

// Sidebar returns the console navigation tree.
func Sidebar() []Section {
	return []Section{
		{
			Title: "Community",
			Entries: []Entry{
				{Title: "Castes", Route: "/castes", Icon: "users"},
				{Title: "Subcastes", Route: "/subcastes", Icon: "user-group"},
				{Title: "Circulars", Route: "/circulars", Icon: "megaphone"},
			},
		},
		{
			Title: "Engagement",
			Entries: []Entry{
				{Title: "Job Portal", Route: "/jobs", Icon: "briefcase"},
				{Title: "Polls", Route: "/polls", Icon: "chart-bar"},
			},
		},
		{
			Title: "Finance",
			Entries: []Entry{
				{Title: "Transactions", Route: "/transactions", Icon: "banknotes"},
			},
		},
		{
			Title: "System",
			Entries: []Entry{
				{Title: "Audit Log", Route: "/audit", Icon: "clipboard"},
			},
		},
	}
}

// ActiveSection returns the title of the section owning the route, or "".
func ActiveSection(route string) string {
	for _, s := range Sidebar() {
		for _, e := range s.Entries {
			if matches(e, route) {
				return s.Title
			}
		}
	}
	return ""
}

func matches(e Entry, route string) bool {
	if e.Route == route {
		return true
	}
	for _, c := range e.Children {
		if matches(c, route) {
			return true
		}
	}
	return false
}
