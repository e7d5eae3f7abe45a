// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// ActivityPageViewModel holds everything the activity page renders.
type ActivityPageViewModel struct {
	Title string

	Heatmap          HeatmapViewModel
	HeatmapAvailable bool
	EventsAvailable  bool
	Stats            []StatViewModel
	RecentRepos      []string
	TotalEvents      string
	Events           []EventViewModel
	Contact          ContactFormViewModel
	ChartPath        string
}

// HeatmapViewModel is the contribution calendar laid out as week columns.
type HeatmapViewModel struct {
	Year               int
	TotalContributions string
	CurrentStreak      int
	LongestStreak      int
	Weeks              []HeatmapWeekViewModel
}

// HeatmapWeekViewModel is one column of the heatmap.
type HeatmapWeekViewModel struct {
	Cells []HeatmapCellViewModel
}

// HeatmapCellViewModel is one day of the heatmap.
type HeatmapCellViewModel struct {
	Date    string
	Count   int
	Level   int    // 0-4, selects the colour band
	Tooltip string // "3 contributions on 2024-01-01"
}

// StatViewModel is one labelled summary counter.
type StatViewModel struct {
	Label string
	Value string
}

// EventViewModel holds presentation-ready data for a timeline entry.
type EventViewModel struct {
	Kind        string
	Category    string // chart category key, "uncategorized" when not charted
	Repo        string
	RepoURL     string
	Description string
	When        string // "3 hours ago"
	Timestamp   string // RFC 3339, for the datetime attribute
	URL         string
	BodyHTML    string // sanitized markdown
	Commits     []CommitViewModel
	Redacted    bool
}

// CommitViewModel is a pushed commit line.
type CommitViewModel struct {
	SHA     string
	Message string
}

// ContactFormViewModel holds the state of the contact form.
type ContactFormViewModel struct {
	CSRFToken string
	Email     string
	Message   string
	Error     string
	Sent      bool
}
