package model

// Document is the whole persisted state. It is read and written as one unit.
type Document struct {
	Players       []Player              `json:"players"`
	Announcements []Announcement        `json:"announcements"`
	Announcement  string                `json:"announcement"` // legacy single-slot banner
	LeagueResults map[int][]MatchResult `json:"league_results"`
}

// NewDocument returns the default empty document.
func NewDocument() *Document {
	return &Document{
		Players:       []Player{},
		Announcements: []Announcement{},
		LeagueResults: map[int][]MatchResult{},
	}
}

// Normalize fills every nil collection so the document has the same shape
// regardless of which version wrote it.
func (d *Document) Normalize() {
	if d.Players == nil {
		d.Players = []Player{}
	}
	for i := range d.Players {
		d.Players[i].normalize()
	}
	if d.Announcements == nil {
		d.Announcements = []Announcement{}
	}
	if d.LeagueResults == nil {
		d.LeagueResults = map[int][]MatchResult{}
	}
}

// FindPlayer returns the index of the player with name, compared
// case-insensitively, or -1.
func (d *Document) FindPlayer(name string) int {
	for i := range d.Players {
		if SameName(d.Players[i].Name, name) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		Players:       make([]Player, len(d.Players)),
		Announcements: append([]Announcement{}, d.Announcements...),
		Announcement:  d.Announcement,
		LeagueResults: make(map[int][]MatchResult, len(d.LeagueResults)),
	}
	for i, p := range d.Players {
		out.Players[i] = p.clone()
	}
	for week, results := range d.LeagueResults {
		cp := make([]MatchResult, len(results))
		for i, r := range results {
			cp[i] = r.clone()
		}
		out.LeagueResults[week] = cp
	}
	return out
}

// GamesRecorded counts results across all players.
func (d *Document) GamesRecorded() int {
	n := 0
	for _, p := range d.Players {
		n += len(p.Results)
	}
	return n
}
