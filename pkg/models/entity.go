package models

// Entity is a tracked public figure. Entities are configuration data
// loaded from the roster file, never created at runtime.
type Entity struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Party         string   `json:"party,omitempty" yaml:"party"`
	Role          string   `json:"role,omitempty" yaml:"role"`
	Color         string   `json:"color" yaml:"color"`
	WikipediaPage string   `json:"wikipedia" yaml:"wikipedia"`
	SearchTerms   []string `json:"searchTerms" yaml:"search_terms"`
	VideoChannel  string   `json:"videoChannel,omitempty" yaml:"video_channel"`
	Highlighted   bool     `json:"highlighted,omitempty" yaml:"highlighted"`
}

// PrimarySearchTerm returns the term used for press and video queries.
func (e Entity) PrimarySearchTerm() string {
	if len(e.SearchTerms) == 0 {
		return e.Name
	}
	return e.SearchTerms[0]
}
