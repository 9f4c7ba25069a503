// Package models defines core data structures for gag records, queries, and reports.
package models

// Gag is one parsed cutaway gag. Title is the unique key and is never empty.
type Gag struct {
	Title        string           `json:"title"`
	Season       Optional[int]    `json:"season"`
	Episode      Optional[string] `json:"episode"`
	EpisodeOrder Optional[int]    `json:"episode_order"`
	Owner        Optional[string] `json:"cutaway_owner"`
	Description  Optional[string] `json:"description"`
	SourceName   string           `json:"source_name"`
}

// Field names used when reporting missing data.
const (
	FieldSeason      = "season"
	FieldEpisode     = "episode"
	FieldOwner       = "owner"
	FieldDescription = "description"
)

// MissingFields returns the names of the completeness fields that are unset,
// in the fixed order season, episode, owner, description.
func (g Gag) MissingFields() []string {
	var missing []string
	if !g.Season.IsSet() {
		missing = append(missing, FieldSeason)
	}
	if !g.Episode.IsSet() {
		missing = append(missing, FieldEpisode)
	}
	if !g.Owner.IsSet() {
		missing = append(missing, FieldOwner)
	}
	if !g.Description.IsSet() {
		missing = append(missing, FieldDescription)
	}
	return missing
}

// Fields returns the record as a flat field name → value map for exporters.
// Unset fields map to nil.
func (g Gag) Fields() map[string]interface{} {
	m := map[string]interface{}{
		"title":         g.Title,
		"season":        nil,
		"episode":       nil,
		"episode_order": nil,
		"cutaway_owner": nil,
		"description":   nil,
		"source_name":   g.SourceName,
	}
	if v, ok := g.Season.Get(); ok {
		m["season"] = v
	}
	if v, ok := g.Episode.Get(); ok {
		m["episode"] = v
	}
	if v, ok := g.EpisodeOrder.Get(); ok {
		m["episode_order"] = v
	}
	if v, ok := g.Owner.Get(); ok {
		m["cutaway_owner"] = v
	}
	if v, ok := g.Description.Get(); ok {
		m["description"] = v
	}
	return m
}
