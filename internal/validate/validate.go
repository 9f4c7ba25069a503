// Package validate computes completeness reports and data quality analysis over a store.
package validate

import (
	"sort"

	"github.com/hyperjump/cutaway/internal/cast"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/store"
)

// Validate walks every gag once, in title order, and reports missing fields, the
// season range, distinct owners and absurdist gags.
func Validate(st *store.Store, c *cast.Cast) *models.Report {
	if c == nil {
		c = cast.Default()
	}
	r := &models.Report{
		MissingSeason:      []string{},
		MissingEpisode:     []string{},
		MissingOwner:       []string{},
		MissingDescription: []string{},
		MissingMultiple:    []models.MissingEntry{},
		Characters:         []string{},
		Absurdist:          []models.AbsurdistEntry{},
	}
	characters := make(map[string]struct{})
	var seasons *models.SeasonRange

	for _, g := range st.All() {
		r.TotalGags++
		var missing []string

		if season, ok := g.Season.Get(); ok {
			if seasons == nil {
				seasons = &models.SeasonRange{Min: season, Max: season}
			}
			seasons.Min = min(seasons.Min, season)
			seasons.Max = max(seasons.Max, season)
		} else {
			missing = append(missing, models.FieldSeason)
			r.MissingSeason = append(r.MissingSeason, g.Title)
		}

		if !g.Episode.IsSet() {
			missing = append(missing, models.FieldEpisode)
			r.MissingEpisode = append(r.MissingEpisode, g.Title)
		}

		owner, hasOwner := g.Owner.Get()
		if hasOwner {
			characters[owner] = struct{}{}
		} else {
			missing = append(missing, models.FieldOwner)
			r.MissingOwner = append(r.MissingOwner, g.Title)
		}

		desc, hasDesc := g.Description.Get()
		if !hasDesc {
			missing = append(missing, models.FieldDescription)
			r.MissingDescription = append(r.MissingDescription, g.Title)
		}

		if len(missing) > 1 {
			r.MissingMultiple = append(r.MissingMultiple, models.MissingEntry{Title: g.Title, Missing: missing})
		}

		if hasOwner && hasDesc && !c.IsMain(owner) {
			r.Absurdist = append(r.Absurdist, models.AbsurdistEntry{
				Title:       g.Title,
				Owner:       owner,
				Description: desc,
			})
		}
	}

	for owner := range characters {
		r.Characters = append(r.Characters, owner)
	}
	sort.Strings(r.Characters)
	if seasons != nil {
		r.SeasonRange = models.Some(*seasons)
	}
	return r
}
