package validate

import (
	"sort"

	"github.com/hyperjump/cutaway/internal/cast"
	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/store"
)

// DefaultSparseSeasonThreshold is the gag count below which a season is reported sparse.
const DefaultSparseSeasonThreshold = 30

// AnalyzeOptions tune Analyze.
type AnalyzeOptions struct {
	// SparseSeasonThreshold marks seasons with fewer gags as sparse. Zero uses
	// DefaultSparseSeasonThreshold.
	SparseSeasonThreshold int
}

// Analyze summarises owner frequency, season coverage, completeness and duplicate
// titles. Owners are ordered by gag count descending, then by name.
func Analyze(st *store.Store, c *cast.Cast, opts AnalyzeOptions) *models.Analysis {
	if c == nil {
		c = cast.Default()
	}
	threshold := opts.SparseSeasonThreshold
	if threshold <= 0 {
		threshold = DefaultSparseSeasonThreshold
	}

	a := &models.Analysis{
		Owners:           []models.OwnerCount{},
		SingleAppearance: []models.OwnerCount{},
		Seasons:          []models.SeasonStat{},
		SparseSeasons:    []int{},
		Duplicates:       st.Duplicates(),
	}
	if a.Duplicates == nil {
		a.Duplicates = []models.Duplicate{}
	}

	ownerGags := make(map[string][]string)
	seasonGags := make(map[int]int)
	seasonEpisodes := make(map[int]map[string]struct{})

	for _, g := range st.All() {
		a.TotalGags++
		if len(g.MissingFields()) == 0 {
			a.CompleteRecords++
		} else {
			a.IncompleteRecords++
		}
		if owner, ok := g.Owner.Get(); ok {
			ownerGags[owner] = append(ownerGags[owner], g.Title)
			if c.IsMain(owner) {
				a.MainGags++
			} else {
				a.NonMainGags++
			}
		}
		season, hasSeason := g.Season.Get()
		episode, hasEpisode := g.Episode.Get()
		if hasSeason && hasEpisode {
			seasonGags[season]++
			if seasonEpisodes[season] == nil {
				seasonEpisodes[season] = make(map[string]struct{})
			}
			seasonEpisodes[season][episode] = struct{}{}
		}
	}

	for owner, gags := range ownerGags {
		oc := models.OwnerCount{Owner: owner, Count: len(gags), Gags: gags}
		a.Owners = append(a.Owners, oc)
		if len(gags) == 1 {
			a.SingleAppearance = append(a.SingleAppearance, oc)
		}
	}
	sort.Slice(a.Owners, func(i, j int) bool {
		if a.Owners[i].Count != a.Owners[j].Count {
			return a.Owners[i].Count > a.Owners[j].Count
		}
		return a.Owners[i].Owner < a.Owners[j].Owner
	})
	sort.Slice(a.SingleAppearance, func(i, j int) bool {
		return a.SingleAppearance[i].Owner < a.SingleAppearance[j].Owner
	})

	for season, n := range seasonGags {
		a.Seasons = append(a.Seasons, models.SeasonStat{
			Season:   season,
			Gags:     n,
			Episodes: len(seasonEpisodes[season]),
		})
		if n < threshold {
			a.SparseSeasons = append(a.SparseSeasons, season)
		}
	}
	sort.Slice(a.Seasons, func(i, j int) bool { return a.Seasons[i].Season < a.Seasons[j].Season })
	sort.Ints(a.SparseSeasons)
	if len(a.Seasons) > 0 {
		a.SeasonsCovered = models.Some(models.SeasonRange{
			Min: a.Seasons[0].Season,
			Max: a.Seasons[len(a.Seasons)-1].Season,
		})
	}
	return a
}
