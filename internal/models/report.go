package models

// SeasonRange is the inclusive span of seasons seen in the store.
type SeasonRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MissingEntry names a title and the fields it lacks.
type MissingEntry struct {
	Title   string   `json:"title"`
	Missing []string `json:"missing"`
}

// AbsurdistEntry is a gag owned by a non-main character.
type AbsurdistEntry struct {
	Title       string `json:"title"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
}

// Report is the completeness summary produced by the validator.
type Report struct {
	TotalGags          int                   `json:"total_gags"`
	MissingSeason      []string              `json:"missing_season"`
	MissingEpisode     []string              `json:"missing_episode"`
	MissingOwner       []string              `json:"missing_owner"`
	MissingDescription []string              `json:"missing_description"`
	MissingMultiple    []MissingEntry        `json:"missing_multiple_fields"`
	SeasonRange        Optional[SeasonRange] `json:"season_range"`
	Characters         []string              `json:"characters"`
	Absurdist          []AbsurdistEntry      `json:"absurdist_gags"`
}

// OwnerCount is the number of gags attributed to one owner.
type OwnerCount struct {
	Owner string   `json:"owner"`
	Count int      `json:"count"`
	Gags  []string `json:"gags"`
}

// SeasonStat summarises one season.
type SeasonStat struct {
	Season   int `json:"season"`
	Gags     int `json:"gags"`
	Episodes int `json:"episodes"`
}

// Duplicate is a title produced by more than one source file.
type Duplicate struct {
	Title string   `json:"title"`
	Files []string `json:"files"`
}

// Analysis is the data quality summary: owner frequency, season coverage and duplicates.
type Analysis struct {
	TotalGags         int                   `json:"total_gags"`
	MainGags          int                   `json:"main_character_gags"`
	NonMainGags       int                   `json:"non_main_character_gags"`
	CompleteRecords   int                   `json:"complete_records"`
	IncompleteRecords int                   `json:"incomplete_records"`
	Owners            []OwnerCount          `json:"owners"`
	SingleAppearance  []OwnerCount          `json:"single_appearance"`
	Seasons           []SeasonStat          `json:"seasons"`
	SeasonsCovered    Optional[SeasonRange] `json:"seasons_covered"`
	SparseSeasons     []int                 `json:"sparse_seasons"`
	Duplicates        []Duplicate           `json:"duplicates"`
}

// KeywordHits are the matches for one keyword in the database and in the raw files.
type KeywordHits struct {
	Keyword      string   `json:"keyword"`
	DatabaseHits []string `json:"database_hits"`
	FileHits     []string `json:"file_hits"`
	NotFound     bool     `json:"not_found"`
}
