package config

// DefaultKnownMissing are keywords for a gag remembered from the show but not found in
// the wiki dump: the full name and its two halves.
var DefaultKnownMissing = []string{"Sneakers O'toole", "Sneakers", "Toole"}

// ApplyDefaults sets default values for any zero values in cfg.
// Main characters and stop words stay nil here; the cast and keyword packages
// substitute their own defaults for an empty list.
func ApplyDefaults(cfg *Config) {
	if cfg.GagsDir == "" {
		cfg.GagsDir = "./gags"
	}
	if cfg.Extensions == nil {
		cfg.Extensions = []string{".txt"}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.MinKeywordLength == 0 {
		cfg.Catalog.MinKeywordLength = 3
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "./exports"
	}
	if cfg.Export.JSON == "" {
		cfg.Export.JSON = "gags_database.json"
	}
	if cfg.Export.CSV == "" {
		cfg.Export.CSV = "gags_database.csv"
	}
	if cfg.Export.Absurdist == "" {
		cfg.Export.Absurdist = "absurdist_gags.json"
	}
	if cfg.Export.XLSX == "" {
		cfg.Export.XLSX = "gags_database.xlsx"
	}
	if cfg.Export.SQLite == "" {
		cfg.Export.SQLite = "gags_database.db"
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 500
	}
	if cfg.Analysis.SparseSeasonThreshold == 0 {
		cfg.Analysis.SparseSeasonThreshold = 30
	}
	if cfg.Analysis.TopOwners == 0 {
		cfg.Analysis.TopOwners = 20
	}
	if cfg.Analysis.SingleAppearanceLimit == 0 {
		cfg.Analysis.SingleAppearanceLimit = 10
	}
	if cfg.Analysis.KnownMissing == nil {
		cfg.Analysis.KnownMissing = append([]string(nil), DefaultKnownMissing...)
	}
}
