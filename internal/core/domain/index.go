package domain

// TaskHandle identifies an asynchronous engine write task. The engine
// acknowledges writes immediately and processes them in the background; a
// task must be awaited before the write is durable.
type TaskHandle int64

// EngineQuery is one request against the search engine's read API.
type EngineQuery struct {
	Query  string
	Filter string // compiled predicate in the engine's filter grammar, "" = match all
	Limit  int64
	Offset int64

	// Hybrid, when non-nil, asks the engine to blend keyword and semantic
	// ranking at the given ratio.
	Hybrid *HybridSpec
}

// HybridSpec configures semantic blending for a single query.
type HybridSpec struct {
	// SemanticRatio is the semantic share of the blend, 0.0 to 1.0.
	SemanticRatio float64
}

// EngineResult is the engine's response to one EngineQuery.
type EngineResult struct {
	Hits []*RankedDocument

	// EstimatedTotalHits is the engine's estimate of the full match count,
	// independent of Limit.
	EstimatedTotalHits int64

	ProcessingTimeMs int64
}

// TypoTolerance mirrors the engine's typo-tolerance settings block.
type TypoTolerance struct {
	Enabled             bool        `json:"enabled"`
	MinWordSizeForTypos MinWordSize `json:"minWordSizeForTypos"`
}

// MinWordSize sets the minimum word lengths for one and two typos.
type MinWordSize struct {
	OneTypo  int `json:"oneTypo"`
	TwoTypos int `json:"twoTypos"`
}

// IndexSettings is the one-time index configuration: which attributes are
// searchable and filterable, typo tolerance, and ranking rule order.
type IndexSettings struct {
	SearchableAttributes []string      `json:"searchableAttributes"`
	FilterableAttributes []string      `json:"filterableAttributes"`
	TypoTolerance        TypoTolerance `json:"typoTolerance"`
	RankingRules         []string      `json:"rankingRules"`
}

// DefaultIndexSettings returns the index configuration for the case index.
// Every filterable attribute here is referenced by the filter compiler.
func DefaultIndexSettings() IndexSettings {
	return IndexSettings{
		SearchableAttributes: []string{"*"},
		FilterableAttributes: []string{
			"sub_module_name",
			"stolen_items",
			"electronic_type",
			"document_type",
			"vehicle_registration",
			"victim_name",
			"gbv_type",
			"cause_of_death",
			"mental_condition",
			"suspect_presence",
			"submissionDate",
			"suspect_name",
			"suspect_description",
			"narrative",
			"description",
		},
		TypoTolerance: TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: MinWordSize{
				OneTypo:  2,
				TwoTypos: 4,
			},
		},
		RankingRules: []string{
			"words",
			"typo",
			"proximity",
			"attribute",
			"sort",
			"exactness",
		},
	}
}

// IndexStats is a snapshot of the index reported by the engine.
type IndexStats struct {
	NumberOfDocuments int64 `json:"number_of_documents"`
	IsIndexing        bool  `json:"is_indexing"`
}
