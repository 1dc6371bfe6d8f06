package domain

// CaseDocument is the canonical, fixed-shape projection of a CaseRecord held
// in the search index. JSON field names match the index attributes referenced
// by the filter grammar.
//
// Promoted facet fields are pointers so that absent values marshal as
// explicit nulls: the engine's `IS NOT NULL` filters distinguish null fields
// from missing ones, and the original index always carried the full field
// set.
type CaseDocument struct {
	ID            string `json:"id"`
	SubModuleID   string `json:"sub_moduleId"`
	SubModuleName string `json:"sub_module_name"`

	// SubmissionDate is integer epoch seconds, null when the source row has
	// no submission timestamp. Stored as a number so range filters compare
	// numerically.
	SubmissionDate *int64 `json:"submissionDate"`

	Location    *string `json:"location"`
	Narrative   *string `json:"narrative"`
	Description string  `json:"description"`

	// Facet fields promoted from form data by synonym lookup.
	TypeOfProperty          *string `json:"type_of_property"`
	VictimName              *string `json:"victim_name"`
	SuspectName             *string `json:"suspect_name"`
	SuspectDescription      *string `json:"suspect_description"`
	SuspectPresence         *string `json:"suspect_presence"`
	VehicleMake             *string `json:"vehicle_make"`
	VehicleModel            *string `json:"vehicle_model"`
	VehicleRegistration     *string `json:"vehicle_registration"`
	StolenItems             *string `json:"stolen_items"`
	ElectronicType          *string `json:"electronic_type"`
	DocumentType            *string `json:"document_type"`
	GBVType                 *string `json:"gbv_type"`
	CauseOfDeath            *string `json:"cause_of_death"`
	MentalCondition         *string `json:"mental_condition"`
	CyberIncident           *string `json:"cyber_incident"`
	DigitalViolencePlatform *string `json:"platform_digital_violence"`

	// SearchableText is the full-text fallback corpus: every scalar form
	// value plus location, narrative and sub-module name.
	SearchableText string `json:"searchable_text"`

	// FormData is retained verbatim for detail display.
	FormData FormData `json:"formData"`
}

// RankedDocument is a search hit with the engine's relevance score attached.
type RankedDocument struct {
	Document *CaseDocument `json:"document"`
	Score    float64       `json:"score"`
}
