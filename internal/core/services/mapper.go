package services

import (
	"strings"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// DocumentMapper projects case records into their index shape. It is pure
// and total: mapping never fails, whatever the form data holds.
//
// Promoted fields are resolved through ordered synonym lists because the
// intake forms label the same concept differently per sub-module. The first
// label with a non-empty scalar value wins.
type DocumentMapper struct{}

// NewDocumentMapper creates a new DocumentMapper
func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

// Map converts a record into its canonical index document. The input is not
// mutated; calling Map twice on the same record yields identical documents.
func (m *DocumentMapper) Map(rec *domain.CaseRecord) *domain.CaseDocument {
	fd := rec.FormData

	doc := &domain.CaseDocument{
		ID:            rec.ID,
		SubModuleID:   rec.SubModuleID,
		SubModuleName: rec.SubModuleName,
		Narrative:     rec.Narrative,
		FormData:      fd,

		TypeOfProperty: fd.First("Type of property", "select type of property broken into"),
		VictimName: fd.First("Name of the casualty", "Name of the victim",
			"Name of the deceased", "Name"),
		SuspectName:             fd.Value("Name of the suspect"),
		SuspectDescription:      fd.First("Description of the suspect", "Give details about the suspect"),
		SuspectPresence:         fd.Value("Do you have a suspect"),
		VehicleMake:             fd.Value("Make"),
		VehicleModel:            fd.Value("Model"),
		VehicleRegistration:     fd.Value("Registration number"),
		StolenItems:             fd.Value("What category of items were stolen"),
		ElectronicType:          fd.Value("type of electronic"),
		DocumentType:            fd.Value("type of Documents"),
		GBVType:                 fd.Value("Type of GBV"),
		CauseOfDeath:            fd.Value("Cause of death"),
		MentalCondition:         fd.Value("Mental Condition"),
		CyberIncident:           fd.Value("Select Incident"),
		DigitalViolencePlatform: fd.Value("Platform In Digital or Online Violence"),
	}

	// description always carries a value so result listings have something
	// to show.
	if d := fd.First("Give a brief narrative of what happened",
		"A brief narrative of what happened",
		"A brief description of the person"); d != nil {
		doc.Description = *d
	} else {
		doc.Description = "N/A"
	}

	// The location column wins; intake forms sometimes only capture it as a
	// form field.
	doc.Location = rec.Location
	if doc.Location == nil {
		doc.Location = fd.Value("location")
	}

	if rec.SubmissionDate != nil {
		epoch := rec.SubmissionDate.Unix()
		doc.SubmissionDate = &epoch
	}

	doc.SearchableText = m.searchableText(rec)

	return doc
}

// MapAll maps a slice of records in order.
func (m *DocumentMapper) MapAll(recs []*domain.CaseRecord) []*domain.CaseDocument {
	docs := make([]*domain.CaseDocument, len(recs))
	for i, rec := range recs {
		docs[i] = m.Map(rec)
	}
	return docs
}

// searchableText builds the full-text fallback corpus: every scalar form
// value, then the location column, narrative, and sub-module name. Empty
// parts are dropped and the rest joined with single spaces.
func (m *DocumentMapper) searchableText(rec *domain.CaseRecord) string {
	parts := rec.FormData.ScalarValues()
	if rec.Location != nil && *rec.Location != "" {
		parts = append(parts, *rec.Location)
	}
	if rec.Narrative != nil && *rec.Narrative != "" {
		parts = append(parts, *rec.Narrative)
	}
	if rec.SubModuleName != "" {
		parts = append(parts, rec.SubModuleName)
	}
	return strings.Join(parts, " ")
}
