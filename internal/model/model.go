// Package model maps API payloads to the columns of the tabular store.
package model

import (
	"strings"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
	api "gitlab.com/dirk.krummacker/aim-summit-service/pkg/model"
)

// Column names of the contact and newsletter tables.
const (
	FieldFirstName   = "First Name"
	FieldLastName    = "Last Name"
	FieldEmail       = "Email"
	FieldPhoneNumber = "Phone Number"
	FieldMessage     = "Message"
	FieldSource      = "Source"
)

// Column names of the nomination table.
const (
	FieldSpeakerName     = "Speaker Name"
	FieldSpeakerTitle    = "Title"
	FieldSpeakerCompany  = "Company"
	FieldLinkedInURL     = "LinkedIn URL"
	FieldJustification   = "Justification"
	FieldSpeakerPOC      = "Speaker POC"
	FieldSpeakerPOCOther = "Speaker POC (Other)"
	FieldEvents          = "Events"
)

// Column names of the project management contacts table.
const (
	FieldName = "Name"
	FieldTags = "Tags"
)

// ContactFields returns the row of a contact submission.
func ContactFields(s api.ContactSubmission, source string) map[string]any {
	return map[string]any{
		FieldFirstName:   strings.TrimSpace(s.FirstName),
		FieldLastName:    strings.TrimSpace(s.LastName),
		FieldEmail:       strings.TrimSpace(s.Email),
		FieldPhoneNumber: strings.TrimSpace(s.PhoneNumber),
		FieldMessage:     strings.TrimSpace(s.Message),
		FieldSource:      source,
	}
}

// NewsletterFields returns the row of a newsletter signup. Empty names are left out.
func NewsletterFields(s api.NewsletterSignup, source string) map[string]any {
	fields := map[string]any{
		FieldEmail:  strings.TrimSpace(s.Email),
		FieldSource: source,
	}
	if v := strings.TrimSpace(s.FirstName); v != "" {
		fields[FieldFirstName] = v
	}
	if v := strings.TrimSpace(s.LastName); v != "" {
		fields[FieldLastName] = v
	}
	return fields
}

// NominationFields returns the row of a keynote nomination.
//
// The point of contact is written as follows: "other" stores the custom name, falling back to
// the display name; any other id links the POC contact record; no id sets no POC column.
func NominationFields(n api.KeynoteNomination, eventID string) map[string]any {
	fields := map[string]any{
		FieldSpeakerName:    strings.TrimSpace(n.SpeakerName),
		FieldSpeakerTitle:   strings.TrimSpace(n.SpeakerTitle),
		FieldSpeakerCompany: strings.TrimSpace(n.SpeakerCompany),
		FieldJustification:  strings.TrimSpace(n.Justification),
	}
	if v := strings.TrimSpace(n.LinkedInURL); v != "" {
		fields[FieldLinkedInURL] = v
	}
	switch id := strings.TrimSpace(n.SpeakerPOCID); {
	case id == api.OtherPOC:
		name := strings.TrimSpace(n.SpeakerPOCCustomName)
		if name == "" {
			name = strings.TrimSpace(n.SpeakerPOCName)
		}
		if name != "" {
			fields[FieldSpeakerPOCOther] = name
		}
	case id != "":
		fields[FieldSpeakerPOC] = []string{id}
	}
	if eventID != "" {
		fields[FieldEvents] = []string{eventID}
	}
	return fields
}

// NominationFromRecord reads a nomination row. Missing columns become empty values.
func NominationFromRecord(r records.Record) api.Nomination {
	pocs := records.StringsField(r.Fields, FieldSpeakerPOC)
	if pocs == nil {
		pocs = []string{}
	}
	return api.Nomination{
		ID:              r.ID,
		CreatedTime:     r.CreatedTime,
		SpeakerName:     records.StringField(r.Fields, FieldSpeakerName),
		SpeakerTitle:    records.StringField(r.Fields, FieldSpeakerTitle),
		SpeakerCompany:  records.StringField(r.Fields, FieldSpeakerCompany),
		LinkedInURL:     records.StringField(r.Fields, FieldLinkedInURL),
		Justification:   records.StringField(r.Fields, FieldJustification),
		SpeakerPOCIDs:   pocs,
		SpeakerPOCOther: records.StringField(r.Fields, FieldSpeakerPOCOther),
	}
}

// SpeakerPOCFromRecord reads a contact row as a speaker POC.
func SpeakerPOCFromRecord(r records.Record) api.SpeakerPOC {
	return api.SpeakerPOC{
		ID:    r.ID,
		Name:  records.StringField(r.Fields, FieldName),
		Email: records.StringField(r.Fields, FieldEmail),
	}
}
