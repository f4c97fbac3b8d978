// Package model holds the JSON payloads of the summit site API.
package model

import "time"

// ContactSubmission is the body of POST /api/contact.
type ContactSubmission struct {
	FirstName      string `json:"firstName"                binding:"notblank,max=100"`
	LastName       string `json:"lastName"                 binding:"notblank,max=100"`
	Email          string `json:"email"                    binding:"notblank,email,max=254"`
	PhoneNumber    string `json:"phoneNumber,omitempty"    binding:"max=40"`
	Message        string `json:"message"                  binding:"notblank,max=5000"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

// NewsletterSignup is the body of POST /api/newsletter.
type NewsletterSignup struct {
	Email          string `json:"email"                    binding:"notblank,email,max=254"`
	FirstName      string `json:"firstName,omitempty"      binding:"max=100"`
	LastName       string `json:"lastName,omitempty"       binding:"max=100"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

// OtherPOC is the speakerPocId value selecting a POC that is not in the contacts table.
const OtherPOC = "other"

// KeynoteNomination is the body of POST /api/keynote-nominations.
type KeynoteNomination struct {
	SpeakerName          string `json:"speakerName"                    binding:"notblank,max=200"`
	SpeakerTitle         string `json:"speakerTitle"                   binding:"notblank,max=200"`
	SpeakerCompany       string `json:"speakerCompany"                 binding:"notblank,max=200"`
	LinkedInURL          string `json:"linkedinUrl,omitempty"          binding:"omitempty,url"`
	Justification        string `json:"justification"                  binding:"notblank,max=5000"`
	SpeakerPOCID         string `json:"speakerPocId,omitempty"`
	SpeakerPOCName       string `json:"speakerPocName,omitempty"`
	SpeakerPOCCustomName string `json:"speakerPocCustomName,omitempty"`
	TurnstileToken       string `json:"turnstileToken,omitempty"`
}

// Nomination is a stored keynote nomination as listed by GET /api/keynote-nominations.
type Nomination struct {
	ID              string    `json:"id"`
	CreatedTime     time.Time `json:"createdTime"`
	SpeakerName     string    `json:"speakerName"`
	SpeakerTitle    string    `json:"speakerTitle"`
	SpeakerCompany  string    `json:"speakerCompany"`
	LinkedInURL     string    `json:"linkedinUrl"`
	Justification   string    `json:"justification"`
	SpeakerPOCIDs   []string  `json:"speakerPocIds"`
	SpeakerPOCOther string    `json:"speakerPocOther"`
}

// SpeakerPOC is a staff contact that can be named as point of contact of a nomination.
type SpeakerPOC struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Confirmation is the answer to an accepted submission.
type Confirmation struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// UploadResult is the answer of POST /api/admin/upload.
type UploadResult struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}
