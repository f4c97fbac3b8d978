// Package archive lists the reports of past summits.
package archive

// storageBase is where the archived PDFs and thumbnails live in object storage.
const storageBase = "https://aimhealth.public.blob.vercel-storage.com/archive/"

// Item is one archived report.
type Item struct {
	ID           string `json:"id"`
	Year         int    `json:"year"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PDFURL       string `json:"pdfUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Available    bool   `json:"available"`
}

var items = []Item{
	{
		ID:           "2025-summit-report",
		Year:         2025,
		Title:        "2025 Summit Report",
		Description:  "Highlights, keynote summaries and working group outcomes from the 2025 AIM Health R&D Summit.",
		PDFURL:       "/api/pdf/2025-summit-report",
		ThumbnailURL: storageBase + "2025-summit-report.jpg",
		Available:    true,
	},
	{
		ID:           "2024-summit-report",
		Year:         2024,
		Title:        "2024 Summit Report",
		Description:  "Proceedings of the 2024 summit, including the military health research priorities panel.",
		PDFURL:       "/api/pdf/2024-summit-report",
		ThumbnailURL: storageBase + "2024-summit-report.jpg",
		Available:    true,
	},
	{
		ID:           "2024-poster-abstracts",
		Year:         2024,
		Title:        "2024 Poster Abstracts",
		Description:  "Abstracts of all posters presented in the 2024 poster hall.",
		PDFURL:       "/api/pdf/2024-poster-abstracts",
		ThumbnailURL: storageBase + "2024-poster-abstracts.jpg",
		Available:    true,
	},
	{
		ID:           "2023-summit-report",
		Year:         2023,
		Title:        "2023 Summit Report",
		Description:  "The inaugural summit report. A digital copy is being prepared.",
		PDFURL:       "/api/pdf/2023-summit-report",
		ThumbnailURL: storageBase + "2023-summit-report.jpg",
		Available:    false,
	},
}

// Items returns the archive, newest first. The slice is a copy.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Find returns the item with the given id.
func Find(id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Sources maps the id of every available item to the storage URL of its PDF.
func Sources() map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		if it.Available {
			out[it.ID] = storageBase + it.ID + ".pdf"
		}
	}
	return out
}
