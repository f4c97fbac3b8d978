package viewer

import (
	"embed"
	"html/template"
	"io"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/archive"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/viewer.html"))

// page is the data of the viewer template.
type page struct {
	Item archive.Item
	Tier string
}

// Render writes the viewer page of item. The page contains the markup of every tier and starts
// on the tier of Initial. Its script moves from embed to static when the browser cannot show
// the PDF, which is the EmbedFailed transition of Machine.
func Render(w io.Writer, item archive.Item) error {
	return pageTemplate.Execute(w, page{Item: item, Tier: Initial(item).Tier().String()})
}
