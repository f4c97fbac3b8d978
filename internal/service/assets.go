package service

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/archive"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/pdfproxy"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/presenter"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/viewer"
)

// pdfCacheControl lets browsers and CDNs keep an archived PDF for a year.
const pdfCacheControl = "public, max-age=31536000, immutable"

// servePDF streams the archived PDF with the given id from object storage.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/pdf/2024-summit-report --output report.pdf
func (s *Service) servePDF(c *gin.Context) {
	id := c.Param("id")
	if !s.deps.PDFs.Has(id) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
		return
	}
	ctx, cancel := s.upstreamContext(c.Request.Context())
	defer cancel()
	data, err := s.deps.PDFs.Fetch(ctx, id)
	switch {
	case errors.Is(err, pdfproxy.ErrUnknownAsset):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
		return
	case errors.Is(err, pdfproxy.ErrUnavailable):
		s.deps.Logger.Warn("pdf fetch failed", zap.String("id", id), zap.Error(err))
		s.deps.Metrics.UpstreamError("object_storage", "unavailable")
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "PDF not available"})
		return
	case err != nil:
		s.deps.Logger.Error("pdf read failed", zap.String("id", id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load PDF"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, id))
	c.Header("Cache-Control", pdfCacheControl)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// listArchive responds with the reports of past summits.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/archive
func listArchive(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, archive.Items())
}

// viewArchiveItem renders the PDF viewer page of an archived report.
//
// Example call:
//
//	> curl http://localhost:8080/archive/2024-summit-report
func viewArchiveItem(c *gin.Context) {
	item, ok := archive.Find(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "Report not found")
		return
	}
	var page bytes.Buffer
	if err := viewer.Render(&page, item); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

// presenterPage is the answer of GET /api/presenters.
type presenterPage struct {
	Items      []presenter.Presenter `json:"items"`
	Total      int                   `json:"total"`
	HasMore    bool                  `json:"hasMore"`
	Categories []string              `json:"categories"`
}

// listPresenters responds with the poster presenters matching the URL parameters 'search'
// (substring of title or authors, ignoring case) and 'category'. The URL parameter 'count'
// specifies how many presenters are returned; it defaults to one page.
//
// REST API calls:
//
//	> curl "http://localhost:8080/api/presenters"
//	> curl "http://localhost:8080/api/presenters?search=brennan"
//	> curl "http://localhost:8080/api/presenters?category=Digital%20Health&count=12"
func listPresenters(c *gin.Context) {
	count := presenter.PageSize
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid count parameter"})
			return
		}
		count = n
	}
	all := presenter.All()
	pager := presenter.NewPager(all)
	pager.SetQuery(c.Query("search"))
	if category := c.Query("category"); category != "" {
		pager.SetCategory(category)
	}
	for pager.Count() < count && pager.HasMore() {
		pager.LoadMore()
	}
	visible := pager.Visible()
	visible = visible[:min(count, len(visible))]
	c.IndentedJSON(http.StatusOK, presenterPage{
		Items:      visible,
		Total:      pager.Total(),
		HasMore:    len(visible) < pager.Total(),
		Categories: presenter.Categories(all),
	})
}
