package service

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/blob"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/logging"
	api "gitlab.com/dirk.krummacker/aim-summit-service/pkg/model"
)

// multipartOverhead is the room left for the multipart envelope around the file.
const multipartOverhead = 1 << 20

// sniffLen is the number of bytes inspected to detect the file type.
const sniffLen = 3072

// requireAdmin checks the bearer token of admin routes when one is configured.
func (s *Service) requireAdmin(c *gin.Context) {
	if s.cfg.AdminToken == "" {
		c.Next()
		return
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

// upload stores an image for the site admin in blob storage. The multipart field 'file' must
// be a JPEG, PNG, GIF, WebP or SVG image of at most 4.5 MB.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/admin/upload --request "POST" --form "file=@logo.png;type=image/png"
func (s *Service) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, blob.MaxUploadSize+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 4.5MB"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	declared := header.Header.Get("Content-Type")
	if err := blob.ValidateHeader(declared, header.Size); err != nil {
		message := "Invalid file type. Allowed types are JPEG, PNG, GIF, WebP and SVG"
		if errors.Is(err, blob.ErrTooLarge) {
			message = "File too large. Maximum size is 4.5MB"
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
		return
	}
	defer file.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
		return
	}
	if _, err := blob.ValidateContent(head[:n]); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File content does not match an allowed image type"})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if s.deps.Uploader == nil {
		s.deps.Logger.Error("blob storage not configured", zap.Error(s.deps.UploaderErr))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Blob storage is not configured"})
		return
	}
	pathname := blob.Pathname(header.Filename, s.deps.Now())
	ctx, cancel := s.upstreamContext(c.Request.Context())
	defer cancel()
	obj, err := s.deps.Uploader.Put(ctx, pathname, declared, file, header.Size)
	if err != nil {
		s.deps.Logger.Error("blob upload failed",
			zap.String("pathname", pathname),
			zap.String("request_id", logging.GetRequestID(c)),
			zap.Error(err))
		s.deps.Metrics.UpstreamError("blob", "unknown")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}
	s.deps.Logger.Info("admin upload stored", zap.String("pathname", obj.Pathname), zap.Int64("size", header.Size))
	c.JSON(http.StatusOK, api.UploadResult{
		URL:         obj.URL,
		Pathname:    obj.Pathname,
		Size:        header.Size,
		ContentType: declared,
	})
}
