// Package service wires the HTTP routes of the summit site API.
package service

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/blob"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/config"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/logging"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/metrics"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/pdfproxy"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/verify"
)

// Dependencies are the collaborators of the service. Stores and the uploader may be missing;
// the routes using them then answer with an error status instead of failing at startup.
type Dependencies struct {
	// Contact holds contact form and newsletter rows.
	Contact records.Backend

	// Project is the project management base with nominations and POC contacts.
	Project records.Backend

	Verifier verify.Verifier

	Uploader    blob.Uploader
	UploaderErr error

	PDFs *pdfproxy.Proxy

	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Service serves the API.
type Service struct {
	cfg  *config.Config
	deps Dependencies
}

// New returns a service. Missing optional dependencies are replaced by inert defaults.
func New(cfg *config.Config, deps Dependencies) *Service {
	if deps.Verifier == nil {
		deps.Verifier = verify.Disabled{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.PDFs == nil {
		deps.PDFs = pdfproxy.New(nil, nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Uploader == nil && deps.UploaderErr == nil {
		deps.UploaderErr = blob.ErrMissingToken
	}
	registerValidators()
	return &Service{cfg: cfg, deps: deps}
}

var validatorsOnce sync.Once

// registerValidators adds the notblank tag and makes validation errors name the JSON field.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func (s *Service) SetupHttpRouter() *gin.Engine {
	router := gin.New()
	router.Use(logging.RequestID(), logging.Recovery(s.deps.Logger), s.deps.Metrics.Middleware())
	if s.cfg.LoggingOff() {
		s.deps.Logger.Info("turning off HTTP request logging")
	} else {
		router.Use(logging.Middleware(s.deps.Logger))
	}

	router.GET("/healthz", health)
	router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.POST("/contact", s.createContact)
	apiGroup.POST("/newsletter", s.createNewsletterSignup)
	apiGroup.POST("/keynote-nominations", s.createNomination)
	apiGroup.GET("/keynote-nominations", s.listNominations)
	apiGroup.GET("/speaker-pocs", s.listSpeakerPOCs)
	apiGroup.GET("/pdf/:id", s.servePDF)
	apiGroup.GET("/archive", listArchive)
	apiGroup.GET("/presenters", listPresenters)
	apiGroup.POST("/admin/upload", s.requireAdmin, s.upload)

	router.GET("/archive/:id", viewArchiveItem)
	return router
}

// health answers the availability probe.
//
// Example REST API call:
//
//	> curl http://localhost:8080/healthz
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
