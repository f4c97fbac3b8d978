package service

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/logging"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/metrics"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/model"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
	api "gitlab.com/dirk.krummacker/aim-summit-service/pkg/model"
)

// Form names used in logs and metrics.
const (
	formContact    = "contact"
	formNewsletter = "newsletter"
	formNomination = "keynote_nomination"
)

// submission is a validated form ready to be written.
type submission struct {
	form    string
	backend records.Backend
	// unavailable is the status answered when the backend could not be constructed.
	unavailable int
	table       string
	token       string
	fields      map[string]any
	success     string
	failure     string
}

// submit runs the steps shared by all forms after validation: backend check, bot verification
// and record creation. Exactly one record is created per accepted submission and none
// otherwise.
func (s *Service) submit(c *gin.Context, sub submission) {
	log := s.deps.Logger.With(zap.String("form", sub.form), zap.String("request_id", logging.GetRequestID(c)))
	if !sub.backend.Available() {
		log.Error("store not configured", zap.Error(sub.backend.Err))
		s.deps.Metrics.Submission(sub.form, metrics.OutcomeUnavailable)
		message := "Server configuration error"
		if sub.unavailable == http.StatusServiceUnavailable {
			message = "Service temporarily unavailable"
		}
		c.AbortWithStatusJSON(sub.unavailable, gin.H{"error": message})
		return
	}

	ctx := c.Request.Context()
	verdict, err := s.deps.Verifier.Verify(ctx, sub.token, c.ClientIP())
	if err != nil {
		log.Error("bot verification failed", zap.Error(err))
		s.deps.Metrics.UpstreamError("verification", "unknown")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Verification failed, please try again"})
		return
	}
	if verdict.IsBot {
		log.Warn("submission rejected as automated", zap.Strings("reasons", verdict.Reasons))
		s.deps.Metrics.Submission(sub.form, metrics.OutcomeBot)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Bot detected"})
		return
	}

	ctx, cancel := s.upstreamContext(ctx)
	defer cancel()
	rec, err := sub.backend.Store.Create(ctx, sub.table, sub.fields)
	if err != nil {
		s.deps.Metrics.Submission(sub.form, metrics.OutcomeUpstream)
		s.respondStoreError(c, "store", err, sub.failure)
		return
	}
	log.Info("submission stored", zap.String("table", sub.table), zap.String("record_id", rec.ID))
	s.deps.Metrics.Submission(sub.form, metrics.OutcomeCreated)
	c.JSON(http.StatusOK, api.Confirmation{Message: sub.success, ID: rec.ID})
}

// upstreamContext bounds a call to an external service by the configured timeout.
func (s *Service) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.UpstreamTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
}

// invalid answers a request whose body failed validation.
func (s *Service) invalid(c *gin.Context, form string, err error) {
	s.deps.Metrics.Submission(form, metrics.OutcomeInvalid)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
}

// createContact stores a contact form submission.
//
// Required fields are firstName, lastName, email and message. When bot verification is
// configured, turnstileToken must carry the challenge token of the form.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contact --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com", "phoneNumber": "+49 0815 4711", "message": "Hello", "turnstileToken": "XXXX.DUMMY.TOKEN"}'
func (s *Service) createContact(c *gin.Context) {
	var form api.ContactSubmission
	if err := c.ShouldBindJSON(&form); err != nil {
		s.invalid(c, formContact, err)
		return
	}
	s.submit(c, submission{
		form:        formContact,
		backend:     s.deps.Contact,
		unavailable: http.StatusInternalServerError,
		table:       s.cfg.ContactTable,
		token:       form.TurnstileToken,
		fields:      model.ContactFields(form, s.cfg.SourceTag),
		success:     "Thank you for contacting us! We will get back to you soon.",
		failure:     "Failed to submit the contact form",
	})
}

// createNewsletterSignup stores a newsletter subscription.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/newsletter --request "POST" --include --header "Content-Type: application/json" --data '{"email": "erika@example.com", "turnstileToken": "XXXX.DUMMY.TOKEN"}'
func (s *Service) createNewsletterSignup(c *gin.Context) {
	var form api.NewsletterSignup
	if err := c.ShouldBindJSON(&form); err != nil {
		s.invalid(c, formNewsletter, err)
		return
	}
	s.submit(c, submission{
		form:        formNewsletter,
		backend:     s.deps.Contact,
		unavailable: http.StatusInternalServerError,
		table:       s.cfg.NewsletterTable,
		token:       form.TurnstileToken,
		fields:      model.NewsletterFields(form, s.cfg.SourceTag),
		success:     "You are subscribed to summit updates.",
		failure:     "Failed to subscribe",
	})
}

// createNomination stores a keynote speaker nomination in the project management base.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/keynote-nominations --request "POST" --include --header "Content-Type: application/json" --data '{"speakerName": "Dr. Ada Lovelace", "speakerTitle": "Chief Scientist", "speakerCompany": "DHA", "justification": "Pioneer", "speakerPocId": "other", "speakerPocCustomName": "Jane Roe", "turnstileToken": "XXXX.DUMMY.TOKEN"}'
func (s *Service) createNomination(c *gin.Context) {
	var form api.KeynoteNomination
	if err := c.ShouldBindJSON(&form); err != nil {
		s.invalid(c, formNomination, err)
		return
	}
	s.submit(c, submission{
		form:        formNomination,
		backend:     s.deps.Project,
		unavailable: http.StatusServiceUnavailable,
		table:       s.cfg.NominationTable,
		token:       form.TurnstileToken,
		fields:      model.NominationFields(form, s.cfg.NominationEventID),
		success:     "Thank you for your nomination!",
		failure:     "Failed to submit the nomination",
	})
}

// listNominations responds with all nominations, newest first.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/keynote-nominations
func (s *Service) listNominations(c *gin.Context) {
	if !s.deps.Project.Available() {
		s.deps.Logger.Error("store not configured", zap.Error(s.deps.Project.Err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	ctx, cancel := s.upstreamContext(c.Request.Context())
	defer cancel()
	recs, err := s.deps.Project.Store.List(ctx, s.cfg.NominationTable, records.ListOptions{
		Sort: []records.Sort{{Field: records.CreatedField, Direction: records.Descending}},
	})
	if err != nil {
		s.respondStoreError(c, "store", err, "Failed to fetch nominations")
		return
	}
	nominations := make([]api.Nomination, 0, len(recs))
	for _, r := range recs {
		nominations = append(nominations, model.NominationFromRecord(r))
	}
	c.IndentedJSON(http.StatusOK, gin.H{"nominations": nominations})
}

// listSpeakerPOCs responds with the contacts tagged as speaker POC, sorted by name. Every
// request queries the store.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/speaker-pocs
func (s *Service) listSpeakerPOCs(c *gin.Context) {
	if !s.deps.Project.Available() {
		s.deps.Logger.Error("store not configured", zap.Error(s.deps.Project.Err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	}
	ctx, cancel := s.upstreamContext(c.Request.Context())
	defer cancel()
	recs, err := s.deps.Project.Store.List(ctx, s.cfg.PMContactsTable, records.ListOptions{
		Filter: &records.TagFilter{Field: model.FieldTags, Value: s.cfg.POCTag},
		Sort:   []records.Sort{{Field: model.FieldName, Direction: records.Ascending}},
		Fields: []string{model.FieldName, model.FieldEmail},
	})
	if err != nil {
		s.respondStoreError(c, "store", err, "Failed to fetch speaker POCs")
		return
	}
	pocs := make([]api.SpeakerPOC, 0, len(recs))
	for _, r := range recs {
		pocs = append(pocs, model.SpeakerPOCFromRecord(r))
	}
	c.IndentedJSON(http.StatusOK, pocs)
}
