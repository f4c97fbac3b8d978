package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/logging"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
)

// storeFailure is how a class of store error is presented to the client.
type storeFailure struct {
	status  int
	message string
}

var storeFailures = map[records.Kind]storeFailure{
	records.KindNotAuthorized:  {http.StatusForbidden, "Not authorized to access the data store"},
	records.KindTableNotFound:  {http.StatusNotFound, "Data store table not found"},
	records.KindInvalidRequest: {http.StatusUnprocessableEntity, "The data store rejected the submission"},
	records.KindUnavailable:    {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// respondStoreError translates a failed store call into a response. Unknown failures are
// logged and answered with fallback, which never exposes the upstream message.
func (s *Service) respondStoreError(c *gin.Context, service string, err error, fallback string) records.Kind {
	kind := records.Classify(err)
	s.deps.Metrics.UpstreamError(service, kind.String())
	if f, ok := storeFailures[kind]; ok {
		s.deps.Logger.Warn("store call failed",
			zap.String("service", service),
			zap.String("kind", kind.String()),
			zap.String("request_id", logging.GetRequestID(c)),
			zap.Error(err))
		c.AbortWithStatusJSON(f.status, gin.H{"error": f.message})
		return kind
	}
	s.deps.Logger.Error("store call failed",
		zap.String("service", service),
		zap.String("request_id", logging.GetRequestID(c)),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback})
	return kind
}

// bindingMessage turns a ShouldBindJSON error into a message for the form.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return fmt.Sprintf("Invalid value for %s", typeErr.Field)
		case errors.As(err, &syntaxErr), err.Error() == "EOF":
			return "Invalid JSON"
		}
		return "Invalid request body"
	}
	var missing, invalid []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "notblank", "required":
			missing = append(missing, fe.Field())
		default:
			if !slices.Contains(invalid, fe.Field()) {
				invalid = append(invalid, fe.Field())
			}
		}
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "Invalid fields: "+strings.Join(invalid, ", "))
	}
	return strings.Join(parts, ". ")
}
