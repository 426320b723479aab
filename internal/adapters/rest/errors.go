package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"waybackhome/internal/domain"
)

type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindConflict:            http.StatusConflict,
	domain.KindResourceExhausted:   http.StatusConflict,
	domain.KindInvalidInput:        http.StatusUnprocessableEntity,
	domain.KindUnauthorized:        http.StatusUnauthorized,
	domain.KindForbidden:           http.StatusForbidden,
	domain.KindGone:                http.StatusGone,
	domain.KindUpstreamUnavailable: http.StatusServiceUnavailable,
	domain.KindInternal:            http.StatusInternalServerError,
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrUploadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// fail aborts the request with the status and localized reason for err.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	code := domain.Code(err)
	if code == "" || domain.KindOf(err) == domain.KindInternal {
		code = "internal"
	}
	locale := s.tr.Locale(c.GetHeader("Accept-Language"))
	c.AbortWithStatusJSON(statusFor(err), errorResponse{
		Code:   code,
		Detail: s.tr.T(locale, code, nil),
	})
}

// failBinding reports a gin binding failure. Field rule
// violations are InvalidInput (422); unparsable bodies are 400.
func (s *Server) failBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		s.fail(c, domain.Invalid(validationCode(verrs[0]), "%s", verrs.Error()))
		return
	}
	_ = c.Error(err)
	locale := s.tr.Locale(c.GetHeader("Accept-Language"))
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Code:   "invalid_request",
		Detail: s.tr.T(locale, "invalid_request", nil),
	})
}

func validationCode(fe validator.FieldError) string {
	switch fe.Field() {
	case "Code", "EventCode":
		return "invalid_event_code"
	case "Name":
		return "invalid_event_name"
	case "MaxParticipants":
		return "invalid_max_participants"
	case "Username":
		return "invalid_username"
	case "ParticipantID":
		return "invalid_participant_id"
	case "X", "Y":
		return "invalid_coordinates"
	}
	return "invalid_request"
}
