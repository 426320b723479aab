package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"waybackhome/internal/ports/input"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.opts.Version,
	})
}

func (s *Server) clientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, configResponse{
		APIBaseURL: s.opts.APIBaseURL,
		MapBaseURL: s.opts.MapBaseURL,
		Version:    s.opts.Version,
	})
}

func (s *Server) getEvent(c *gin.Context) {
	event, err := s.svc.Events.GetEvent(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}

func (s *Server) checkUsername(c *gin.Context) {
	username := c.Param("username")
	available, err := s.svc.Events.CheckUsername(c.Request.Context(), c.Param("code"), username)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, usernameCheckResponse{Available: available, Username: username})
}

func (s *Server) listParticipants(c *gin.Context) {
	participants, err := s.svc.Events.ListParticipants(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]participantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, toParticipantResponse(&participants[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failBinding(c, err)
		return
	}
	spec := input.EventSpec{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.MaxParticipants != nil {
		spec.MaxParticipants = *req.MaxParticipants
	}
	event, err := s.svc.Admin.CreateEvent(c.Request.Context(), spec, c.GetString(adminEmailKey))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(event))
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.svc.Admin.ListEvents(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deactivateEvent(c *gin.Context) {
	code := c.Param("code")
	actor := c.GetString(adminEmailKey)
	if err := s.svc.Admin.DeactivateEvent(c.Request.Context(), code, actor); err != nil {
		s.fail(c, err)
		return
	}
	locale := s.tr.Locale(c.GetHeader("Accept-Language"))
	c.JSON(http.StatusOK, deactivateResponse{
		Status:        "success",
		Message:       s.tr.T(locale, "event_deactivated", map[string]any{"Code": code}),
		DeactivatedBy: actor,
	})
}
