package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/input"
)

// multipartOverhead covers headers and boundaries around the two files.
const multipartOverhead = 1 << 20

func (s *Server) createParticipant(c *gin.Context) {
	var req createParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failBinding(c, err)
		return
	}
	reg := input.Registration{
		EventCode:     req.EventCode,
		Username:      req.Username,
		ParticipantID: req.ParticipantID,
		Profile: entities.Profile{
			SuitColor:  req.SuitColor,
			Appearance: req.Appearance,
		},
	}
	if req.X != nil && req.Y != nil {
		reg.Start = &input.Coordinates{X: *req.X, Y: *req.Y}
	}
	p, err := s.svc.Participants.RegisterParticipant(c.Request.Context(), reg)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toParticipantResponse(p))
}

func (s *Server) completeRegistration(c *gin.Context) {
	var req completeRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failBinding(c, err)
		return
	}
	p, err := s.svc.Participants.CompleteRegistration(c.Request.Context(), req.ParticipantID, req.SuitColor, req.Appearance)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toParticipantResponse(p))
}

func (s *Server) getParticipant(c *gin.Context) {
	p, err := s.svc.Participants.GetParticipant(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toParticipantResponse(p))
}

func (s *Server) confirmLocation(c *gin.Context) {
	var q locationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.failBinding(c, err)
		return
	}
	at := input.Coordinates{X: *q.X, Y: *q.Y}
	p, err := s.svc.Participants.ConfirmLocation(c.Request.Context(), c.Param("id"), at)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toParticipantResponse(p))
}

func (s *Server) uploadAvatar(c *gin.Context) {
	limit := s.opts.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*limit+multipartOverhead)

	portrait, err := formFile(c, "portrait", limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	icon, err := formFile(c, "icon", limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.svc.Participants.UploadAvatar(c.Request.Context(), c.Param("id"), portrait, icon)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, avatarResponse{
		PortraitURL: p.Profile.PortraitURL,
		IconURL:     p.Profile.IconURL,
	})
}

func formFile(c *gin.Context, field string, limit int64) (input.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return input.Upload{}, domain.ErrUploadTooLarge.With(err)
		}
		return input.Upload{}, domain.ErrMissingUpload.With(fmt.Errorf("%s: %w", field, err))
	}
	if fh.Size > limit {
		return input.Upload{}, domain.ErrUploadTooLarge.With(fmt.Errorf("%s is %d bytes", field, fh.Size))
	}
	f, err := fh.Open()
	if err != nil {
		return input.Upload{}, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return input.Upload{}, fmt.Errorf("read %s: %w", field, err)
	}
	if int64(len(data)) > limit {
		return input.Upload{}, domain.ErrUploadTooLarge.With(fmt.Errorf("%s exceeds %d bytes", field, limit))
	}
	return input.Upload{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}
