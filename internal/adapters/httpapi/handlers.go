package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oniisama/embedforge/internal/usecase"
	"github.com/oniisama/embedforge/pkg/domain"
)

// embedRequest is the common request envelope for embed operations. The
// embed document is in stored form, not wire form.
type embedRequest struct {
	Embed      *domain.Embed        `json:"embed"`
	Components *domain.ComponentSet `json:"components,omitempty"`
}

type validateResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

type exportRequest struct {
	Embed  *domain.Embed `json:"embed"`
	Format string        `json:"format"`
}

type exportResponse struct {
	Format    string `json:"format"`
	Content   string `json:"content"`
	Extension string `json:"extension"`
}

type sendRequest struct {
	Embed      *domain.Embed        `json:"embed"`
	Components *domain.ComponentSet `json:"components,omitempty"`
	WebhookURL string               `json:"webhook_url,omitempty"`
	Username   string               `json:"username,omitempty"`
	AvatarURL  string               `json:"avatar_url,omitempty"`
	Force      bool                 `json:"force,omitempty"`
}

type sendResponse struct {
	Success    bool     `json:"success"`
	Violations []string `json:"violations,omitempty"`
	EventID    string   `json:"event_id"`
	StatusCode int      `json:"status_code,omitempty"`
	Message    string   `json:"message"`
	SentAt     string   `json:"sent_at"`
}

type historyResponse struct {
	Embeds  []*domain.Embed `json:"embeds"`
	Dropped int             `json:"dropped"`
}

type templateListResponse struct {
	Templates []domain.Template `json:"templates"`
	Dropped   int               `json:"dropped"`
}

// errorResponse is the shared error body shape.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, errs []string) {
	s.writeJSON(w, status, errorResponse{Message: message, Errors: errs})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Embed == nil {
		s.writeError(w, http.StatusBadRequest, "Missing embed", nil)
		return
	}

	violations := req.Embed.Validate()
	if req.Components != nil && !req.Components.IsEmpty() {
		violations = append(violations, req.Components.Validate()...)
	}

	s.writeJSON(w, http.StatusOK, validateResponse{
		Valid:      len(violations) == 0,
		Violations: append([]string{}, violations...),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Embed == nil {
		s.writeError(w, http.StatusBadRequest, "Missing embed", nil)
		return
	}

	components := req.Components
	if components != nil && components.IsEmpty() {
		components = nil
	}

	s.writeJSON(w, http.StatusOK, domain.NewMessagePayload(req.Embed, "", "", components))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Embed == nil {
		s.writeError(w, http.StatusBadRequest, "Missing embed", nil)
		return
	}

	result, err := s.exportEmbed.Execute(r.Context(), usecase.ExportEmbedCommand{
		Embed:  req.Embed,
		Format: usecase.ExportFormat(req.Format),
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, exportResponse{
		Format:    req.Format,
		Content:   result.Content,
		Extension: result.Extension,
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Embed == nil {
		s.writeError(w, http.StatusBadRequest, "Missing embed", nil)
		return
	}

	result, err := s.sendEmbed.Execute(r.Context(), usecase.SendEmbedCommand{
		Embed:      req.Embed,
		Components: req.Components,
		WebhookURL: req.WebhookURL,
		Username:   req.Username,
		AvatarURL:  req.AvatarURL,
		Force:      req.Force,
	})
	if err != nil {
		var rejection *domain.RemoteRejectedError
		if errors.As(err, &rejection) {
			s.writeError(w, http.StatusBadGateway, rejection.Message, nil)
			return
		}
		var transport *domain.TransportError
		if errors.As(err, &transport) {
			s.writeError(w, http.StatusBadGateway, "Failed to reach Discord", nil)
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	status := http.StatusOK
	if !result.Success {
		// Blocked by validation, nothing was dispatched.
		status = http.StatusUnprocessableEntity
	}

	s.writeJSON(w, status, sendResponse{
		Success:    result.Success,
		Violations: result.Violations,
		EventID:    result.EventID,
		StatusCode: result.StatusCode,
		Message:    result.Message,
		SentAt:     result.SentAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	result, err := s.getHistory.Execute(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to read history", nil)
		return
	}

	embeds := result.Embeds
	if embeds == nil {
		embeds = []*domain.Embed{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Embeds: embeds, Dropped: result.Dropped})
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.getHistory.Clear(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to clear history", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTemplateList(w http.ResponseWriter, r *http.Request) {
	result, err := s.templates.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list templates", nil)
		return
	}

	templates := result.Templates
	if templates == nil {
		templates = []domain.Template{}
	}
	s.writeJSON(w, http.StatusOK, templateListResponse{Templates: templates, Dropped: result.Dropped})
}

func (s *Server) handleTemplateSave(w http.ResponseWriter, r *http.Request) {
	var req domain.Template
	if !s.decode(w, r, &req) {
		return
	}

	err := s.templates.Save(r.Context(), usecase.SaveTemplateCommand{
		Name:        req.Name,
		Description: req.Description,
		Embed:       req.Embed,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	template, err := s.templates.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := s.templates.Delete(r.Context(), name); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error(), nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to read settings", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var settings domain.WebhookSettings
	if !s.decode(w, r, &settings) {
		return
	}

	if err := s.settings.Update(r.Context(), settings); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
