package handler

import (
	"net/http"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profile model.Profile
}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{
		profile: model.Profile{
			Name:   "Raizel Criz",
			Title:  "Web Designer & Developer",
			Skills: []string{"HTML", "CSS", "JavaScript", "React", "Node.js"},
			About:  "Curious, creative, and passionate about organizing ideas into digital art.",
		},
	}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.getProfile)
}

func (h *ProfileHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	// Private: the payload sits behind authentication, so shared caches
	// must not hold it.
	w.Header().Set("Cache-Control", "private, max-age=600")
	common.RespondWithJSON(w, http.StatusOK, h.profile)
}
