package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/profile"
)

const (
	serviceName     = "talent-discovery API with semantic search"
	detailNotFound  = "Profile not found"
	detailNoQuery   = "Query parameter 'query' is required"
	detailSearchErr = "Failed to search profiles: "
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceName})
}

func (s *Server) searchHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var in profile.Input
	if !decodeBody(w, r, &in) {
		return
	}

	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.profiles.Create(r.Context(), in)
	if err != nil {
		s.storeError(w, "create profile", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.profiles.List(r.Context())
	if err != nil {
		s.storeError(w, "list profiles", err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, "get profile", err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var u profile.Update
	if !decodeBody(w, r, &u) {
		return
	}

	if err := u.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := s.profiles.Update(r.Context(), r.PathValue("id"), u)
	if err != nil {
		s.storeError(w, "update profile", err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, "delete profile", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	values, ok := r.URL.Query()["query"]
	if !ok || len(values) == 0 {
		writeError(w, http.StatusUnprocessableEntity, detailNoQuery)
		return
	}

	ranking, err := s.searcher.Search(r.Context(), values[0])
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, detailSearchErr+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ranking)
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, profile.ErrNotFound) {
		writeError(w, http.StatusNotFound, detailNotFound)
		return
	}

	s.logger.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
