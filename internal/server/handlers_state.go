package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/sanitize"
	"github.com/jonathan/resume-builder/internal/types"
)

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.editor.Snapshot())
}

func (s *Server) handleSetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cleanResume(resume)
	if err := s.editor.SetResume(r.Context(), *resume); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.editor.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.editor.Snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Clear(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.editor.Snapshot())
}

func (s *Server) handleUpdateBasics(w http.ResponseWriter, r *http.Request) {
	var p types.BasicsPatch
	if err := decodeJSON(w, r, &p, false); err != nil {
		s.writeError(w, err)
		return
	}
	cleanBasicsPatch(&p)
	basics, err := s.editor.UpdateBasics(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, basics)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p types.SettingsPatch
	if err := decodeJSON(w, r, &p, false); err != nil {
		s.writeError(w, err)
		return
	}
	settings, err := s.editor.UpdateSettings(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (s *Server) handleReorderWork(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	if req.From == nil || req.To == nil {
		s.writeError(w, &ErrValidation{Field: "from/to", Message: "both indexes are required"})
		return
	}
	ok, err := s.editor.ReorderWork(r.Context(), *req.From, *req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, &ErrValidation{Field: "from/to", Message: "index out of range"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.editor.Snapshot().Resume.Work)
}

type sectionRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleAddCustomSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, err)
		return
	}
	cs, err := s.editor.AddCustomSection(r.Context(), sanitize.TextAndTruncate(req.Title, sanitize.MaxShortLength))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, cs)
}

func (s *Server) handleUpdateCustomSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	id := r.PathValue("id")
	ok, err := s.editor.UpdateCustomSectionTitle(r.Context(), id, sanitize.TextAndTruncate(req.Title, sanitize.MaxShortLength))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, &ErrNotFound{Kind: "custom section", ID: id})
		return
	}
	for _, cs := range s.editor.Snapshot().Resume.CustomSections {
		if cs.ID == id {
			s.jsonResponse(w, http.StatusOK, cs)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCustomSectionItem(w http.ResponseWriter, r *http.Request) {
	var p types.CustomSectionItemPatch
	if err := decodeJSON(w, r, &p, true); err != nil {
		s.writeError(w, err)
		return
	}
	cleanCustomSectionItemPatch(&p)
	item, err := s.editor.AddCustomSectionItem(r.Context(), r.PathValue("id"), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateCustomSectionItem(w http.ResponseWriter, r *http.Request) {
	var p types.CustomSectionItemPatch
	if err := decodeJSON(w, r, &p, false); err != nil {
		s.writeError(w, err)
		return
	}
	cleanCustomSectionItemPatch(&p)
	itemID := r.PathValue("item_id")
	item, ok, err := s.editor.UpdateCustomSectionItem(r.Context(), r.PathValue("id"), itemID, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, &ErrNotFound{Kind: "custom section item", ID: itemID})
		return
	}
	s.jsonResponse(w, http.StatusOK, item)
}

func (s *Server) handleDeleteCustomSectionItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("item_id")
	ok, err := s.editor.DeleteCustomSectionItem(r.Context(), r.PathValue("id"), itemID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, &ErrNotFound{Kind: "custom section item", ID: itemID})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
