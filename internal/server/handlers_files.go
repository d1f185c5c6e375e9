package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxUploadSize bounds an uploaded resume file.
const maxUploadSize = 3 << 20

// Export engines
const (
	engineNative  = "native"
	engineBrowser = "browser"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	resume, err := decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cleanResume(resume)
	s.export(w, r, resume, s.editor.Snapshot().Settings)
}

func (s *Server) handleExportCurrent(w http.ResponseWriter, r *http.Request) {
	state := s.editor.Snapshot()
	s.export(w, r, &state.Resume, state.Settings)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, resume *types.Resume, base types.Settings) {
	if err := resume.ValidateForExport(); err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	format, err := rendering.ParseFormat(q.Get("format"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}
	settings, err := settingsFromQuery(base, q.Get)
	if err != nil {
		s.writeError(w, err)
		return
	}
	useBrowser, err := s.pickEngine(q.Get("engine"), format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := rendering.Render(resume, settings)
	if err != nil {
		s.exportFailed(w, err)
		return
	}

	var buf bytes.Buffer
	switch {
	case useBrowser:
		err = s.browser.WritePDF(r.Context(), &buf, doc)
	case format == rendering.FormatLaTeX && s.template != "":
		err = rendering.WriteLaTeXWithTemplate(&buf, doc, s.template)
	default:
		var data []byte
		data, err = doc.Encode(format)
		buf.Write(data)
	}
	if err != nil {
		s.exportFailed(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rendering.FilenameFor(doc.Title, format)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[export] failed to write response: %v", err)
	}
}

// pickEngine reports whether the browser engine serves this export.
func (s *Server) pickEngine(name string, format rendering.Format) (bool, error) {
	switch name {
	case "":
		return s.useBrowser && format == rendering.FormatPDF, nil
	case engineNative:
		return false, nil
	case engineBrowser:
		if format != rendering.FormatPDF {
			return false, &ErrValidation{Field: "engine", Message: "browser engine only produces pdf"}
		}
		if s.browser == nil {
			return false, &ErrEngineUnavailable{Engine: engineBrowser}
		}
		return true, nil
	}
	return false, &ErrValidation{Field: "engine", Message: fmt.Sprintf("unknown engine %q", name)}
}

func (s *Server) exportFailed(w http.ResponseWriter, err error) {
	log.Printf("[export] Failed to generate document: %v", err)
	s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
		"error":   "Failed to generate PDF",
		"details": err.Error(),
	})
}

// settingsFromQuery overlays fontFamily, fontSize, spacing and theme query
// parameters on base.
func settingsFromQuery(base types.Settings, get func(string) string) (types.Settings, error) {
	var p types.SettingsPatch
	if v := get("fontFamily"); v != "" {
		f := types.FontFamily(v)
		p.FontFamily = &f
	}
	if v := get("fontSize"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, &ErrValidation{Field: "fontSize", Message: "must be a number"}
		}
		p.FontSize = &size
	}
	if v := get("spacing"); v != "" {
		sp := types.Spacing(v)
		p.Spacing = &sp
	}
	if v := get("theme"); v != "" {
		th := types.Theme(v)
		p.Theme = &th
	}
	settings := p.Apply(base)
	if err := settings.Validate(); err != nil {
		return base, err
	}
	return settings, nil
}

// readUpload returns the bytes and source of the multipart "file" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, extraction.PageSource, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<10)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, &ErrValidation{Field: "file", Message: "file exceeds 3MB limit"}
		}
		return nil, nil, &ErrValidation{Field: "file", Message: "expected multipart form upload"}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, &ErrValidation{Field: "file", Message: "file is required"}
	}
	defer file.Close()
	if header.Size > maxUploadSize {
		return nil, nil, &ErrValidation{Field: "file", Message: "file exceeds 3MB limit"}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, &extraction.ExtractionError{Source: "upload", Message: "failed to read upload", Cause: err}
	}
	source, err := extraction.SourceFor(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, err
	}
	return data, source, nil
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, source, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := extraction.Extract(r.Context(), source, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cleanExtraction(&result)
	basics, err := s.editor.ApplyImport(r.Context(), result)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"extracted": result,
		"basics":    basics,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, source, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := extraction.Extract(r.Context(), source, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
