package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/valpere/lingo/internal/gateway"
	"github.com/valpere/lingo/internal/prompt"
	"github.com/valpere/lingo/internal/render"
)

// maxBodyBytes bounds request bodies read by the handlers.
const maxBodyBytes = 1 << 20

type lingoResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Ok")
}

func (s *Server) handleLingo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: fmt.Sprintf("route must be called with POST, given %s", r.Method)})
		return
	}

	var req prompt.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.log.Debug("invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	text, err := s.proc.Process(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: publicError(err)})
		return
	}

	writeJSON(w, http.StatusOK, lingoResponse{Response: text})
}

// publicError never reveals more than the gateway's generic message.
func publicError(err error) string {
	if errors.Is(err, gateway.ErrCompletionFailed) {
		return gateway.PublicMessage
	}
	return "internal error"
}

type pageData struct {
	Actions  []prompt.Action
	Levels   []prompt.Level
	Form     prompt.Request
	Response template.HTML
	Error    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{Actions: prompt.Actions(), Levels: prompt.Levels()}
	status := http.StatusOK

	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			status = http.StatusBadRequest
			data.Error = "invalid form submission"
			break
		}
		req := prompt.Request{
			Text:           r.PostForm.Get("text"),
			Action:         prompt.Action(r.PostForm.Get("action")),
			TargetLanguage: r.PostForm.Get("targetLanguage"),
			TargetLevel:    prompt.Level(r.PostForm.Get("targetLevel")),
		}
		if err := req.Complete(); err != nil {
			data.Form = req
			data.Error = err.Error()
			status = http.StatusUnprocessableEntity
			break
		}
		text, err := s.proc.Process(r.Context(), req)
		if err != nil {
			data.Error = publicError(err)
			status = http.StatusInternalServerError
			break
		}
		data.Response = render.ToSafeHTML(text)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error("failed to render page", zap.Error(err))
	}
}
