package handlers

import (
	"net/http"
	"strings"

	"github.com/xelth-com/swiftlog/internal/ai"
)

// ExtractTextRequest asks the model to read pasted text
type ExtractTextRequest struct {
	Text   string `json:"text"`
	Branch string `json:"branch"`
	Save   bool   `json:"save"`
}

// ExtractFileRequest asks the model to read a base64 document
type ExtractFileRequest struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Branch   string `json:"branch"`
	Save     bool   `json:"save"`
}

// ChatRequest is one assistant message with the prior conversation
type ChatRequest struct {
	Message string        `json:"message"`
	History []ai.ChatTurn `json:"history"`
}

func (r *Router) aiDisabled(w http.ResponseWriter) bool {
	if r.extractor == nil {
		respondError(w, http.StatusServiceUnavailable, "AI assistant is not configured")
		return true
	}
	return false
}

// extractText turns pasted text into deliveries. With save the result is
// stored right away; otherwise it is returned for review.
func (r *Router) extractText(w http.ResponseWriter, req *http.Request) {
	if r.aiDisabled(w) {
		return
	}
	var in ExtractTextRequest
	if !decode(w, req, &in) {
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	r.respondExtraction(w, req, r.extractor.ExtractFromText(req.Context(), in.Text), in.Branch, in.Save)
}

func (r *Router) extractFile(w http.ResponseWriter, req *http.Request) {
	if r.aiDisabled(w) {
		return
	}
	var in ExtractFileRequest
	if !decode(w, req, &in) {
		return
	}
	if in.Data == "" || in.MimeType == "" {
		respondError(w, http.StatusBadRequest, "data and mimeType are required")
		return
	}
	r.respondExtraction(w, req, r.extractor.ExtractFromFile(req.Context(), in.Data, in.MimeType), in.Branch, in.Save)
}

func (r *Router) respondExtraction(w http.ResponseWriter, req *http.Request, records []ai.Record, branch string, save bool) {
	if len(records) == 0 {
		respondError(w, http.StatusUnprocessableEntity, ai.ErrNoData.Error())
		return
	}
	deliveries := ai.Normalize(records, r.svc.ResolveBranch(branch), r.svc.Today())
	if !save {
		respondJSON(w, http.StatusOK, map[string]interface{}{"deliveries": deliveries, "count": len(deliveries), "saved": false})
		return
	}

	added, err := r.svc.AddDeliveries(req.Context(), deliveries)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"deliveries": added, "count": len(added), "saved": true})
}

func (r *Router) chat(w http.ResponseWriter, req *http.Request) {
	if r.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "AI assistant is not configured")
		return
	}
	var in ChatRequest
	if !decode(w, req, &in) {
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := r.assistant.Chat(req.Context(), in.Message, in.History)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
