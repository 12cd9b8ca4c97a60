package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"unitime-backend/internal/ai"
	"unitime-backend/internal/blob"
	"unitime-backend/internal/chat"
	"unitime-backend/internal/pdf"
	platformHttp "unitime-backend/internal/platform/http"
)

// MaxUploadBytes caps multipart file uploads.
const MaxUploadBytes = 10 << 20

// maxInlineTextChars caps how much extracted file text goes into the prompt.
const maxInlineTextChars = 10000

// AssistHandler serves the AI-assisted endpoints: schedule analysis, the
// chat assistant and profile-picture upload.
type AssistHandler struct {
	provider ai.Provider
	uploader blob.Uploader
	chat     *chat.Responder
}

func NewAssistHandler(provider ai.Provider, uploader blob.Uploader, chatResponder *chat.Responder) *AssistHandler {
	return &AssistHandler{provider: provider, uploader: uploader, chat: chatResponder}
}

// readUpload pulls the optional "file" part out of a multipart request.
// Returns nil data when no file was sent.
func readUpload(r *http.Request) (data []byte, mimeType string, err error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()

	data, err = io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxUploadBytes {
		return nil, "", fmt.Errorf("file exceeds %d bytes", MaxUploadBytes)
	}
	return data, header.Header.Get("Content-Type"), nil
}

// Analyze handles POST /api/analyze. The uploaded schedule (image, PDF or
// text) is sent to the AI provider together with the student context; the
// object-store upload is best-effort and never fails the request.
func (h *AssistHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		platformHttp.WriteBadRequest(w, "expected multipart form")
		return
	}

	data, mimeType, err := readUpload(r)
	if err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	availableTime := r.FormValue("availableTime")
	if availableTime == "" {
		availableTime = "60"
	}
	studentData := r.FormValue("studentData")
	if studentData == "" {
		studentData = "{}"
	}

	var upload *blob.Upload
	if h.uploader != nil && data != nil {
		up, upErr := h.uploader.Upload(r.Context(), data, mimeType, "unitime_uploads")
		if upErr != nil {
			log.Warn().Err(upErr).Msg("object-store upload failed, continuing without file URL")
		} else {
			upload = up
		}
	}

	prompt := buildAnalyzePrompt(data, mimeType, availableTime, studentData)

	if h.provider == nil {
		writeAnalyzeFailure(w, fmt.Errorf("no AI provider configured, set UNITIME_GEMINI_API_KEY"))
		return
	}
	result, err := h.provider.Generate(r.Context(), prompt)
	if err != nil {
		writeAnalyzeFailure(w, err)
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(ai.CleanJSON(result.Text)), &payload); err != nil {
		writeAnalyzeFailure(w, fmt.Errorf("model returned invalid JSON: %w", err))
		return
	}
	if upload != nil {
		payload["fileUrl"] = upload.URL
		payload["fileId"] = upload.PublicID
	} else {
		payload["fileUrl"] = nil
		payload["fileId"] = nil
	}
	platformHttp.WriteJSON(w, http.StatusOK, payload)
}

func writeAnalyzeFailure(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("analysis failed")
	platformHttp.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":   "Analysis Failed",
		"details": err.Error(),
	})
}

// buildAnalyzePrompt assembles the multimodal prompt: the file part first
// (inline image bytes, extracted PDF text, or raw text), then the planner
// instruction block.
func buildAnalyzePrompt(data []byte, mimeType, availableTime, studentData string) ai.Prompt {
	var parts []ai.Part
	fileContext := "No file uploaded."

	switch {
	case data != nil && strings.HasPrefix(mimeType, "image/"):
		parts = append(parts, ai.Part{InlineData: data, MimeType: mimeType})
		fileContext = "Image of schedule provided."
	case data != nil && mimeType == "application/pdf":
		text, err := pdf.ExtractText(data)
		if err != nil {
			fileContext = "Error reading PDF file."
		} else {
			parts = append(parts, ai.Part{Text: text})
			fileContext = "PDF Text content provided."
		}
	case data != nil:
		text := string(data)
		if runes := []rune(text); len(runes) > maxInlineTextChars {
			text = string(runes[:maxInlineTextChars])
		}
		parts = append(parts, ai.Part{Text: text})
		fileContext = "Text file content provided."
	}

	instruction := fmt.Sprintf(`Act as an expert academic planner.

CONTEXT:
- Available Time: %s minutes.
- Student Data: %s
- File Status: %s

TASK:
1. Analyze the provided schedule/image.
2. Create a specific study session plan.
3. EXTRACT ANALYTICS DATA based on the schedule intensity and subjects found.

OUTPUT FORMAT (Strict JSON, no markdown):
{
  "primaryTask": "Task Name",
  "reason": "Why this is the priority",
  "alternatives": [
    {"task": "Alt 1", "reason": "Why"},
    {"task": "Alt 2", "reason": "Why"}
  ],
  "analyticsData": {
     "totalHours": "Estimated total study hours (e.g. '24h')",
     "productivityScore": "Estimated score (e.g. '85%%')",
     "streak": "Current streak (e.g. '5')",
     "totalSessions": "Count (e.g. '12')",
     "weeklyProgress": [
        {"day": "Mon", "value": 80, "hours": 5},
        {"day": "Tue", "value": 60, "hours": 4},
        {"day": "Wed", "value": 90, "hours": 6},
        {"day": "Thu", "value": 70, "hours": 4},
        {"day": "Fri", "value": 50, "hours": 3},
        {"day": "Sat", "value": 40, "hours": 2},
        {"day": "Sun", "value": 30, "hours": 1}
     ],
     "subjectBreakdown": [
        {"subject": "Subject 1", "hours": 10, "percentage": 40, "color": "bg-blue-500", "students": 0},
        {"subject": "Subject 2", "hours": 8, "percentage": 30, "color": "bg-green-500", "students": 0},
        {"subject": "Subject 3", "hours": 6, "percentage": 30, "color": "bg-yellow-500", "students": 0}
     ]
  }
}`, availableTime, studentData, fileContext)

	parts = append(parts, ai.Part{Text: instruction})
	return ai.Prompt{Parts: parts}
}

// Chat handles POST /api/chat.
func (h *AssistHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		platformHttp.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "No prompt provided"})
		return
	}

	reply, err := h.chat.Reply(r.Context(), req.Prompt)
	if err != nil {
		// Client went away mid-delay; nothing useful to write.
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"text": reply})
}

// UploadProfile handles POST /api/upload-profile.
func (h *AssistHandler) UploadProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		platformHttp.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "No file provided"})
		return
	}
	data, mimeType, err := readUpload(r)
	if err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}
	if data == nil {
		platformHttp.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "No file provided"})
		return
	}
	if h.uploader == nil {
		platformHttp.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Upload failed"})
		return
	}

	up, err := h.uploader.Upload(r.Context(), data, mimeType, "unitime_profiles")
	if err != nil {
		log.Error().Err(err).Msg("profile upload failed")
		platformHttp.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Upload failed"})
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"url": up.URL})
}
