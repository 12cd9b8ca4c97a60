package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitime-backend/internal/ai"
	"unitime-backend/internal/auth"
	"unitime-backend/internal/blob"
	"unitime-backend/internal/chat"
	"unitime-backend/internal/store/sqlite"
)

func newTestRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Bootstrap(context.Background(), db))
	deps.Store = sqlite.NewWithDB(db)
	if deps.Chat == nil {
		deps.Chat = chat.NewResponder(0)
	}
	return NewRouter(deps)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, h, "POST", "/api/users", map[string]string{"email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["userId"].(string)
}

func TestRootAndHealth(t *testing.T) {
	h := newTestRouter(t, Deps{IsHealthy: func() bool { return true }})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UniTime server is running")

	rec = doJSON(t, h, "GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestUserLifecycle(t *testing.T) {
	h := newTestRouter(t, Deps{})

	userID := createUser(t, h, "alice@uni.edu")
	assert.NotEmpty(t, userID)

	rec := doJSON(t, h, "GET", "/api/users/"+userID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@uni.edu", decodeBody(t, rec)["email"])

	// duplicate email conflicts
	rec = doJSON(t, h, "POST", "/api/users", map[string]string{"email": "alice@uni.edu"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// unknown user 404
	rec = doJSON(t, h, "GET", "/api/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// missing email 400
	rec = doJSON(t, h, "POST", "/api/users", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestBodyValidation(t *testing.T) {
	h := newTestRouter(t, Deps{})

	rec := doJSON(t, h, "POST", "/api/users", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, "POST", "/api/users", map[string]string{"email": "r@uni.edu", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	userID := createUser(t, h, "val@uni.edu")

	rec = doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/scores", userID), map[string]interface{}{
		"subject": "Math", "score": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/activities", userID), map[string]string{
		"subject": "Math", "day": "Monday",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/study-requests", userID), map[string]string{
		"subject": "Math",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthProtectedRoutes(t *testing.T) {
	v := auth.NewVerifier("test-secret")
	h := newTestRouter(t, Deps{Auth: v})

	// No token: the users subtree is closed.
	rec := doJSON(t, h, "POST", "/api/users", map[string]string{"email": "a@uni.edu"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token minted with the same secret opens it.
	tok, err := v.GenerateToken("cli", "cli@uni.edu", "student")
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader([]byte(`{"email":"a@uni.edu"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestActivityRoutes(t *testing.T) {
	h := newTestRouter(t, Deps{})
	userID := createUser(t, h, "bob@uni.edu")

	rec := doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/activities", userID), map[string]string{
		"subject":   "Mathematics",
		"day":       "Monday",
		"startTime": "9:00 AM",
		"room":      "B-204",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	activityID := decodeBody(t, rec)["activityId"].(string)

	// invalid clock string rejected
	rec = doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/activities", userID), map[string]string{
		"subject":   "Physics",
		"day":       "Monday",
		"startTime": "25:00 XM",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, "GET", fmt.Sprintf("/api/users/%s/activities", userID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

	rec = doJSON(t, h, "PATCH", fmt.Sprintf("/api/users/%s/activities/%s/cancel", userID, activityID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["isCancelled"])

	rec = doJSON(t, h, "DELETE", fmt.Sprintf("/api/users/%s/activities/%s", userID, activityID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "DELETE", fmt.Sprintf("/api/users/%s/activities/%s", userID, activityID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFreeTimeRoute(t *testing.T) {
	h := newTestRouter(t, Deps{})
	userID := createUser(t, h, "carol@uni.edu")

	for _, a := range []map[string]string{
		{"subject": "Math", "day": "Monday", "startTime": "9:00 AM"},
		{"subject": "Physics", "day": "Monday", "startTime": "11:00 AM"},
	} {
		rec := doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/activities", userID), a)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// 2026-03-02 is a Monday.
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).Format(time.RFC3339)
	rec := doJSON(t, h, "GET", fmt.Sprintf("/api/users/%s/free-time?at=%s", userID, at), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, "Monday", body["day"])

	rec = doJSON(t, h, "GET", fmt.Sprintf("/api/users/%s/free-time?at=not-a-time", userID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 10:30 falls inside the between-class slot
	at = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC).Format(time.RFC3339)
	rec = doJSON(t, h, "GET", fmt.Sprintf("/api/users/%s/free-time/current?at=%s", userID, at), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["free"])
}

func TestAcademicGapsRoute(t *testing.T) {
	h := newTestRouter(t, Deps{})
	userID := createUser(t, h, "dave@uni.edu")

	rec := doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/scores", userID), map[string]interface{}{
		"subject": "Chemistry", "topic": "Stoichiometry", "score": 40, "maxScore": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, "GET", fmt.Sprintf("/api/users/%s/academic-gaps", userID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.EqualValues(t, 1, body["count"])
	gap := body["gaps"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "low_scores", gap["type"])
	assert.Equal(t, "Chemistry", gap["subject"])
}

func TestStudyRequestRoutes(t *testing.T) {
	h := newTestRouter(t, Deps{})
	alice := createUser(t, h, "alice@uni.edu")
	bob := createUser(t, h, "bob@uni.edu")

	rec := doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/study-requests", alice), map[string]string{
		"toUser": bob, "subject": "Math", "message": "revision at 2?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "pending", body["status"])
	requestID := body["requestId"].(string)

	// self-request rejected
	rec = doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/study-requests", alice), map[string]string{
		"toUser": alice,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, "PATCH", "/api/study-requests/"+requestID+"/status", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "accepted", decodeBody(t, rec)["status"])

	rec = doJSON(t, h, "PATCH", "/api/study-requests/"+requestID+"/status", map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudyPartnersRoute(t *testing.T) {
	h := newTestRouter(t, Deps{})
	alice := createUser(t, h, "alice@uni.edu")
	bob := createUser(t, h, "bob@uni.edu")

	for _, u := range []string{alice, bob} {
		rec := doJSON(t, h, "POST", fmt.Sprintf("/api/users/%s/activities", u), map[string]string{
			"subject": "Algorithms", "day": "Monday", "startTime": "9:00 AM",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).Format(time.RFC3339)
	rec := doJSON(t, h, "GET", fmt.Sprintf("/api/users/%s/study-partners?at=%s", alice, at), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	require.EqualValues(t, 1, body["count"])
	match := body["matches"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, bob, match["userId"])
}

func TestChatRoute(t *testing.T) {
	h := newTestRouter(t, Deps{Chat: chat.NewResponder(0)})

	rec := doJSON(t, h, "POST", "/api/chat", map[string]string{"prompt": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["text"], "Hello, I am UniTime AI")

	rec = doJSON(t, h, "POST", "/api/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No prompt provided", decodeBody(t, rec)["error"])
}

type stubProvider struct {
	reply string
	err   error
	got   ai.Prompt
}

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) Generate(_ context.Context, p ai.Prompt) (*ai.Result, error) {
	s.got = p
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Result{Text: s.reply, Model: "stub"}, nil
}

type stubUploader struct {
	up  *blob.Upload
	err error
}

func (s *stubUploader) Upload(context.Context, []byte, string, string) (*blob.Upload, error) {
	return s.up, s.err
}

func multipartBody(t *testing.T, fields map[string]string, filename, fileMime string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
		hdr["Content-Type"] = []string{fileMime}
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeRoute(t *testing.T) {
	provider := &stubProvider{reply: "```json\n{\"primaryTask\":\"Revise Algebra\"}\n```"}
	uploader := &stubUploader{up: &blob.Upload{URL: "https://cdn.example/x.png", PublicID: "unitime_uploads/x"}}
	h := newTestRouter(t, Deps{AI: provider, Blob: uploader})

	body, contentType := multipartBody(t, map[string]string{
		"availableTime": "45",
		"studentData":   `{"name":"Alice"}`,
	}, "schedule.png", "image/png", []byte("fake-png"))

	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "Revise Algebra", out["primaryTask"])
	assert.Equal(t, "https://cdn.example/x.png", out["fileUrl"])
	assert.Equal(t, "unitime_uploads/x", out["fileId"])

	// image goes in as inline data, instructions as trailing text part
	require.Len(t, provider.got.Parts, 2)
	assert.Equal(t, []byte("fake-png"), provider.got.Parts[0].InlineData)
	assert.Contains(t, provider.got.Parts[1].Text, "Available Time: 45 minutes")
	assert.Contains(t, provider.got.Parts[1].Text, `{"name":"Alice"}`)
	assert.Contains(t, provider.got.Parts[1].Text, "Image of schedule provided.")
}

func TestAnalyzeRouteNoFile(t *testing.T) {
	provider := &stubProvider{reply: `{"primaryTask":"Plan week"}`}
	h := newTestRouter(t, Deps{AI: provider})

	body, contentType := multipartBody(t, map[string]string{}, "", "", nil)
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "Plan week", out["primaryTask"])
	assert.Nil(t, out["fileUrl"])
	assert.Contains(t, provider.got.Parts[0].Text, "No file uploaded.")
	assert.Contains(t, provider.got.Parts[0].Text, "Available Time: 60 minutes")
}

func TestAnalyzeRouteProviderFailure(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("All AI models failed")}
	h := newTestRouter(t, Deps{AI: provider})

	body, contentType := multipartBody(t, nil, "", "", nil)
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, "Analysis Failed", out["error"])
	assert.Contains(t, out["details"], "All AI models failed")
}

func TestAnalyzeRouteNoProviderNamesEnvVar(t *testing.T) {
	h := newTestRouter(t, Deps{})

	body, contentType := multipartBody(t, nil, "", "", nil)
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["details"], "UNITIME_GEMINI_API_KEY")
}

func TestAnalyzeRouteUploadBestEffort(t *testing.T) {
	provider := &stubProvider{reply: `{"primaryTask":"Read notes"}`}
	uploader := &stubUploader{err: fmt.Errorf("bucket unavailable")}
	h := newTestRouter(t, Deps{AI: provider, Blob: uploader})

	body, contentType := multipartBody(t, nil, "notes.txt", "text/plain", []byte("chapter 4 summary"))
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "Read notes", out["primaryTask"])
	assert.Nil(t, out["fileUrl"])
}

func TestUploadProfileRoute(t *testing.T) {
	uploader := &stubUploader{up: &blob.Upload{URL: "https://cdn.example/p.jpg"}}
	h := newTestRouter(t, Deps{Blob: uploader})

	body, contentType := multipartBody(t, nil, "p.jpg", "image/jpeg", []byte("jpeg"))
	req := httptest.NewRequest("POST", "/api/upload-profile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn.example/p.jpg", decodeBody(t, rec)["url"])

	// no file part
	body, contentType = multipartBody(t, nil, "", "", nil)
	req = httptest.NewRequest("POST", "/api/upload-profile", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
