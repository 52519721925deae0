package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lunavega/ecogame/identify"
	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/sqlite"
)

func imageForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "leaf.jpg")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte("not a real jpeg"))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

// A failed score write must not be reported as an award; the identification
// itself still answers.
func TestIdentifyAwardFailureReportsZero(t *testing.T) {
	gin.SetMode(gin.TestMode)

	classifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":{"classification":{"suggestions":[{"name":"Quercus robur","probability":0.9}]}}}`)
	}))
	defer classifier.Close()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlite.InitializeDatabase(db)
	store := progress.NewStore(db)
	db.Close() // every award write fails from here on

	router := gin.New()
	router.POST("/api/identify", Identify(identify.NewClient(classifier.URL, "test-key"), store))

	body, contentType := imageForm(t)
	req := httptest.NewRequest(http.MethodPost, "/api/identify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Name    string `json:"name"`
		Awarded int    `json:"awarded"`
		Total   int    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Name != "Quercus robur" {
		t.Fatalf("identification lost: %+v", resp)
	}
	if resp.Awarded != 0 || resp.Total != 0 {
		t.Fatalf("claimed unpersisted points: awarded=%d total=%d", resp.Awarded, resp.Total)
	}
}
