package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, resp response.Response) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func ptr[T any](v T) *T { return &v }

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/admin/login", r.URL.Path)
		var req model.AdminLoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "prof@sgp.local", req.Email)
		writeEnvelope(t, w, http.StatusOK, response.Response{Data: model.AdminLoginResponse{Token: "tok"}})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "")
	out, err := c.Login(context.Background(), "prof@sgp.local", "segredo123")

	require.NoError(t, err)
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, "tok", c.Token)
}

func TestAPIError_FromEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusNotFound, response.Response{Error: &response.ErrorBody{
			Code:    response.ErrNotFound,
			Message: "not found",
		}})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok").Exams().Get(context.Background(), 5)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, response.ErrNotFound, apiErr.Code)
}

func TestAPIError_NonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, "").Exams().Update(context.Background(), &model.Exam{ID: ptr(int64(1))})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Code)
}

func TestExamCreate_CopiesStoredRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/exams", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Matemática", req["title"])
		assert.Equal(t, []any{}, req["questions"], "nil questions are sent as an empty list")

		writeEnvelope(t, w, http.StatusCreated, response.Response{Data: model.Exam{
			ID:                 ptr(int64(77)),
			Title:              "Matemática",
			ApprovalPercentage: ptr(60.0),
		}})
	}))
	defer srv.Close()

	exam := &model.Exam{Title: "Matemática", ApprovalPercentage: ptr(60.0)}
	require.NoError(t, New(srv.URL, "tok").Exams().Create(context.Background(), exam))

	require.NotNil(t, exam.ID)
	assert.Equal(t, int64(77), *exam.ID)
}

func TestExamUpdate_OmitsEmptyTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/admin/exams/12", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Nil(t, req["title"])
		assert.Len(t, req["questions"], 1)

		writeEnvelope(t, w, http.StatusOK, response.Response{Data: model.Exam{ID: ptr(int64(12))}})
	}))
	defer srv.Close()

	exam := &model.Exam{ID: ptr(int64(12)), Questions: []model.SelectItem{{Label: "q", Value: 3}}}
	require.NoError(t, New(srv.URL, "").Exams().Update(context.Background(), exam))
}

func TestExamUpdate_RequiresID(t *testing.T) {
	err := New("http://unused", "").Exams().Update(context.Background(), &model.Exam{})
	assert.Error(t, err)
}

func TestExamExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/exams/3/export", r.URL.Path)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK-xlsx"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	require.NoError(t, New(srv.URL, "").Exams().Export(context.Background(), 3, &buf))
	assert.Equal(t, "PK-xlsx", buf.String())
}

func TestQuestionsListForDropdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/questions/dropdown", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "40", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "description,desc", q.Get("sort"))
		assert.Equal(t, "HARD", q.Get("difficulty"))
		assert.False(t, q.Has("subject"))

		writeEnvelope(t, w, http.StatusOK, response.Response{
			Data:       model.Page[model.SelectItem]{Content: []model.SelectItem{{Label: "Q1", Value: 1}}},
			Pagination: response.NewPagination(40, 10, 401),
		})
	}))
	defer srv.Close()

	page, err := New(srv.URL, "").Questions().ListForDropdown(context.Background(),
		model.QuestionFilter{Difficulty: model.QuestionDifficultyHard},
		model.PageRequest{Page: 40, Size: 10, Sort: &model.Sort{Field: "description", Direction: model.SortDesc}},
	)

	require.NoError(t, err)
	assert.Equal(t, 401, page.TotalElements)
	assert.Equal(t, []model.SelectItem{{Label: "Q1", Value: 1}}, page.Content)
}

func TestSubscribeExamEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		_ = conn.WriteJSON(model.ExamEvent{Type: model.ExamEventUpdated, Exam: model.Exam{Title: "Prova 1"}})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	var got []model.ExamEvent
	err := New(srv.URL, "tok").SubscribeExamEvents(context.Background(), func(e model.ExamEvent) {
		got = append(got, e)
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.ExamEventUpdated, got[0].Type)
	assert.Equal(t, "Prova 1", got[0].Exam.Title)
}
