package api

import (
	"blogcms/internal/entity"
	"blogcms/internal/model/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEnvelopeResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		write          func(c *gin.Context)
		expectedStatus int
		expectedCode   int
		expectedMsg    string
	}{
		{
			name:           "Success",
			write:          func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"id": 1}) },
			expectedStatus: http.StatusOK,
			expectedCode:   entity.CodeSuccess,
			expectedMsg:    "success",
		},
		{
			name:           "BadRequest",
			write:          func(c *gin.Context) { BadRequest(c, "无效的请求") },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   entity.CodeFailure,
			expectedMsg:    "无效的请求",
		},
		{
			name:           "NotFound",
			write:          func(c *gin.Context) { NotFound(c, "博客不存在") },
			expectedStatus: http.StatusNotFound,
			expectedCode:   entity.CodeFailure,
			expectedMsg:    "博客不存在",
		},
		{
			name: "ConnectionError",
			write: func(c *gin.Context) {
				StoreError(c, &sql.ConnectionError{Attempts: 3, Err: errors.New("refused")}, "服务器内部错误")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   entity.CodeFailure,
			expectedMsg:    "服务器内部错误",
		},
		{
			name: "QueryError",
			write: func(c *gin.Context) {
				StoreError(c, &sql.QueryError{Statement: "SELECT 1", Err: errors.New("syntax")}, "query failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   entity.CodeFailure,
			expectedMsg:    "query failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			tt.write(c)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp entity.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Code != tt.expectedCode {
				t.Errorf("expected code %d, got %d", tt.expectedCode, resp.Code)
			}
			if resp.Message != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, resp.Message)
			}
		})
	}
}

func TestInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	InvalidPayload(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp entity.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data != nil {
		t.Errorf("expected null data, got %v", resp.Data)
	}
}
