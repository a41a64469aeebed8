package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"campusassistant/cmd/chatbot-service/internal/domain"
)

func TestParseError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{"会话未找到", domain.ErrSessionNotFound, http.StatusNotFound},
		{"FAQ 未找到", domain.ErrFAQNotFound, http.StatusNotFound},
		{"空消息", domain.ErrEmptyMessage, http.StatusBadRequest},
		{"无相关内容", domain.ErrNoRelevantContent, http.StatusBadRequest},
		{"未授权", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"模型服务不可用", domain.ErrLLMUnavailable, http.StatusServiceUnavailable},
		{"包装后的领域错误", fmt.Errorf("search: %w", domain.ErrFAQNotFound), http.StatusNotFound},
		{"未知错误", errors.New("db exploded"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			statusCode, code, message := parseError(tc.err)
			if statusCode != tc.statusCode {
				t.Errorf("parseError(%v) status = %d, want %d", tc.err, statusCode, tc.statusCode)
			}
			if code != tc.statusCode {
				t.Errorf("Expected code to mirror status, got %d", code)
			}
			// 未知错误不向外透出内部细节
			if tc.statusCode == http.StatusInternalServerError && message != "internal server error" {
				t.Errorf("Expected generic message, got %q", message)
			}
		})
	}
}
