package handler

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"coded error", errors.New("40005:project code already in use"), 40005, "project code already in use"},
		{"uncoded error", errors.New("record not found"), codeInternal, "record not found"},
		{"short message", errors.New("oops"), codeInternal, "oops"},
		{"non-numeric prefix", errors.New("abcde:nope"), codeInternal, "abcde:nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := parseErrorCode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestParsePageBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 20},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=0", 1, 20},
		{"page=2&page_size=500", 2, 100},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)
		page, pageSize := parsePage(c)
		assert.Equal(t, tt.wantPage, page, tt.query)
		assert.Equal(t, tt.wantPageSize, pageSize, tt.query)
	}
}
