package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/api/types"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		deps           *types.Dependencies
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:           "stamped version",
			deps:           &types.Dependencies{Version: "1.2.3"},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"name":    "Content Pipeline API",
				"version": "1.2.3",
				"status":  "running",
			},
		},
		{
			name:           "no dependencies",
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"version": DefaultVersion,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Get(tt.deps)(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			for key, expectedValue := range tt.expectedBody {
				assert.Equal(t, expectedValue, response[key], "Key: %s", key)
			}
		})
	}
}
