package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentedPaths(t *testing.T) {
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.NotContains(t, doc.Paths, "/healthz", "health check lives outside the base path")
	for _, p := range []string{"/options", "/figures/scatter.svg", "/figures/income-box.svg", "/figures/prestige-box.svg", "/figures/faceted-box.svg"} {
		assert.Contains(t, doc.Paths, p)
	}
}
