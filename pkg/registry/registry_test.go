package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *EndpointRegistry {
	return &EndpointRegistry{
		Service: "medcost-service",
		Version: "1.0",
		Endpoints: []Endpoint{
			{ID: "predict", Method: "POST", Path: "/api/predict", Category: "prediction", Status: "completed"},
			{ID: "statistics", Method: "GET", Path: "/api/statistics", Category: "analytics", Status: "completed"},
			{ID: "legacy", Method: "GET", Path: "/api/old", Category: "analytics", Status: "deprecated"},
		},
	}
}

func TestEndpointRegistry_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EndpointRegistry)
		errMsg string
	}{
		{name: "valid", mutate: func(*EndpointRegistry) {}},
		{name: "empty", mutate: func(r *EndpointRegistry) { r.Endpoints = nil }, errMsg: "registry contains no endpoints"},
		{name: "missing id", mutate: func(r *EndpointRegistry) { r.Endpoints[0].ID = "" }, errMsg: "endpoint missing required field: id"},
		{name: "duplicate id", mutate: func(r *EndpointRegistry) { r.Endpoints[1].ID = "predict" }, errMsg: "duplicate endpoint id: predict"},
		{name: "bad method", mutate: func(r *EndpointRegistry) { r.Endpoints[0].Method = "FETCH" }, errMsg: `endpoint predict has invalid method "FETCH"`},
		{name: "relative path", mutate: func(r *EndpointRegistry) { r.Endpoints[0].Path = "api/predict" }, errMsg: "endpoint predict path must start with /"},
		{name: "duplicate route", mutate: func(r *EndpointRegistry) { r.Endpoints[2].Path = "/api/statistics" }, errMsg: "duplicate route: GET /api/statistics"},
		{name: "unknown status", mutate: func(r *EndpointRegistry) { r.Endpoints[0].Status = "shipped" }, errMsg: `endpoint predict has unknown status "shipped"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sample()
			tt.mutate(reg)
			err := reg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestEndpointRegistry_PathsAndFind(t *testing.T) {
	reg := sample()
	assert.Equal(t, []string{"/api/predict", "/api/statistics"}, reg.Paths())

	e, ok := reg.Find("statistics")
	require.True(t, ok)
	e.Status = "planned"
	assert.Equal(t, "planned", reg.Endpoints[1].Status)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, Save(sample(), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), loaded)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadRegistry(path)
	assert.ErrorContains(t, err, "parse registry")
}

func TestLoadShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry("../../configs/endpoint-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	assert.Equal(t, "Cost Prediction Treatment API", reg.Message)
	assert.Contains(t, reg.Paths(), "/api/predict")
}
