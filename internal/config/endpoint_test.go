package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{name: "bare hostname", input: "gpu1", wantHost: "gpu1", wantPort: 22},
		{name: "hostname with port", input: "gpu2:2200", wantHost: "gpu2", wantPort: 2200},
		{name: "fqdn", input: "node-3.cluster.local", wantHost: "node-3.cluster.local", wantPort: 22},
		{name: "user at host", input: "deploy@gpu1", wantHost: "deploy@gpu1", wantPort: 22},
		{name: "user at host with port", input: "deploy@gpu1:2200", wantHost: "deploy@gpu1", wantPort: 2200},
		{name: "whitespace trimmed", input: "  gpu1  ", wantHost: "gpu1", wantPort: 22},
		{name: "empty", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "non-numeric port", input: "gpu1:abc", wantErr: true},
		{name: "port zero", input: "gpu1:0", wantErr: true},
		{name: "port too large", input: "gpu1:70000", wantErr: true},
		{name: "missing hostname", input: ":2200", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := ParseEndpoint(tt.input, 22)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, ep.Hostname)
			assert.Equal(t, tt.wantPort, ep.Port)
		})
	}
}

func TestParseEndpointDefaultPort(t *testing.T) {
	ep, err := ParseEndpoint("gpu1", 2222)
	require.NoError(t, err)
	assert.Equal(t, 2222, ep.Port)
	assert.Equal(t, "gpu1:2222", ep.Addr())
}

func TestParseEndpointsPreservesOrder(t *testing.T) {
	eps, err := ParseEndpoints([]string{"c", "a", "b:2200"}, 22)
	require.NoError(t, err)
	require.Len(t, eps, 3)
	assert.Equal(t, "c", eps[0].Hostname)
	assert.Equal(t, "a", eps[1].Hostname)
	assert.Equal(t, "b", eps[2].Hostname)
	assert.Equal(t, 2200, eps[2].Port)
}

func TestParseEndpointsFailsFast(t *testing.T) {
	_, err := ParseEndpoints([]string{"ok", "bad:port"}, 22)
	assert.Error(t, err)
}
