package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPEndpoint(t *testing.T) {
	cases := []struct {
		raw      string
		hostport string
		path     string
		insecure bool
	}{
		{"http://localhost:4318", "localhost:4318", "/v1/traces", true},
		{"https://otel.example.com/custom", "otel.example.com", "/custom", false},
		{"collector:4318", "collector:4318", "/v1/traces", true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			hostport, path, insecure, err := parseOTLPEndpoint(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.hostport, hostport)
			assert.Equal(t, tc.path, path)
			assert.Equal(t, tc.insecure, insecure)
		})
	}
}

func TestParseOTLPEndpoint_RejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "grpc://collector:4317", "collector:4318/v1/traces"} {
		_, _, _, err := parseOTLPEndpoint(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseSampleRatio(t *testing.T) {
	ratio, err := parseSampleRatio("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, ratio)

	ratio, err = parseSampleRatio("0.25")
	require.NoError(t, err)
	assert.Equal(t, 0.25, ratio)

	_, err = parseSampleRatio("2")
	assert.Error(t, err)
}
