package netutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientIp(t *testing.T) {
	r := httptest.NewRequest("POST", "/checkout", nil)
	r.RemoteAddr = "10.0.0.1:52412"
	assert.Equal(t, "10.0.0.1", GetClientIp(r))

	// The first forwarded address wins when a proxy is involved
	r.Header.Set("X-Forwarded-For", "192.168.0.1, 10.0.0.2")
	assert.Equal(t, "192.168.0.1", GetClientIp(r))

	r.Header.Set("X-Forwarded-For", "192.168.0.1")
	assert.Equal(t, "192.168.0.1", GetClientIp(r))
}

func TestValidateIpAddress(t *testing.T) {
	assert.NoError(t, ValidateIpAddress("192.168.0.1"))
	assert.NoError(t, ValidateIpAddress("2001:db8::1"))

	assert.Error(t, ValidateIpAddress(""))
	assert.Error(t, ValidateIpAddress("not an ip"))
}

func TestGetIpMetadata_NoDatabase(t *testing.T) {
	metadata, err := GetIpMetadata(context.Background(), nil, "192.168.0.1")
	require.NoError(t, err)
	assert.Nil(t, metadata.City)
	assert.Nil(t, metadata.Country)
}
