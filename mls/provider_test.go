package mls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	src, err := ParseSource("")
	require.NoError(t, err)
	assert.Equal(t, SourceRMLS, src)

	src, err = ParseSource("NWMLS")
	require.NoError(t, err)
	assert.Equal(t, SourceNWMLS, src)

	_, err = ParseSource("zillow")
	assert.Error(t, err)
}

func TestSourcePaths(t *testing.T) {
	assert.Equal(t, "/api/rmls/search", SourceRMLS.SearchPath())
	assert.Equal(t, "/api/bridge/search", SourceNWMLS.SearchPath())
	assert.Equal(t, "/api/rmls/search", Source("").SearchPath())
}

func TestRegistry(t *testing.T) {
	bridge := NewBridge(BridgeConfig{Token: "t"})
	rmls := NewRMLS(RMLSConfig{})
	reg := NewRegistry(bridge, rmls, nil, NewBridge(BridgeConfig{}))

	all := reg.All()
	require.Len(t, all, 2)
	assert.Same(t, bridge, all[0])

	p, ok := reg.Lookup("rmls")
	require.True(t, ok)
	assert.Same(t, rmls, p)

	p, ok = reg.Lookup(SourceNWMLS.ProviderName())
	require.True(t, ok)
	assert.Same(t, bridge, p)

	_, ok = reg.Lookup("crmls")
	assert.False(t, ok)
}

func TestProviderDefaults(t *testing.T) {
	b := NewBridge(BridgeConfig{})
	assert.Equal(t, "https://api.bridgedataoutput.com/api/v2/OData/test/Property", b.PropertyURL)
	assert.False(t, b.Configured())
	assert.Nil(t, b.Media)

	b = NewBridge(BridgeConfig{BaseURL: "http://local/odata/", DatasetID: "nwmls", Token: "x"})
	assert.Equal(t, "http://local/odata/nwmls/Property", b.PropertyURL)
	assert.True(t, b.Configured())

	r := NewRMLS(RMLSConfig{})
	assert.Equal(t, "https://resoapi.rmlsweb.com/reso/odata/Property", r.PropertyURL)
	require.NotNil(t, r.Media)
	assert.Equal(t, "https://resoapi.rmlsweb.com/reso/odata/Media", r.Media.URL)
	assert.Equal(t, 6, r.Media.Top)
	assert.Contains(t, r.Select, "BathroomsTotalInteger")
	assert.Contains(t, b.Select, "BathroomsTotalDecimal")
}
