package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(instance string, port int, ipv4, ipv6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	e.HostName = "calc-host.local."
	e.Port = port
	e.AddrIPv4 = ipv4
	e.AddrIPv6 = ipv6
	e.Text = txt
	return e
}

func TestParseServiceEntry(t *testing.T) {
	e := entry("kitchen", 8080,
		[]net.IP{net.ParseIP("192.168.1.20")},
		[]net.IP{net.ParseIP("fe80::1")},
		"version=v1.2.0", "path=/", "flag",
	)

	server := parseServiceEntry(e)
	require.NotNil(t, server)

	assert.Equal(t, "kitchen", server.Instance)
	assert.Equal(t, "calc-host.local.", server.Host)
	assert.Equal(t, "192.168.1.20", server.IP, "IPv4 is preferred")
	assert.Equal(t, 8080, server.Port)
	assert.Equal(t, "v1.2.0", server.GetMetadata("version"))
	assert.Equal(t, "", server.GetMetadata("flag"))
	assert.Contains(t, server.Metadata, "flag")
	assert.False(t, server.DiscoveredAt.IsZero())
}

func TestParseServiceEntry_IPv6Only(t *testing.T) {
	server := parseServiceEntry(entry("lab", 9000, nil, []net.IP{net.ParseIP("fe80::1")}))
	require.NotNil(t, server)

	assert.Equal(t, "fe80::1", server.IP)
	assert.Equal(t, "[fe80::1]:9000", server.Addr())
	assert.Equal(t, "ws://[fe80::1]:9000/ws", server.WebSocketURL())
}

func TestParseServiceEntry_Unusable(t *testing.T) {
	ip := []net.IP{net.ParseIP("10.0.0.1")}

	assert.Nil(t, parseServiceEntry(nil))
	assert.Nil(t, parseServiceEntry(entry("", 8080, ip, nil)), "missing instance")
	assert.Nil(t, parseServiceEntry(entry("x", 8080, nil, nil)), "missing address")
	assert.Nil(t, parseServiceEntry(entry("x", 0, ip, nil)), "missing port")
}

func TestParseServiceEntry_EscapedInstance(t *testing.T) {
	server := parseServiceEntry(entry(`Living\ Room`, 8080, []net.IP{net.ParseIP("10.0.0.1")}, nil))
	require.NotNil(t, server)
	assert.Equal(t, "Living Room", server.Instance)
}

func TestServer_URLs(t *testing.T) {
	s := &Server{Instance: "kitchen", IP: "192.168.1.20", Port: 8080}

	assert.Equal(t, "192.168.1.20:8080", s.Addr())
	assert.Equal(t, "http://192.168.1.20:8080/", s.URL())
	assert.Equal(t, "ws://192.168.1.20:8080/ws", s.WebSocketURL())
	assert.Equal(t, `smartcalc "kitchen" at 192.168.1.20:8080`, s.String())
	assert.Equal(t, "", s.GetMetadata("version"))

	s.Metadata = map[string]string{"path": "/calc/"}
	assert.Equal(t, "http://192.168.1.20:8080/calc/", s.URL())
}

func TestFormatTXT(t *testing.T) {
	got := formatTXT(map[string]string{"version": "v1", "path": "/"})
	assert.Equal(t, []string{"path=/", "version=v1"}, got)
	assert.Empty(t, formatTXT(nil))
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"a=1", "b=x=y", "=skipped", "c"})
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, got)
}

func TestSortServers(t *testing.T) {
	got := sortServers(map[string]*Server{
		"zeta":  {Instance: "zeta"},
		"alpha": {Instance: "alpha"},
		"mid":   {Instance: "mid"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].Instance)
	assert.Equal(t, "mid", got[1].Instance)
	assert.Equal(t, "zeta", got[2].Instance)
}

func TestAdvertise_InvalidPort(t *testing.T) {
	_, err := Advertise("test", 0, nil)
	assert.Error(t, err)

	_, err = Advertise("test", 70000, nil)
	assert.Error(t, err)
}

func TestDefaultInstance(t *testing.T) {
	name := DefaultInstance()
	assert.NotEmpty(t, name)
	assert.NotContains(t, name, ".")
}

func TestAdvertisement_ShutdownNil(t *testing.T) {
	var a *Advertisement
	assert.NotPanics(t, a.Shutdown)
}
