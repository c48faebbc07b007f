// Package discovery announces and finds smartcalc servers on the local
// network over multicast DNS.
//
// A running "smartcalc serve" registers itself as a "_smartcalc._tcp"
// service; "smartcalc discover" browses for that service type and lists
// every server that answers.
//
// # Usage Example
//
//	// Announce a server on port 8080
//	ad, err := discovery.Advertise("kitchen", 8080, map[string]string{"version": "v1.0.0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ad.Shutdown()
//
//	// Find servers for three seconds
//	servers, err := discovery.NewScanner().Scan(ctx)
//	for _, s := range servers {
//	    fmt.Println(s.Instance, s.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
