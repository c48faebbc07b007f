package urls

// Project and documentation URLs.
// Documentation lives at https://muurk.github.io/smartcalc/

// Repository is the source repository, shown in the terminal calculator header.
const Repository = "github.com/muurk/smartcalc"

// GettingStarted is the quick start guide for the terminal calculator.
const GettingStarted = "https://muurk.github.io/smartcalc/getting-started/"

// ServerGuide covers 'smartcalc serve', the WebSocket session protocol
// and the legacy calculate endpoint.
const ServerGuide = "https://muurk.github.io/smartcalc/server/"

// DiscoveryTroubleshooting covers mDNS problems: multicast, firewalls
// and network segments.
const DiscoveryTroubleshooting = "https://muurk.github.io/smartcalc/troubleshooting/discovery/"
