// internal/platform/stealth/tls.go
package stealth

import (
	"context"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"

	"hermesx/internal/platform/errors"
)

// newTransport builds an http.Transport whose TLS handshake presents a
// Chrome ClientHello instead of the Go default. Generic scripting-client
// fingerprints (JA3 of crypto/tls) are a common cheap block signal.
//
// ALPN is pinned to http/1.1 because the transport above speaks HTTP/1.1;
// advertising h2 in the hello while talking 1.1 on the wire would break
// against servers that take the negotiation at its word.
func newTransport(dialTimeout time.Duration) *http.Transport {
	dialer := &net.Dialer{Timeout: dialTimeout}

	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		DialTLSContext:      chromeDialTLS(dialer),
		ForceAttemptHTTP2:   false,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
}

func chromeDialTLS(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid address %q", addr)
		}

		raw, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrConnectionFailed, err.Error())
		}

		spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
		if err != nil {
			raw.Close()
			return nil, errors.Wrap(err, "building client hello spec")
		}
		for _, ext := range spec.Extensions {
			if alpn, ok := ext.(*utls.ALPNExtension); ok {
				alpn.AlpnProtocols = []string{"http/1.1"}
			}
		}

		conn := utls.UClient(raw, &utls.Config{ServerName: host}, utls.HelloCustom)
		if err := conn.ApplyPreset(&spec); err != nil {
			raw.Close()
			return nil, errors.Wrap(err, "applying client hello preset")
		}
		if err := conn.HandshakeContext(ctx); err != nil {
			raw.Close()
			return nil, errors.Wrap(errors.ErrConnectionFailed, err.Error())
		}
		return conn, nil
	}
}
