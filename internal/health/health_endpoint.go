package health

import (
	"context"
	"net"
	"net/url"
	"time"
)

func probeEndpoint(ctx context.Context, endpoint string, probe bool, timeout time.Duration) *EndpointInfo {
	info := &EndpointInfo{URL: endpoint}

	u, err := url.Parse(endpoint)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Address = hostPort(u)
	if !probe {
		return info
	}

	info.Probed = true
	dialer := net.Dialer{Timeout: timeout}
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", info.Address)
	info.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	_ = conn.Close()
	info.Reachable = true
	return info
}

func hostPort(u *url.URL) string {
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}
