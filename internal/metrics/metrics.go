// Package metrics wires the optional standalone Prometheus listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Enabled bool
	Addr    string
	Path    string
}

type Provider struct {
	cfg Config
}

func Init(cfg Config) *Provider {
	if cfg.Addr == "" {
		cfg.Addr = ":9090"
	}
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Addr() string { return p.cfg.Addr }

func (p *Provider) Path() string { return p.cfg.Path }

// Handler serves everything registered on the default registry, which is
// where the observability package puts its collectors.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})
}
