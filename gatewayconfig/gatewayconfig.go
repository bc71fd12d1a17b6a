// Package gatewayconfig loads the gateway's executor list from a JSON
// configuration file, replacing the teacher repository's main.go pattern
// of a hardcoded Go map of name -> address with something a deployment
// can edit without a rebuild.
package gatewayconfig

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/federatedgraph/gateway/gateway"
	"github.com/federatedgraph/gateway/gqlerrors"
	"github.com/federatedgraph/gateway/httpexecutor"
)

// ExecutorConfig names one upstream executor and the endpoint it's
// reached at.
type ExecutorConfig struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// Config is the top-level gateway configuration file shape:
//
//	{
//	  "executors": [{"name": "account", "endpoint": "http://localhost:4001/graphql"}, ...],
//	  "syncIntervalSeconds": 30
//	}
type Config struct {
	Executors           []ExecutorConfig `json:"executors"`
	SyncIntervalSeconds int              `json:"syncIntervalSeconds"`
}

// Load reads and parses a Config from r.
func Load(r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, &gqlerrors.JsonError{Cause: err}
	}
	return &cfg, nil
}

// LoadFile opens path and parses it as a Config.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gqlerrors.Wrapf(err, "opening gateway config %q", path)
	}
	defer f.Close()
	return Load(f)
}

// SyncInterval returns the configured reload interval, defaulting to 30s
// when unset.
func (c *Config) SyncInterval() time.Duration {
	if c.SyncIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// BuildGateway registers one httpexecutor.Executor per entry in cfg onto
// a new Gateway. The caller still must call Build to introspect and
// merge before serving requests.
func BuildGateway(cfg *Config, client *http.Client) *gateway.Gateway {
	g := gateway.New()
	for _, e := range cfg.Executors {
		g.Register(httpexecutor.New(e.Name, e.Endpoint, client))
	}
	return g
}
