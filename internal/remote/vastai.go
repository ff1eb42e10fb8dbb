// Package remote runs action commands on a rented GPU host. The host is a
// Vast.ai instance; its SSH endpoint is looked up through the Vast.ai API and
// commands are executed over SSH.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultVastAIEndpoint is the Vast.ai console API.
const DefaultVastAIEndpoint = "https://console.vast.ai"

// VastAI is a minimal Vast.ai API client.
type VastAI struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewVastAI constructs a client. An empty endpoint selects the public API.
func NewVastAI(endpoint, apiKey string, log zerolog.Logger) *VastAI {
	ep := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if ep == "" {
		ep = DefaultVastAIEndpoint
	}
	return &VastAI{endpoint: ep, apiKey: apiKey, httpClient: &http.Client{Timeout: 0}, log: log}
}

type instanceResponse struct {
	Instances struct {
		PublicIPAddr string                   `json:"public_ipaddr"`
		Ports        map[string][]portBinding `json:"ports"`
	} `json:"instances"`
}

type portBinding struct {
	HostIP   string `json:"HostIp"`
	HostPort string `json:"HostPort"`
}

// SSHAddress returns host:port of the instance's SSH port (22/tcp).
func (v *VastAI) SSHAddress(ctx context.Context, instanceID string) (string, error) {
	if strings.TrimSpace(v.apiKey) == "" {
		return "", errors.New("vastai: api key not set")
	}
	if strings.TrimSpace(instanceID) == "" {
		return "", errors.New("vastai: instance id not set")
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	q := url.Values{"owner": {"me"}, "api_key": {v.apiKey}}
	u := fmt.Sprintf("%s/api/v0/instances/%s?%s", v.endpoint, url.PathEscape(instanceID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.log.Debug().Err(err).Msg("vastai request failed")
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("vastai: http %d", resp.StatusCode)
	}
	var ir instanceResponse
	if err := json.Unmarshal(b, &ir); err != nil {
		return "", fmt.Errorf("vastai: decode instance: %w", err)
	}
	ssh := ir.Instances.Ports["22/tcp"]
	if len(ssh) == 0 || ssh[0].HostPort == "" {
		return "", errors.New("vastai: instance has no ssh port mapping")
	}
	if ir.Instances.PublicIPAddr == "" {
		return "", errors.New("vastai: instance has no public ip")
	}
	addr := ir.Instances.PublicIPAddr + ":" + ssh[0].HostPort
	v.log.Debug().Str("instance", instanceID).Str("addr", addr).Msg("vastai ssh address")
	return addr, nil
}
