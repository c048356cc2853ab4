package mdmapps

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/icholy/digest"

	"infa-monitor/internal/core/check"
)

const (
	StateOK       = "OK"
	StateDisabled = "disabled"
)

// Source lists the deployments of one JBoss environment through the
// management API and reports each deployment's runtime state. The API uses
// HTTP digest auth.
type Source struct {
	NameValue  string
	URL        string
	Username   string
	Password   string
	Timeout    time.Duration
	SkipVerify bool
}

type managementRequest struct {
	Operation      string           `json:"operation"`
	ChildType      string           `json:"child-type,omitempty"`
	Address        []map[string]any `json:"address,omitempty"`
	IncludeRuntime string           `json:"include-runtime,omitempty"`
}

type listResponse struct {
	Outcome string   `json:"outcome"`
	Result  []string `json:"result"`
}

type resourceResponse struct {
	Outcome string `json:"outcome"`
	Result  struct {
		Status  string `json:"status"`
		Enabled bool   `json:"enabled"`
	} `json:"result"`
}

func (s *Source) Name() string {
	return s.NameValue
}

func (s *Source) Collect(ctx context.Context) ([]check.Item, error) {
	client := s.client()

	var list listResponse
	err := s.post(ctx, client, managementRequest{
		Operation: "read-children-names",
		ChildType: "deployment",
	}, &list)
	if err != nil {
		return []check.Item{{
			Name:      s.NameValue,
			Kind:      check.KindAppState,
			Status:    check.StatusUnknown,
			Detail:    fmt.Sprintf("management api unreachable: %v", err),
			CheckedAt: time.Now(),
		}}, err
	}

	var items []check.Item
	for _, dep := range list.Result {
		var res resourceResponse
		err := s.post(ctx, client, managementRequest{
			Operation:      "read-resource",
			Address:        []map[string]any{{"deployment": dep}},
			IncludeRuntime: "true",
		}, &res)
		if err != nil {
			items = append(items, check.Item{
				Name:      s.NameValue + "/" + dep,
				Kind:      check.KindAppState,
				Status:    check.StatusUnknown,
				Detail:    fmt.Sprintf("read-resource %s: %v", dep, err),
				CheckedAt: time.Now(),
			})
			continue
		}

		state := res.Result.Status
		if !res.Result.Enabled {
			state = StateDisabled
		}
		items = append(items, check.Item{
			Name:      s.NameValue + "/" + dep,
			Kind:      check.KindAppState,
			State:     state,
			Healthy:   []string{StateOK},
			Detail:    fmt.Sprintf("deployment %s status=%s enabled=%t", dep, res.Result.Status, res.Result.Enabled),
			CheckedAt: time.Now(),
		})
	}
	return items, nil
}

func (s *Source) client() *http.Client {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	transport := &digest.Transport{
		Username: s.Username,
		Password: s.Password,
	}
	if s.SkipVerify {
		inner := http.DefaultTransport.(*http.Transport).Clone()
		inner.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport.Transport = inner
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func (s *Source) post(ctx context.Context, client *http.Client, op managementRequest, out any) error {
	body, err := json.Marshal(op)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("management api HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
