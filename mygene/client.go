// BiGAnts: Bi-clustering Results Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

// Package mygene resolves gene IDs to gene symbols with the MyGene.info gene query service.
package mygene

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

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// DefaultURL is the address of the public MyGene.info v3 API.
const DefaultURL = "https://mygene.info/v3"

// BatchSize is the largest number of IDs sent in one query.
const BatchSize = 1000

// Client represents a MyGene.info API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
	batchSize  int
}

// NewClient creates a new MyGene.info client. Requests time out after timeout and are tried up to attempts times.
func NewClient(baseURL string, timeout time.Duration, attempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if attempts == 0 {
		attempts = 1
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		attempts:   attempts,
		delay:      time.Second,
		batchSize:  BatchSize,
	}
}

// Hit is one answer to a query term. A term can have several hits, or a single hit with NotFound set.
type Hit struct {
	Query    string `json:"query"`
	ID       string `json:"_id"`
	Symbol   string `json:"symbol"`
	NotFound bool   `json:"notfound"`
}

// retryable marks an unsuccessful response worth trying again.
type retryable struct {
	code int
	body string
}

func (e *retryable) Error() string {
	return fmt.Sprintf("MyGene.info returned status %d: %s", e.code, e.body)
}

// query sends one batch of IDs.
func (c *Client) query(ctx context.Context, form url.Values) ([]Hit, error) {
	var hits []Hit
	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query",
			strings.NewReader(form.Encode()))
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &retryable{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Unrecoverable(fmt.Errorf("MyGene.info returned status %d: %s", resp.StatusCode,
				strings.TrimSpace(string(body))))
		}
		if err := json.Unmarshal(body, &hits); err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to parse MyGene.info response: %w", err))
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			log.Warn().Err(err).Uint("attempt", attempt+1).Msg("MyGene.info request failed, retrying")
		}),
	)
	return hits, err
}

// QueryMany looks up ids in the given scopes (e.g. "entrezgene", "ensembl.gene") and returns the requested fields for
// the given species. IDs are sent in batches of at most BatchSize.
func (c *Client) QueryMany(ctx context.Context, ids []string, scopes, fields, species string) ([]Hit, error) {
	if scopes == "" {
		return nil, errors.New("no query scope given")
	}
	hits := []Hit{}
	for low := 0; low < len(ids); low += c.batchSize {
		high := low + c.batchSize
		if high > len(ids) {
			high = len(ids)
		}
		form := url.Values{}
		form.Set("q", strings.Join(ids[low:high], ","))
		form.Set("scopes", scopes)
		form.Set("fields", fields)
		form.Set("species", species)
		batch, err := c.query(ctx, form)
		if err != nil {
			return nil, fmt.Errorf("querying MyGene.info for IDs %d-%d: %w", low, high-1, err)
		}
		hits = append(hits, batch...)
		log.Debug().Int("from", low).Int("to", high-1).Int("hits", len(batch)).Msg("Queried MyGene.info")
	}
	return hits, nil
}
