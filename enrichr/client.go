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

// Package enrichr is a client for the Enrichr gene-set enrichment web service. A gene list is uploaded once and can
// then be tested against any of the Enrichr gene-set libraries.
package enrichr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// DefaultURL is the address of the public Enrichr service.
const DefaultURL = "https://maayanlab.cloud/Enrichr"

// Client represents an Enrichr API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

// NewClient creates a new Enrichr client. Requests time out after timeout and are tried up to attempts times.
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
		delay:      500 * time.Millisecond,
	}
}

// UserList identifies an uploaded gene list.
type UserList struct {
	UserListID int    `json:"userListId"`
	ShortID    string `json:"shortId"`
}

// Term is one enriched term of a gene-set library.
type Term struct {
	Rank              int
	Term              string
	PValue            float64
	OddsRatio         float64
	CombinedScore     float64
	Genes             []string
	AdjustedPValue    float64
	OldPValue         float64
	OldAdjustedPValue float64
}

// statusError is returned for unsuccessful HTTP responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("Enrichr returned status %d: %s", e.code, e.body)
}

// transient reports whether a request that failed with err may succeed when tried again.
func transient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

// do sends the request built by newRequest, retrying transient failures, and decodes the JSON response into v.
func (c *Client) do(ctx context.Context, newRequest func() (*http.Request, error), v any) error {
	return retry.Do(func() error {
		req, err := newRequest()
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}
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
		if resp.StatusCode != http.StatusOK {
			return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
		}
		if err := json.Unmarshal(body, v); err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to parse Enrichr response: %w", err))
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
		retry.OnRetry(func(attempt uint, err error) {
			log.Warn().Err(err).Uint("attempt", attempt+1).Msg("Enrichr request failed, retrying")
		}),
	)
}

// AddList uploads a gene list.
func (c *Client) AddList(ctx context.Context, genes []string, description string) (*UserList, error) {
	if len(genes) == 0 {
		return nil, errors.New("empty gene list")
	}
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("list", strings.Join(genes, "\n")); err != nil {
		return nil, err
	}
	if err := form.WriteField("description", description); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}
	list := &UserList{}
	err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/addList", bytes.NewReader(body.Bytes()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", form.FormDataContentType())
		return req, nil
	}, list)
	if err != nil {
		return nil, fmt.Errorf("uploading gene list: %w", err)
	}
	log.Debug().Int("userListId", list.UserListID).Int("genes", len(genes)).Msg("Uploaded gene list to Enrichr")
	return list, nil
}

// Enrich tests an uploaded gene list against a gene-set library.
func (c *Client) Enrich(ctx context.Context, listID int, library string) ([]Term, error) {
	q := url.Values{}
	q.Set("userListId", strconv.Itoa(listID))
	q.Set("backgroundType", library)
	reqURL := c.baseURL + "/enrich?" + q.Encode()
	var response map[string][][]json.RawMessage
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("enriching gene list %d with %s: %w", listID, library, err)
	}
	rows, ok := response[library]
	if !ok {
		return nil, fmt.Errorf("Enrichr response has no results for library %s", library)
	}
	terms := make([]Term, 0, len(rows))
	for i, row := range rows {
		term, err := parseTerm(row)
		if err != nil {
			return nil, fmt.Errorf("library %s, result %d: %w", library, i, err)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// parseTerm decodes one result row: rank, term name, p-value, odds ratio, combined score, overlapping genes,
// adjusted p-value, old p-value, old adjusted p-value.
func parseTerm(row []json.RawMessage) (Term, error) {
	var term Term
	if len(row) < 9 {
		return term, fmt.Errorf("result row has %d fields", len(row))
	}
	targets := []any{
		&term.Rank, &term.Term, &term.PValue, &term.OddsRatio, &term.CombinedScore, &term.Genes,
		&term.AdjustedPValue, &term.OldPValue, &term.OldAdjustedPValue,
	}
	for i, target := range targets {
		if err := json.Unmarshal(row[i], target); err != nil {
			return term, fmt.Errorf("field %d: %w", i, err)
		}
	}
	return term, nil
}

// Libraries lists the names of the gene-set libraries the service offers.
func (c *Client) Libraries(ctx context.Context) ([]string, error) {
	var response struct {
		Statistics []struct {
			LibraryName string `json:"libraryName"`
		} `json:"statistics"`
	}
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/datasetStatistics", nil)
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("listing libraries: %w", err)
	}
	names := make([]string, len(response.Statistics))
	for i, lib := range response.Statistics {
		names[i] = lib.LibraryName
	}
	return names, nil
}
