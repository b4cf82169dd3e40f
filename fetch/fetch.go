// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/retail-lens/rldata/dataset"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrStatus is returned when the dataset host responds with a non-2xx
// status code.
var ErrStatus = errors.New("dataset host returned an invalid status code")

const defaultRateLimit = 30 // requests per minute

// Client downloads prepared dataset snapshots over HTTP.
type Client struct {
	BaseURL   string
	Dir       string
	RateLimit int // requests per minute; defaultRateLimit when <= 0
}

// New returns a snapshot client writing into dir.
func New(baseURL, dir string) *Client {
	return &Client{BaseURL: baseURL, Dir: dir}
}

// Snapshot downloads all four dataset files into the client directory,
// one request at a time behind a shared rate limiter. The first failure
// stops the snapshot.
func (client *Client) Snapshot(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if client.BaseURL == "" {
		return errors.New("no dataset base url configured")
	}

	rateLimit := client.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}

	httpClient := resty.New()
	limiter := rate.NewLimiter(rate.Limit(float64(rateLimit)/float64(61)), 1)

	if err := os.MkdirAll(client.Dir, 0755); err != nil {
		return err
	}

	base := strings.TrimSuffix(client.BaseURL, "/")
	for _, name := range dataset.DatasetFiles {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		url := fmt.Sprintf("%s/%s", base, name)
		resp, err := httpClient.R().SetContext(ctx).Get(url)
		if err != nil {
			logger.Error().Err(err).Str("URL", url).Msg("resty returned an error when downloading dataset file")
			return err
		}

		if resp.StatusCode() >= 300 {
			logger.Error().Int("StatusCode", resp.StatusCode()).Str("URL", resp.Request.URL).Msg("dataset host returned an invalid HTTP response")
			return fmt.Errorf("%w: %d for %s", ErrStatus, resp.StatusCode(), name)
		}

		path := filepath.Join(client.Dir, name)
		if err := os.WriteFile(path, resp.Body(), 0644); err != nil {
			return err
		}

		sum := sha256.Sum256(resp.Body())
		logger.Info().
			Str("FileName", name).
			Str("SHA256", hex.EncodeToString(sum[:])[:12]).
			Int("Bytes", len(resp.Body())).
			Msg("downloaded dataset file")
	}

	return nil
}
