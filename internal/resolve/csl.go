// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.yaml.in/yaml/v3"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-JSON schema so output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	Type           string    `json:"type" yaml:"type"`
	Title          string    `json:"title" yaml:"title"`
	Author         []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Volume         string    `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string    `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string    `json:"page,omitempty" yaml:"page,omitempty"`
	Publisher      string    `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
	DOI            string    `json:"DOI,omitempty" yaml:"DOI,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}

// ResolveCSL looks up each DOI as structured CSL-JSON. DOIs the service
// cannot render are skipped, so the result may be shorter than the input.
// Like Resolve, any transport failure or unexpected status is a *Error.
func (c *Client) ResolveCSL(ctx context.Context, dois []string) ([]CSLItem, error) {
	var items []CSLItem
	requested := false

	for _, doi := range dois {
		if requested && c.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RequestDelay):
			}
		}
		requested = true

		body, status, err := c.fetch(ctx, doi, acceptCSL)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			c.log.Warning("no CSL record for %s (HTTP %d)", doi, status)
			continue
		}

		var item CSLItem
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, &Error{DOI: doi, Err: err}
		}
		if item.DOI == "" {
			item.DOI = doi
		}
		items = append(items, item)
	}
	return items, nil
}

// WriteCSL writes items as a CSL-YAML list to w.
func WriteCSL(items []CSLItem, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}
