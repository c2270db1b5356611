/*
Package afdb is a small client for the AlphaFold database API. It retrieves,
per UniProt accession, the canonical protein sequence, the AlphaMissense
substitution scores and the predicted model itself.
*/
package afdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/paulynamagana/pdb-alphamissense-annotator/am"
)

// DefaultBaseURL is the public AlphaFold database API.
const DefaultBaseURL = "https://alphafold.ebi.ac.uk/api"

// A Client talks to the AlphaFold database. The zero value is not usable;
// call NewClient.
type Client struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// HTTPClient is used for all requests.
	HTTPClient *http.Client

	// Logger receives one debug record per request.
	Logger *slog.Logger
}

// NewClient returns a client for the public AlphaFold database.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     slog.Default(),
	}
}

// A Prediction is the subset of an AlphaFold prediction record this tool
// consumes.
type Prediction struct {
	UniprotAccession   string `json:"uniprotAccession"`
	UniprotDescription string `json:"uniprotDescription"`
	Sequence           string `json:"sequence"`
	AMAnnotationsURL   string `json:"amAnnotationsUrl"`
	PDBURL             string `json:"pdbUrl"`
}

// Prediction fetches the prediction record for a UniProt accession. The
// accession is case-insensitive.
func (c *Client) Prediction(ctx context.Context, accession string) (*Prediction, error) {
	url := fmt.Sprintf("%s/prediction/%s", c.BaseURL,
		strings.ToUpper(accession))
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var predictions []Prediction
	if err := json.NewDecoder(body).Decode(&predictions); err != nil {
		return nil, fmt.Errorf("afdb: decoding prediction for %s: %w",
			accession, err)
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("afdb: no prediction for %s", accession)
	}
	return &predictions[0], nil
}

// Variants downloads and parses the AlphaMissense substitution scores of a
// prediction. Not every accession has them; an error says so.
func (c *Client) Variants(ctx context.Context, p *Prediction) ([]am.Variant, error) {
	if p.AMAnnotationsURL == "" {
		return nil, fmt.Errorf("afdb: %s has no AlphaMissense annotations",
			p.UniprotAccession)
	}
	body, err := c.get(ctx, p.AMAnnotationsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return am.ReadVariants(body)
}

// ModelPDB streams the predicted model of a prediction in PDB format. The
// caller owns the returned reader.
func (c *Client) ModelPDB(ctx context.Context, p *Prediction) (io.ReadCloser, error) {
	if p.PDBURL == "" {
		return nil, fmt.Errorf("afdb: %s has no model PDB",
			p.UniprotAccession)
	}
	return c.get(ctx, p.PDBURL)
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("afdb request", "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("afdb: GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}
