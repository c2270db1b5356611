package afdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*httptest.Server, *Client) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/prediction/P12345", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{
			"uniprotAccession": "P12345",
			"uniprotDescription": "Test protein",
			"sequence": "MKSW",
			"amAnnotationsUrl": %q,
			"pdbUrl": %q
		}]`, server.URL+"/am.csv", server.URL+"/model.pdb")
	})
	mux.HandleFunc("/prediction/Q00000", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})
	mux.HandleFunc("/am.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "protein_variant,am_pathogenicity\nM1A,0.25\nM1C,0.75\n")
	})
	mux.HandleFunc("/model.pdb", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "HEADER    PREDICTED MODEL\n")
	})

	client := NewClient()
	client.BaseURL = server.URL
	return server, client
}

func TestPrediction(t *testing.T) {
	_, client := testServer(t)

	// Lower case accessions resolve too.
	pred, err := client.Prediction(context.Background(), "p12345")
	require.NoError(t, err)
	assert.Equal(t, "P12345", pred.UniprotAccession)
	assert.Equal(t, "Test protein", pred.UniprotDescription)
	assert.Equal(t, "MKSW", pred.Sequence)
}

func TestPredictionEmpty(t *testing.T) {
	_, client := testServer(t)

	_, err := client.Prediction(context.Background(), "Q00000")
	assert.ErrorContains(t, err, "no prediction")
}

func TestPredictionNotFound(t *testing.T) {
	_, client := testServer(t)

	_, err := client.Prediction(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestVariants(t *testing.T) {
	_, client := testServer(t)

	pred, err := client.Prediction(context.Background(), "P12345")
	require.NoError(t, err)
	variants, err := client.Variants(context.Background(), pred)
	require.NoError(t, err)

	require.Len(t, variants, 2)
	assert.Equal(t, 1, variants[0].Position)
	assert.Equal(t, 0.25, variants[0].Score)
}

func TestVariantsMissingAnnotations(t *testing.T) {
	_, client := testServer(t)

	pred := &Prediction{UniprotAccession: "P12345"}
	_, err := client.Variants(context.Background(), pred)
	assert.ErrorContains(t, err, "no AlphaMissense annotations")
}

func TestModelPDB(t *testing.T) {
	_, client := testServer(t)

	pred, err := client.Prediction(context.Background(), "P12345")
	require.NoError(t, err)
	body, err := client.ModelPDB(context.Background(), pred)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PREDICTED MODEL")

	_, err = client.ModelPDB(context.Background(), &Prediction{})
	assert.Error(t, err)
}
