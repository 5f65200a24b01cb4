package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	img, err := Validate("mole.png", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)

	_, err = Validate("notes.txt", []byte("just some text"))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = Validate("empty.png", nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	big := append(pngBytes(t), make([]byte, MaxImageBytes)...)
	_, err = Validate("big.png", big)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestValidate_NamesUnnamedUploads(t *testing.T) {
	img, err := Validate("", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "upload.png", img.Filename)
}

func TestClient_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "skin", r.FormValue("cancer_type"))
		assert.Equal(t, "42", r.FormValue("user_id"))

		f, hdr, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "mole.png", hdr.Filename)
			b, _ := io.ReadAll(f)
			assert.NotEmpty(t, b)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"prediction": "Cancerous",
			"confidence": 0.873,
			"image_url":  "/uploads/42/mole.png",
		})
	}))
	defer srv.Close()

	img, err := Validate("mole.png", pngBytes(t))
	require.NoError(t, err)

	p, err := NewClient(srv.URL+"/", srv.Client()).Predict(context.Background(), img, "skin", 42)
	require.NoError(t, err)
	assert.Equal(t, "Cancerous", p.Prediction)
	assert.InDelta(t, 0.873, p.Confidence, 1e-9)
	assert.Equal(t, srv.URL+"/uploads/42/mole.png", p.ImageURL)
}

func TestClient_PredictFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	img, err := Validate("mole.png", pngBytes(t))
	require.NoError(t, err)

	_, err = NewClient(srv.URL, srv.Client()).Predict(context.Background(), img, "skin", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassifier)
	assert.Contains(t, err.Error(), "model not loaded")
}
