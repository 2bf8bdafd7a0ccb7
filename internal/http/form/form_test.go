package form_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/http/form"
)

func TestStringList(t *testing.T) {
	var got struct {
		One  form.StringList `json:"one"`
		Many form.StringList `json:"many"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"one":"Groundnut","many":["a","b"]}`), &got))
	assert.Equal(t, form.StringList{"Groundnut"}, got.One)
	assert.Equal(t, form.StringList{"a", "b"}, got.Many)

	assert.Error(t, json.Unmarshal([]byte(`{"one":5}`), &got))
}

type target struct {
	Name    string          `json:"name"`
	Address form.StringList `json:"address"`
	Claim   bool            `json:"isClaim"`
	Amount  decimal.Decimal `json:"amount"`
}

func TestFields_Decode(t *testing.T) {
	fields := form.Fields{
		Arrays: map[string]bool{"address": true},
		Bools:  map[string]bool{"isClaim": true},
	}

	var got target
	err := fields.Decode(url.Values{
		"name":    {"Shree Traders"},
		"address": {"Shed 4", "Unjha"},
		"isClaim": {"true"},
		"amount":  {"1250.50"},
	}, &got)
	require.NoError(t, err)

	assert.Equal(t, "Shree Traders", got.Name)
	assert.Equal(t, form.StringList{"Shed 4", "Unjha"}, got.Address)
	assert.True(t, got.Claim)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1250.5")))

	got = target{}
	require.NoError(t, fields.Decode(url.Values{"address": {`["Shed 4","Unjha"]`}}, &got))
	assert.Equal(t, form.StringList{"Shed 4", "Unjha"}, got.Address)

	err = fields.Decode(url.Values{"isClaim": {"maybe"}}, &got)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	err = fields.Decode(url.Values{"amount": {"lots"}}, &got)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestFiles(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("weighmentSlips", "slip.jpg")
	require.NoError(t, err)
	fw.Write([]byte("jpeg bytes"))
	require.NoError(t, mw.WriteField("supplierName", "A"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	require.True(t, form.IsMultipart(r))
	require.NoError(t, form.Parse(httptest.NewRecorder(), r, 1<<20))

	files, err := form.Files(r, "weighmentSlips")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "slip.jpg", files[0].Name)
	assert.Equal(t, []byte("jpeg bytes"), files[0].Data)

	files, err = form.Files(r, "other")
	require.NoError(t, err)
	assert.Empty(t, files)
}
