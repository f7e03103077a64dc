package fetcher

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray walks a JSON array element by element, handing each raw
// element to fn. Expects input in the form [{...},{...}]. An error from fn
// stops decoding and is returned as-is.
func DecodeJSONArray(ctx context.Context, r io.Reader, fn func(index int, raw json.RawMessage) error) error {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		return eris.Wrap(err, "json: read opening token")
	}

	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return eris.Errorf("json: expected '[', got %v", tok)
	}

	for i := 0; decoder.More(); i++ {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "json: context cancelled")
		}

		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return eris.Wrap(err, "json: decode element")
		}
		if err := fn(i, raw); err != nil {
			return err
		}
	}

	if _, err := decoder.Token(); err != nil && err != io.EOF {
		return eris.Wrap(err, "json: read closing token")
	}
	return nil
}

// GetJSONArray downloads url and walks its top-level array with fn.
func GetJSONArray(ctx context.Context, f Fetcher, url string, fn func(index int, raw json.RawMessage) error) error {
	body, err := f.Download(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close() //nolint:errcheck

	return DecodeJSONArray(ctx, body, fn)
}
