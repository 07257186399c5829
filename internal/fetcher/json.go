package fetcher

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DownloadJSON fetches the URL and unmarshals the body into v.
func DownloadJSON(ctx context.Context, f Fetcher, url string, v any) error {
	body, err := f.Download(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return eris.Wrapf(err, "json: read body from %s", url)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "json: decode body from %s", url)
	}
	return nil
}
