package repository

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/pkg/backend"
)

// BackendClient is the subset of the backend client the repositories use.
type BackendClient interface {
	Do(ctx context.Context, req backend.Request, out interface{}) error
	Get(ctx context.Context, path, route string, query url.Values, out interface{}) error
	Stream(ctx context.Context, req backend.Request) (io.ReadCloser, string, error)
}

func idPath(format string, ids ...int64) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatDate(ts *time.Time, loc *time.Location) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	if loc != nil {
		return ts.In(loc).Format("2006-01-02")
	}
	return ts.Format("2006-01-02")
}

// getRaw fetches a payload without assuming its shape; adapters normalize it.
func getRaw(ctx context.Context, client BackendClient, path, route string, query url.Values) (interface{}, error) {
	var raw interface{}
	if err := client.Get(ctx, path, route, query, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func sendRecord(ctx context.Context, client BackendClient, method, path, route string, body interface{}) (adapter.Record, error) {
	var raw interface{}
	if err := client.Do(ctx, backend.Request{Method: method, Path: path, Route: route, Body: body}, &raw); err != nil {
		return nil, err
	}
	return adapter.Object(raw), nil
}
