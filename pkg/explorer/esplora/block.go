package esplora

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

func (e *esplora) GetBlockHeight(ctx context.Context) (int64, error) {
	path := "/blocks/tip/height"
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, unexpectedStatus(path, status, resp)
	}
	return strconv.ParseInt(strings.TrimSpace(resp), 10, 64)
}
