// Package provider содержит общий HTTP-код клиентов внешних API.
package provider

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxBodySize ограничивает чтение ответа провайдера
const maxBodySize = 1 << 20

// Do выполняет запрос и читает тело. Ошибки транспорта не содержат URL:
// в query string у провайдеров лежит ключ API.
func Do(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, StripURL(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

func StripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// Truncate режет тело ответа для логов
func Truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
