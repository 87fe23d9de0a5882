package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
)

// maxUploadBytes bounds the size of an uploaded counter file.
const maxUploadBytes = 64 << 20

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": msg,
		},
	})
}

func readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, newInvalidRequest(fmt.Sprintf("upload exceeds %d bytes", maxUploadBytes))
	}
	if len(data) == 0 {
		return nil, newInvalidRequest("empty request body")
	}
	return data, nil
}

func packetName(c *echo.Context) (string, error) {
	name := c.QueryParam("name")
	if name == "" {
		return "", nil
	}
	if len(name) > 255 {
		return "", newInvalidRequest("name exceeds 255 characters")
	}
	if strings.ContainsAny(name, "/\x00") {
		return "", newInvalidRequest("name contains invalid characters")
	}
	return name, nil
}
