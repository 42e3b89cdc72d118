package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// errInvalidBody marks request bodies that could not be decoded.
var errInvalidBody = errors.New("invalid request body")

// decodeFields reads the submitted fields of a write request as a raw map so
// type mistakes reach validation instead of failing the decoding. JSON
// numbers are kept as json.Number.
func decodeFields(c *fiber.Ctx) (map[string]interface{}, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	fields := make(map[string]interface{})

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			fields[string(key)] = string(value)
		})
		return fields, nil

	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields, nil
	}

	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return fields, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", errInvalidBody)
	}
	if fields == nil {
		// A literal null decodes into a nil map.
		fields = make(map[string]interface{})
	}
	return fields, nil
}
