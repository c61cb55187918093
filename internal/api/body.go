package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bodyFields holds the decoded request body. Values keep their JSON types
// (string, float64, bool, nil, []any, map[string]any); form fields are
// strings, or []any when a key is repeated.
type bodyFields map[string]any

// readBody decodes a JSON or urlencoded body. Any other content type, or a
// missing body, yields no fields.
func readBody(c *gin.Context) (bodyFields, error) {
	switch c.ContentType() {
	case binding.MIMEJSON:
		fields := bodyFields{}
		err := json.NewDecoder(c.Request.Body).Decode(&fields)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return fields, nil
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		fields := bodyFields{}
		for key, values := range c.Request.PostForm {
			if len(values) == 1 {
				fields[key] = values[0]
				continue
			}
			list := make([]any, len(values))
			for i, v := range values {
				list[i] = v
			}
			fields[key] = list
		}
		return fields, nil
	}
	return bodyFields{}, nil
}

// value returns the raw value of key and whether it was sent.
func (f bodyFields) value(key string) (any, bool) {
	v, ok := f[key]
	return v, ok
}

// text returns key as a string. Numbers and booleans are printed the way a
// JSON client would print them; null, missing and structured values are "".
func (f bodyFields) text(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	}
	return ""
}
