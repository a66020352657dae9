package handlers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = errors.New("request body is empty")

// bindEnvelope decodes a JSON body that is either wrapped under key,
// as in {"resident": {...}}, or sent as the bare object.
func bindEnvelope(c *gin.Context, key string, obj any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errEmptyBody
	}

	var envelope map[string]json.RawMessage
	if json.Unmarshal(raw, &envelope) == nil {
		if inner, ok := envelope[key]; ok && bytes.HasPrefix(bytes.TrimSpace(inner), []byte("{")) {
			return json.Unmarshal(inner, obj)
		}
	}
	return json.Unmarshal(raw, obj)
}
