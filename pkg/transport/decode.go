package transport

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode maps a sanitized JSON tree onto a typed struct using its json tags.
// Input is weakly typed: upstream APIs routinely send numbers as strings and
// booleans as 0/1.
func Decode(body any, dst any) error {
	if body == nil {
		return fmt.Errorf("empty response body")
	}
	if _, ok := body.(string); ok {
		return fmt.Errorf("expected json response, got text")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
