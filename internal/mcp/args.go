package mcp

import (
	"github.com/go-viper/mapstructure/v2"
)

// ArgumentGetter is an interface for getting arguments from a request
type ArgumentGetter interface {
	GetArguments() map[string]any
}

// bindArguments decodes tool arguments into target using json tags.
// Weak typing accepts clients that send every value as a string.
func bindArguments[T any](request ArgumentGetter, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(request.GetArguments())
}
