package mock

import "github.com/fwojciec/trialsum"

var _ trialsum.Converter = (*Converter)(nil)

// Converter is a mock implementation of trialsum.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
