// Package synth supplies realistic replacement values for the faker masking
// strategy.
package synth

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// Kind is the semantic category of value to generate.
type Kind string

const (
	KindEmail      Kind = "email"
	KindPhone      Kind = "phone"
	KindSSN        Kind = "ssn"
	KindCreditCard Kind = "credit_card"
	KindPersonName Kind = "person_name"
	KindAddress    Kind = "address"
	KindWord       Kind = "word"
)

// Generator produces a synthetic value of the given kind. The locale tag
// may influence formatting and language; implementations that do not support
// a locale fall back to their default.
type Generator interface {
	Generate(kind Kind, locale string) (string, error)
}

// Fake is the bundled Generator backed by gofakeit. Output is en_US-shaped
// regardless of locale; other locales degrade to the default.
type Fake struct {
	faker *gofakeit.Faker
}

// NewFake creates a generator. Seed 0 uses a random source; a non-zero seed
// makes output reproducible, which tests rely on.
func NewFake(seed uint64) *Fake {
	return &Fake{faker: gofakeit.New(seed)}
}

// Generate implements Generator.
func (g *Fake) Generate(kind Kind, locale string) (string, error) {
	switch kind {
	case KindEmail:
		return g.faker.Email(), nil
	case KindPhone:
		return g.faker.PhoneFormatted(), nil
	case KindSSN:
		return g.faker.SSN(), nil
	case KindCreditCard:
		return g.faker.CreditCardNumber(nil), nil
	case KindPersonName:
		return g.faker.Name(), nil
	case KindAddress:
		addr := g.faker.Address()
		return fmt.Sprintf("%s, %s, %s %s", addr.Street, addr.City, addr.State, addr.Zip), nil
	case KindWord:
		return g.faker.Word(), nil
	default:
		return "", fmt.Errorf("unsupported kind: %q", kind)
	}
}
