package generate

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// ErrEmptyValue is returned when asked to replace an empty original.
var ErrEmptyValue = errors.New("original value is empty")

// Generator produces type-appropriate synthetic values. It is seeded once
// per pipeline invocation: two independent batches over identical content
// produce unrelated synthetic output, while within one batch all reuse is
// deterministic through the session table.
//
// Generate mutates only the caller-supplied table; the Generator itself
// holds no mapping state.
type Generator struct {
	faker  *gofakeit.Faker
	rng    *rand.Rand
	logger *logger.Logger
}

// New creates a generator with the given seed. A zero seed picks a random
// one.
func New(seed uint64, log *logger.Logger) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(int64(seed))),
		logger: log.WithComponent("generator"),
	}
}

// Generate returns the synthetic replacement for original. A value already
// present in the session table is returned as-is, never regenerated; a new
// value is inserted into the table before returning.
//
// The table is keyed by original value only. A string first seen as PERSON
// and later detected as ORGANIZATION keeps its person-shaped replacement.
func (g *Generator) Generate(typ entity.Type, original string, table *vault.Mappings) (string, error) {
	if original == "" {
		return "", ErrEmptyValue
	}

	if cached, ok := table.Get(original); ok {
		return cached, nil
	}

	synthetic := g.synthesize(typ)
	table.Set(original, synthetic)
	return synthetic, nil
}

// DateOffset draws the batch-wide date-shift offset, uniform over
// [-windowDays, +windowDays].
func (g *Generator) DateOffset(windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	return g.rng.Intn(2*windowDays+1) - windowDays
}

// synthesize produces a fresh value for the entity type. Types without a
// dedicated generator fall back to a generic REDACTED_<TYPE> token; that is
// a documented fallback, not an error.
func (g *Generator) synthesize(typ entity.Type) string {
	f := g.faker

	switch typ {
	case entity.Person:
		return f.Name()
	case entity.Organization:
		return f.Company()
	case entity.Location:
		return f.City()
	case entity.EmailAddress:
		return f.Email()
	case entity.PhoneNumber:
		return f.Phone()
	case entity.CreditCard:
		return f.CreditCardNumber(nil)
	case entity.USSSN:
		return f.SSN()
	case entity.Passport:
		return strings.ToUpper(f.Lexify("??")) + f.Numerify("#######")
	case entity.DriverLicense:
		return "DL-" + f.Numerify("########")
	case entity.IPAddress:
		return f.IPv4Address()
	case entity.DateTime:
		// A plausible unrelated date, not a shifted copy of the original.
		return f.Date().Format(time.RFC3339)
	case entity.URL:
		return f.URL()
	case entity.BankNumber:
		return f.AchAccount()
	case entity.Crypto:
		return f.HexUint(160)
	case entity.MedicalLicense:
		return "MD-" + f.Numerify("#######")
	default:
		g.logger.Info("No dedicated generator for entity type, using generic token",
			zap.String("entity_type", string(typ)),
		)
		return "REDACTED_" + string(typ)
	}
}
