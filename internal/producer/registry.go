// Package producer maps column types onto zero-argument value generators.
package producer

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/DGarbs51/mockedup/internal/schema"
)

// Unavailable is emitted for every row of a column whose type has no producer.
const Unavailable = "N/A"

// Producer yields one cell value per call.
type Producer func() any

// Constant returns a Producer that always yields v.
func Constant(v any) Producer {
	return func() any { return v }
}

// Registry resolves column types to producers backed by one Source.
type Registry struct {
	src       *Source
	clock     clockwork.Clock
	producers map[schema.ColumnType]Producer
}

// NewRegistry builds the static type table over src. Date producers read
// "now" from clock.
func NewRegistry(src *Source, clock clockwork.Clock) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	r := &Registry{src: src, clock: clock}
	f := src.Faker()

	r.producers = map[schema.ColumnType]Producer{
		schema.String:         func() any { return src.sentence(2 + src.IntN(3)) },
		schema.Integer:        func() any { return src.IntRange(1, 1000) },
		schema.Boolean:        func() any { return src.IntN(2) },
		schema.Decimal:        func() any { return src.price(0, 1000) },
		schema.CurrencyAmount: func() any { return src.price(1, 10000) },
		schema.Date:           r.dateThisDecade,
		schema.Birthdate:      r.birthdate,
		schema.Timestamp:      r.timestamp,
		schema.Name:           func() any { return f.Name() },
		schema.FirstName:      func() any { return f.FirstName() },
		schema.LastName:       func() any { return f.LastName() },
		schema.Email:          func() any { return f.Email() },
		schema.PhoneNumber:    func() any { return f.Phone() },
		schema.Address:        func() any { return f.Address().Address },
		schema.StreetAddress:  func() any { return f.Street() },
		schema.City:           func() any { return f.City() },
		schema.State:          func() any { return f.State() },
		schema.Zipcode:        func() any { return f.Zip() },
		schema.Country:        func() any { return f.Country() },
		schema.Company:        func() any { return f.Company() },
		schema.JobTitle:       func() any { return f.JobTitle() },
		schema.URL:            func() any { return f.URL() },
		schema.CreditCard:     func() any { return f.CreditCardNumber(nil) },
		schema.Color:          func() any { return f.Color() },
		schema.Text:           func() any { return src.paragraph() },
		schema.UUID:           r.randomUUID,
	}
	return r
}

// Resolve returns the producer for a column. A constant overrides the type.
// For an unregistered type it returns a producer of Unavailable and false.
func (r *Registry) Resolve(t schema.ColumnType, constant any) (Producer, bool) {
	if (schema.ColumnDef{Constant: constant}).HasConstant() {
		return Constant(constant), true
	}
	if p, ok := r.producers[t]; ok {
		return p, true
	}
	return Constant(Unavailable), false
}

// Has reports whether t has a registered producer.
func (r *Registry) Has(t schema.ColumnType) bool {
	_, ok := r.producers[t]
	return ok
}

// Types lists the registered types in display order.
func (r *Registry) Types() []schema.ColumnType {
	var out []schema.ColumnType
	for _, t := range schema.KnownTypes() {
		if r.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Source returns the randomness stream shared by all producers.
func (r *Registry) Source() *Source { return r.src }

func (r *Registry) today() time.Time {
	now := r.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// dateThisDecade returns a date between January 1st of the current decade and today.
func (r *Registry) dateThisDecade() any {
	today := r.today()
	start := time.Date(today.Year()-today.Year()%10, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, r.src.IntN(days+1))
}

func (r *Registry) birthdate() any {
	age := r.src.IntRange(18, 80)
	return r.today().AddDate(-age, 0, -r.src.IntN(365))
}

func (r *Registry) timestamp() any {
	offset := time.Duration(r.src.IntN(365*24*3600)) * time.Second
	return r.clock.Now().UTC().Add(-offset).Truncate(time.Second)
}

func (r *Registry) randomUUID() any {
	id, err := uuid.NewRandomFromReader(r.src)
	if err != nil {
		return Unavailable
	}
	return id.String()
}
