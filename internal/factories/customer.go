// Package factories generates plausible café customers and menu drafts for
// simulations and demo data.
package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
)

var orderNotes = []string{
	"Oat milk please",
	"Extra hot",
	"No sugar",
	"Decaf",
	"Takeaway cup",
	"Extra shot",
	"Light ice",
	"Warm it up please",
	"Birthday candle if possible",
	"Allergic to nuts",
}

type Customer struct {
	Name  string
	Notes string
}

type CustomerFactory struct {
	fake        faker.Faker
	notePercent int
}

// NewCustomerFactory returns a factory whose output is fully determined by
// seed.
func NewCustomerFactory(seed int64) *CustomerFactory {
	return &CustomerFactory{
		fake:        faker.NewWithSeed(rand.NewSource(seed)),
		notePercent: 30,
	}
}

func (cf *CustomerFactory) CreateCustomer() Customer {
	c := Customer{Name: cf.fake.Person().FirstName() + " " + cf.fake.Person().LastName()}
	if cf.fake.IntBetween(1, 100) <= cf.notePercent {
		c.Notes = cf.fake.RandomStringElement(orderNotes)
	}
	return c
}

// CartSize picks how many distinct lines and the quantity of each line.
func (cf *CustomerFactory) CartSize(maxLines int) (lines int, quantities []int) {
	if maxLines < 1 {
		maxLines = 1
	}
	lines = cf.fake.IntBetween(1, maxLines)
	quantities = make([]int, lines)
	for i := range quantities {
		// most lines are a single unit
		if cf.fake.IntBetween(1, 10) <= 7 {
			quantities[i] = 1
		} else {
			quantities[i] = cf.fake.IntBetween(2, 3)
		}
	}
	return lines, quantities
}

// PickDistinct returns k different indexes in [0, n), fewer when k > n.
func (cf *CustomerFactory) PickDistinct(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates: only the first k slots are shuffled
	for i := 0; i < k; i++ {
		j := cf.fake.IntBetween(i, n-1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
