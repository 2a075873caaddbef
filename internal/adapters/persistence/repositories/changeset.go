package repositories

import "contribution-hub/internal/core/domain"

// Changeset collects full-collection replacements for one Commit.
// A collection that was set to an empty slice is written as empty;
// one that was never set is left alone.
type Changeset struct {
	users         []domain.User
	payments      []domain.Payment
	loans         []domain.Loan
	notifications []domain.Notification
	settings      domain.Settings
	touched       map[Collection]bool
}

// NewChangeset creates an empty changeset
func NewChangeset() *Changeset {
	return &Changeset{touched: make(map[Collection]bool)}
}

func (c *Changeset) SetUsers(users []domain.User) *Changeset {
	c.users = users
	c.touched[CollectionUsers] = true
	return c
}

func (c *Changeset) SetPayments(payments []domain.Payment) *Changeset {
	c.payments = payments
	c.touched[CollectionPayments] = true
	return c
}

func (c *Changeset) SetLoans(loans []domain.Loan) *Changeset {
	c.loans = loans
	c.touched[CollectionLoans] = true
	return c
}

func (c *Changeset) SetNotifications(notifications []domain.Notification) *Changeset {
	c.notifications = notifications
	c.touched[CollectionNotifications] = true
	return c
}

func (c *Changeset) SetSettings(settings domain.Settings) *Changeset {
	c.settings = settings
	c.touched[CollectionSettings] = true
	return c
}

// Touched lists the collections set on the changeset in stable order
func (c *Changeset) Touched() []Collection {
	var out []Collection
	for _, col := range AllCollections {
		if c.touched[col] {
			out = append(out, col)
		}
	}
	return out
}

// IsEmpty reports whether nothing was set
func (c *Changeset) IsEmpty() bool {
	return len(c.touched) == 0
}

func (c *Changeset) value(col Collection) interface{} {
	switch col {
	case CollectionUsers:
		return nonNil(c.users)
	case CollectionPayments:
		return nonNil(c.payments)
	case CollectionLoans:
		return nonNil(c.loans)
	case CollectionNotifications:
		return nonNil(c.notifications)
	case CollectionSettings:
		return c.settings
	}
	return nil
}

// nonNil keeps empty collections encoded as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
