package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

var now = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func tenant(id int, subdomain, english, arabic, end string) saas.Tenant {
	return saas.Tenant{
		ID:          id,
		Subdomain:   subdomain,
		EnglishName: english,
		ArabicName:  arabic,
		StartDate:   "2024-01-01",
		EndDate:     end,
	}
}

func TestReplaceNormalizesNil(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Replace(nil)
	assert.NotNil(t, s.All())
	assert.Equal(t, 0, s.Len())
}

func TestApplyLifecycle(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Replace([]saas.Tenant{tenant(1, "acme", "Acme", "أكمي", "2026-01-01")})

	s.ApplyCreated(tenant(2, "beta", "Beta", "بيتا", "2026-01-01"))
	assert.Equal(t, 2, s.Len())

	updated := tenant(2, "beta", "Beta Renamed", "بيتا", "2026-01-01")
	assert.True(t, s.ApplyUpdated(updated))
	got, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Beta Renamed", got.EnglishName)

	// Updating an absent id is a no-op.
	assert.False(t, s.ApplyUpdated(tenant(99, "x", "X", "س", "2026-01-01")))
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.ApplyDeleted(1))
	assert.False(t, s.ApplyDeleted(1))
	assert.Equal(t, 1, s.Len())
}

func TestFilterFreeText(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Replace([]saas.Tenant{
		tenant(1, "acme", "Acme Cafe", "مقهى أكمي", "2026-01-01"),
		tenant(2, "beta", "Beta Restaurant", "مطعم بيتا", "2026-01-01"),
	})

	assert.Len(t, s.Filter(Query{Text: "acme", Now: now}), 1)
	assert.Len(t, s.Filter(Query{Text: "ACME", Now: now}), 1)
	assert.Len(t, s.Filter(Query{Text: "مطعم", Now: now}), 1)
	assert.Len(t, s.Filter(Query{Text: "", Now: now}), 2)
	assert.Len(t, s.Filter(Query{Text: "zeta", Now: now}), 0)
}

func TestFilterWildcard(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Replace([]saas.Tenant{
		tenant(1, "acme-ksa", "Acme KSA", "أكمي", "2026-01-01"),
		tenant(2, "acme-uae", "Acme UAE", "أكمي", "2026-01-01"),
		tenant(3, "beta", "Beta", "بيتا", "2026-01-01"),
	})

	assert.Len(t, s.Filter(Query{Text: "acme-*", Now: now}), 2)
	assert.Len(t, s.Filter(Query{Text: "*-uae", Now: now}), 1)
}

func TestFilterStatus(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Replace([]saas.Tenant{
		tenant(1, "live", "Live", "نشط", "2026-01-01"),
		tenant(2, "soon", "Soon", "قريبًا", "2025-06-30"), // expiring, still non-expired
		tenant(3, "gone", "Gone", "منتهي", "2025-01-01"),
	})

	active := s.Filter(Query{Status: FilterActive, Now: now})
	require.Len(t, active, 2)

	expired := s.Filter(Query{Status: FilterExpired, Now: now})
	require.Len(t, expired, 1)
	assert.Equal(t, 3, expired[0].ID)

	all := s.Filter(Query{Status: FilterAll, Now: now})
	assert.Len(t, all, 3)
}

func TestFilterUnparseableDates(t *testing.T) {
	t.Parallel()

	s := NewStore()
	broken := tenant(1, "broken", "Broken", "معطل", "not-a-date")
	s.Replace([]saas.Tenant{broken})

	assert.Len(t, s.Filter(Query{Status: FilterAll, Now: now}), 1)
	assert.Len(t, s.Filter(Query{Status: FilterActive, Now: now}), 0)
	assert.Len(t, s.Filter(Query{Status: FilterExpired, Now: now}), 0)
}

func TestCollectionLifecycle(t *testing.T) {
	t.Parallel()

	c := NewCollection(func(cur saas.Currency) int { return cur.ID })
	c.Replace(nil)
	assert.NotNil(t, c.All())

	c.ApplyCreated(saas.Currency{ID: 1, Code: "SAR", Name: "Saudi Riyal", Symbol: "ر.س"})
	c.ApplyCreated(saas.Currency{ID: 2, Code: "USD", Name: "US Dollar", Symbol: "$"})
	assert.Len(t, c.All(), 2)

	assert.True(t, c.ApplyUpdated(saas.Currency{ID: 2, Code: "USD", Name: "Dollar", Symbol: "$"}))
	assert.False(t, c.ApplyUpdated(saas.Currency{ID: 9}))

	assert.True(t, c.ApplyDeleted(1))
	require.Len(t, c.All(), 1)
	assert.Equal(t, "Dollar", c.All()[0].Name)
}
