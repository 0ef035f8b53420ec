package repository

import (
	"context"
	"errors"
	"testing"

	domrepo "StockAccess/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", context.DeadlineExceeded, domrepo.ErrConnection},
		{"disconnected", mongo.ErrClientDisconnected, domrepo.ErrConnection},
		{"network label", mongo.CommandError{Code: 6, Labels: []string{"NetworkError"}}, domrepo.ErrConnection},
		{"bad value", mongo.CommandError{Code: 2, Name: "BadValue", Message: "bad filter"}, domrepo.ErrQuery},
		{"decode", errors.New("cannot decode string into a float64"), domrepo.ErrQuery},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := classify("fetch_batch", c.err)
			assert.ErrorIs(t, got, c.want)
			assert.ErrorIs(t, got, c.err)
		})
	}
}

func TestClassifyKeepsDomainErrors(t *testing.T) {
	assert.Nil(t, classify("op", nil))
	err := classify("op", domrepo.ErrQuery)
	assert.Same(t, domrepo.ErrQuery, err)
	assert.Equal(t, "query", kindLabel(err))
	assert.Equal(t, "other", kindLabel(errors.New("x")))
}

func TestDayRange(t *testing.T) {
	cases := []struct {
		start, end string
		lo, hi     string
	}{
		{"20251101", "20251130", "20251101", "20251130"},
		{"202511010000", "202511302359", "20251101", "20251130"},
		{"202511010930", "202511301500", "20251102", "20251130"},
		{"202511010930", "202511011500", "20251102", "20251101"},
	}
	for _, c := range cases {
		lo, hi, err := dayRange(c.start, c.end)
		assert.NoError(t, err, "%s..%s", c.start, c.end)
		assert.Equal(t, c.lo, lo, "%s..%s", c.start, c.end)
		assert.Equal(t, c.hi, hi, "%s..%s", c.start, c.end)
	}

	for _, c := range [][2]string{
		{"202511011500", "202511010930"},
		{"20251102", "20251101"},
		{"2025-11-01", "20251130"},
	} {
		_, _, err := dayRange(c[0], c[1])
		assert.ErrorIs(t, err, domrepo.ErrQuery, "%v", c)
	}
}
