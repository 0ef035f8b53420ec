package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClientOptions(t *testing.T) {
	co := buildClientOptions(ClientConfig{
		URI:                    "mongodb://db.internal:27017",
		AppName:                "pricectl",
		MaxPoolSize:            8,
		ConnectTimeout:         2 * time.Second,
		ServerSelectionTimeout: 3 * time.Second,
	})

	require.NotNil(t, co.AppName)
	assert.Equal(t, "pricectl", *co.AppName)
	require.NotNil(t, co.MaxPoolSize)
	assert.Equal(t, uint64(8), *co.MaxPoolSize)
	assert.Nil(t, co.MinPoolSize)
	require.NotNil(t, co.ConnectTimeout)
	assert.Equal(t, 2*time.Second, *co.ConnectTimeout)
	require.NotNil(t, co.ServerSelectionTimeout)
	assert.Equal(t, 3*time.Second, *co.ServerSelectionTimeout)
	assert.Equal(t, []string{"db.internal:27017"}, co.Hosts)
}

func TestNewClientRequiresURIAndDatabase(t *testing.T) {
	_, err := NewClient(WithURI(""))
	assert.EqualError(t, err, "uri is required")

	_, err = NewClient(WithDatabase(""))
	assert.EqualError(t, err, "database is required")
}
