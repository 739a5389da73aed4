package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBeforeConnect(t *testing.T) {
	Close()

	assert.Nil(t, Pool())
	assert.Nil(t, Stats())
	assert.Error(t, Status(context.Background()))
	assert.Zero(t, statValue(nil))
}

func TestConnectRejectsBadURL(t *testing.T) {
	err := Connect(context.Background(), Options{URL: "://not-a-url"})
	require.Error(t, err)
	assert.Nil(t, Pool())
}
