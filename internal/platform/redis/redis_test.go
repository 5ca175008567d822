package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_RejectsEmptyAddress(t *testing.T) {
	client, err := Connect(context.Background(), Options{Addr: "  "})
	assert.Error(t, err)
	assert.Nil(t, client)
}
