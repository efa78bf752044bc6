package srv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_ReverseOrderAndContinuesOnError(t *testing.T) {
	var order []string
	services := []Service{
		NewCleanup(func() error { order = append(order, "db"); return nil }),
		NewCleanup(func() error { order = append(order, "cache"); return errors.New("boom") }),
		NewCleanup(func() error { order = append(order, "tokenizer"); return nil }),
		NewCleanup(nil),
	}

	require.NoError(t, StartServices(context.Background(), services))
	Shutdown(context.Background(), services)

	assert.Equal(t, []string{"tokenizer", "cache", "db"}, order)
}
