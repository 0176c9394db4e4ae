package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommand(t *testing.T) {
	for _, backend := range []string{"json", "sql"} {
		t.Run(backend, func(t *testing.T) {
			useTempStores(t, backend)

			out, err := executeCommand(t, "seed")
			require.NoError(t, err)
			assert.Contains(t, out, "Seeded 2 sample videos")

			out, err = executeCommand(t, "seed")
			require.NoError(t, err)
			assert.Contains(t, out, "nothing seeded")
		})
	}
}
