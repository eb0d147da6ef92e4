package camping_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/campredict/internal/game/camping"
	"github.com/cory-johannsen/campredict/internal/game/ruleset"
)

func loadTables(t testing.TB) *camping.Tables {
	t.Helper()
	tables, _, err := ruleset.Load("../../../content")
	require.NoError(t, err)
	return tables
}

// neutralInput contributes nothing except the distance bonus.
func neutralInput(distance int) camping.Input {
	in := camping.DefaultInput()
	in.Distance = distance
	return in
}
