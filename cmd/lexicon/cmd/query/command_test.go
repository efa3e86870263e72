package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/internal/cmd/cmdtest"
)

func TestQuery(t *testing.T) {
	f := cmdtest.New(t)

	out, err := cmdtest.Run(t, NewCommand(f.App), "en", "$.greeting")
	require.NoError(t, err)
	assert.JSONEq(t, `["Hello"]`, out)

	out, err = cmdtest.Run(t, NewCommand(f.App), "de", "$.*")
	require.NoError(t, err)
	var values []string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.ElementsMatch(t, []string{"Hallo", "Tschüss", "Lexikon", "alt"}, values)

	out, err = cmdtest.Run(t, NewCommand(f.App), "fr", "$.farewell")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestQueryErrors(t *testing.T) {
	f := cmdtest.New(t)

	_, err := cmdtest.Run(t, NewCommand(f.App), "en", "$[")
	assert.Error(t, err)

	_, err = cmdtest.Run(t, NewCommand(f.App), "en")
	assert.Error(t, err)
}
