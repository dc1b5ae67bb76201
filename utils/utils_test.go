package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"similarimages/types"
)

func TestParseArguments(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"similarimages", "find", "--path=/photos", "--sensitivity", "6", "--debug"}

	args := ParseArguments()
	assert.Equal(t, "find", args["command"])
	assert.Equal(t, "/photos", args["path"])
	assert.Equal(t, "6", args["sensitivity"])
	assert.Equal(t, "true", args["debug"])
}

func TestParseArgumentsWithoutCommand(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"similarimages", "--path=/photos"}

	args := ParseArguments()
	_, hasCommand := args["command"]
	assert.False(t, hasCommand)
}

func TestParseSensitivity(t *testing.T) {
	v, err := ParseSensitivity("4")
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = ParseSensitivity("0")
	require.NoError(t, err)
	assert.Zero(t, v)

	var cfgErr *types.ConfigurationError
	_, err = ParseSensitivity("-1")
	assert.ErrorAs(t, err, &cfgErr)
	_, err = ParseSensitivity("11")
	assert.ErrorAs(t, err, &cfgErr)
	_, err = ParseSensitivity("high")
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseHashSize(t *testing.T) {
	v, err := ParseHashSize("8")
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	var cfgErr *types.ConfigurationError
	_, err = ParseHashSize("1")
	assert.ErrorAs(t, err, &cfgErr)
	_, err = ParseHashSize("big")
	assert.ErrorAs(t, err, &cfgErr)
}
