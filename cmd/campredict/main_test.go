package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

const testContent = "../../content"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--content", testContent, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

func TestPredictText(t *testing.T) {
	out, _, err := run(t, "predict",
		"--job", "capuche", "--distance", "13", "--zombies", "4",
		"--building", "Cave de la vieille tour", "--improvements", "3", "--od", "2",
		"--carry", "7.4", "--campers", "2", "--tent", "1", "--night", "--hood")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 18.0 / 18 (+3.6)")
	assert.Contains(t, out, "Survival: 90%")
	assert.Contains(t, out, "Defence: 11.0 / 11.2")
	assert.NotContains(t, out, "\033[")
}

func TestPredictJSON(t *testing.T) {
	out, _, err := run(t, "--json", "predict", "--distance", "5")
	require.NoError(t, err)

	var p camping.Prediction
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 11.0, p.Score.Raw)
	assert.Equal(t, 11.0, p.Score.Displayed)
	assert.Equal(t, -7.0, p.Score.Delta)
}

func TestPredictValidationFailure(t *testing.T) {
	_, errOut, err := run(t, "predict", "--distance", "40", "--od", "9")
	require.Error(t, err)
	assert.Equal(t, exitInvalidInput, exitCode(err))
	assert.Contains(t, errOut, "distance: Le nombre doit être compris entre 1 et 28")
	assert.Contains(t, errOut, "od: Le nombre doit être compris entre 0 et 6")
}

func TestPredictUnknownJob(t *testing.T) {
	_, _, err := run(t, "predict", "--job", "pilote")
	assert.Equal(t, exitInvalidInput, exitCode(err))
}

func TestPredictNoviceAtEightNights(t *testing.T) {
	_, _, err := run(t, "predict", "--nights", "8")
	assert.Equal(t, exitInvalidInput, exitCode(err))
	assert.ErrorContains(t, err, "novice")
}

func TestDefence(t *testing.T) {
	out, _, err := run(t, "defence", "--od", "2", "--improvements", "3", "--carry", "7.4")
	require.NoError(t, err)
	assert.Equal(t, "Defence: 11.0 / 11.2\n", out)
}

func TestDefenceNegativeIsNeutral(t *testing.T) {
	out, _, err := run(t, "--json", "defence", "--od", "-1")
	require.NoError(t, err)
	var d camping.Defence
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, camping.NeutralDefence(), d)
}

func TestBuildings(t *testing.T) {
	out, _, err := run(t, "buildings", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Buildings at 20 km:")
	assert.Contains(t, out, "Ville abandonnée")
	assert.NotContains(t, out, "Cave de la vieille tour")
}

func TestBuildingsOutOfRange(t *testing.T) {
	_, _, err := run(t, "buildings", "0")
	assert.Equal(t, exitInvalidInput, exitCode(err))
}

func TestTiersJSON(t *testing.T) {
	out, _, err := run(t, "--json", "tiers")
	require.NoError(t, err)
	var tiers []camping.Tier
	require.NoError(t, json.Unmarshal([]byte(out), &tiers))
	assert.Len(t, tiers, 8)
}

func TestMissingContent(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--content", t.TempDir(), "tiers"})
	err := cmd.Execute()
	assert.Equal(t, exitSetup, exitCode(err))
}

func TestPruneInterval(t *testing.T) {
	assert.Equal(t, time.Minute, pruneInterval(12*time.Hour))
	assert.Equal(t, 30*time.Second, pruneInterval(5*time.Minute))
	assert.Equal(t, time.Second, pruneInterval(time.Second))
}
