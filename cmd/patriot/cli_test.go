package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/db"
	"github.com/urmzd/patriot/pkg/photon"
)

func TestParsePercent(t *testing.T) {
	p, err := parsePercent("75")
	require.NoError(t, err)
	assert.Equal(t, 75, p)

	_, err = parsePercent("150")
	assert.ErrorIs(t, err, activity.ErrInvalidPercent)

	_, err = parsePercent("on")
	assert.Error(t, err)
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	percent := 40

	assert.Equal(t, "15:04:05 activity_changed led=40",
		formatEvent(photon.Event{Type: photon.EventActivityChanged, Name: "led", Percent: &percent, Timestamp: ts}))
	assert.Equal(t, "15:04:05 supported_changed fan,led",
		formatEvent(photon.Event{Type: photon.EventSupportedChanged, Names: []string{"fan", "led"}, Timestamp: ts}))
	assert.Equal(t, "15:04:05 device_found panel",
		formatEvent(photon.Event{Type: photon.EventDeviceFound, Name: "panel", Timestamp: ts}))
}

func TestWriteActivities(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeActivities(&buf, []activity.Activity{
		{Name: "fan", Command: "fan", Percent: 0},
		{Name: "ronslight", Command: "ronscouch", Percent: 100},
	}))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "ronscouch")
	assert.Contains(t, out, "100")
}

func TestSendRequiresArgs(t *testing.T) {
	assert.Error(t, sendCmd.Args(sendCmd, []string{"led"}))
	assert.NoError(t, sendCmd.Args(sendCmd, []string{"led", "10"}))
}

func TestForgetCredentials(t *testing.T) {
	ctx := context.Background()
	database, err := db.Setup(ctx, filepath.Join(t.TempDir(), "patriot.db"))
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	cfg, err := database.ActiveConfig(ctx)
	require.NoError(t, err)
	require.NoError(t, database.Accounts().SetCredentials(ctx, cfg.Profile.ID, "ron@example.com", "secret"))

	require.NoError(t, forgetCredentials(ctx, database))

	cfg, err = database.ActiveConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg.Account)
	assert.False(t, cfg.Account.HasCredentials())
	assert.Equal(t, db.DefaultAPIURL, cfg.APIURL())
}
