package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/octabyte/yoga-studio/mockapi"
	"github.com/octabyte/yoga-studio/otel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) {
	t.Helper()
	mock, err := mockapi.New(mockapi.Config{Secret: "yogactl-test-secret-0123456789", PasswordCost: bcrypt.MinCost})
	require.NoError(t, err)
	server := httptest.NewServer(mock.Handler())
	t.Cleanup(server.Close)

	t.Setenv("YOGA_API_BASE_URL", server.URL)
	t.Setenv("YOGA_SESSION_STORE", "file")
	t.Setenv("YOGA_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("YOGA_LOG_LEVEL", "error")
}

func yogactl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := run(ctx, args, &stdout, &stderr)
	return stdout.String(), err
}

func TestSessionSurvivesInvocations(t *testing.T) {
	setup(t)

	out, err := yogactl(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not logged in\n", out)

	out, err = yogactl(t, "login", "-email", mockapi.AdminEmail, "-password", mockapi.AdminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Admin Admin (admin)")

	out, err = yogactl(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "yoga@studio.com"`)
	assert.NotContains(t, out, `"token": "ey`)

	out, err = yogactl(t, "create", "-name", "Morning flow", "-description", "Gentle start", "-date", "2024-03-01", "-teacher", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Morning flow"`)
	assert.Contains(t, out, `"date": "2024-03-01"`)

	_, err = yogactl(t, "participate", "1")
	require.NoError(t, err)

	out, err = yogactl(t, "session", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"users": [`)

	out, err = yogactl(t, "update", "1", "-name", "Sunrise flow", "-description", "Gentle start", "-date", "2024-03-02", "-teacher", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"teacher_id": 2`)

	out, err = yogactl(t, "teachers")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Margot DELAHAYE\n")

	_, err = yogactl(t, "unparticipate", "1")
	require.NoError(t, err)

	out, err = yogactl(t, "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "session 1 deleted\n", out)

	out, err = yogactl(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "logged out\n", out)

	_, err = yogactl(t, "sessions")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestRegisterAndDeleteAccount(t *testing.T) {
	setup(t)

	_, err := yogactl(t, "register", "-email", "jeanne@studio.com", "-first", "Jeanne", "-last", "Martin", "-password", "secret")
	require.NoError(t, err)

	_, err = yogactl(t, "register", "-email", "jeanne@studio.com", "-first", "Jeanne", "-last", "Martin", "-password", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email already taken")

	_, err = yogactl(t, "login", "-email", "jeanne@studio.com", "-password", "secret")
	require.NoError(t, err)

	out, err := yogactl(t, "delete-account")
	require.NoError(t, err)
	assert.Equal(t, "account deleted\n", out)

	out, err = yogactl(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not logged in\n", out)
}

func TestUsageErrors(t *testing.T) {
	setup(t)

	_, err := yogactl(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = yogactl(t, "dance")
	assert.ErrorIs(t, err, errUsage)

	_, err = yogactl(t, "session")
	assert.Error(t, err)

	_, err = yogactl(t, "participate", "1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not logged in"))

	_, err = yogactl(t, "create", "-name", "x")
	assert.Error(t, err)

	out, err := yogactl(t, "-version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestWatch(t *testing.T) {
	setup(t)
	_, err := yogactl(t, "login", "-email", mockapi.AdminEmail, "-password", mockapi.AdminPassword)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	var stdout bytes.Buffer
	require.NoError(t, run(ctx, []string{"watch", "-interval", "20ms"}, &stdout, &bytes.Buffer{}))
	assert.Contains(t, stdout.String(), "0 session(s)")
}

func TestNewAppRunsClosersOnTelemetryFailure(t *testing.T) {
	setup(t)

	synced := false
	previousInit, previousSync := initTelemetry, syncLogger
	initTelemetry = func(context.Context, otel.OtelConfig) (func(), error) {
		return nil, assert.AnError
	}
	syncLogger = func() { synced = true }
	t.Cleanup(func() { initTelemetry, syncLogger = previousInit, previousSync })

	a, err := newApp(context.Background(), "", &bytes.Buffer{})
	require.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, a)
	assert.True(t, synced)
}
