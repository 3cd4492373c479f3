//go:build integration

package integration

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_LoginAndPing(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("login")
	require.NoError(t, err, "Failed to log in: %s", stderr)
	assert.Contains(t, stdout, "Successfully logged in")

	stdout, stderr, err = runner.Run("ping")
	require.NoError(t, err, "Failed to ping: %s", stderr)
	assert.Contains(t, stdout, "OK")

	stdout, stderr, err = runner.Run("logout")
	require.NoError(t, err, "Failed to log out: %s", stderr)
	assert.Contains(t, stdout, "Successfully logged out")
}

func TestWorkflow_OrgLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	// 1. The admin's own org is the parent of the test org
	stdout, stderr, err := runner.Run("orgs", "get", "--output", "json")
	require.NoError(t, err, "Failed to get own org: %s", stderr)
	AssertJSONOutput(t, stdout)

	var parent struct {
		ID int64 `json:"id"`
	}

	require.NoError(t, json.Unmarshal([]byte(stdout), &parent))

	// 2. Create
	orgName := GenerateTestName("integration-org")
	stdout, stderr, err = runner.Run("orgs", "create",
		"--name", orgName,
		"--parent-id", strconv.FormatInt(parent.ID, 10),
		"--output", "json")
	require.NoError(t, err, "Failed to create org: %s", stderr)

	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	require.NoError(t, json.Unmarshal([]byte(stdout), &created))
	assert.Equal(t, orgName, created.Name)

	orgID := strconv.FormatInt(created.ID, 10)

	// 3. Find by name
	stdout, stderr, err = runner.Run("orgs", "find", orgName)
	require.NoError(t, err, "Failed to find org: %s", stderr)
	assert.Contains(t, stdout, orgName)

	// 4. Block and unblock
	_, stderr, err = runner.Run("orgs", "block", orgID)
	require.NoError(t, err, "Failed to block org: %s", stderr)

	_, stderr, err = runner.Run("orgs", "unblock", orgID)
	require.NoError(t, err, "Failed to unblock org: %s", stderr)

	// 5. Deactivate, find among inactive orgs, reactivate
	_, stderr, err = runner.Run("orgs", "deactivate", orgID)
	require.NoError(t, err, "Failed to deactivate org: %s", stderr)

	stdout, stderr, err = runner.Run("orgs", "find", orgName, "--inactive")
	require.NoError(t, err, "Failed to find inactive org: %s", stderr)
	assert.Contains(t, stdout, orgID)

	_, stderr, err = runner.Run("orgs", "activate", orgID)
	require.NoError(t, err, "Failed to activate org: %s", stderr)

	// 6. Leave the org deactivated
	_, stderr, err = runner.Run("orgs", "deactivate", orgID)
	require.NoError(t, err, "Failed to clean up org: %s", stderr)
}

func TestWorkflow_Roles(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("roles", "list", "--output", "json")
	require.NoError(t, err, "Failed to list roles: %s", stderr)
	AssertJSONOutput(t, stdout)

	stdout, stderr, err = runner.Run("roles", "list", "--output", "yaml")
	require.NoError(t, err, "Failed to list roles as YAML: %s", stderr)
	assert.NotEmpty(t, stdout)
}
