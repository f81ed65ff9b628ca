package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(n int) string { return strconv.Itoa(n) }

func TestHealthCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthRequired(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", "", map[string]string{
		"body": "hello",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMalformedHeader(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/communities/c1/config", nil)
	req.Header.Set("Authorization", "NotBearer something")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthBadSignature(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/communities/c1/config",
		"eyJhbGciOiJIUzI1NiJ9.e30.invalid", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConfigOwnershipClaim(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := signToken(t, "owner-1")

	resp := doJSON(t, app, http.MethodPut, "/api/communities/c1/config", owner, map[string]any{
		"submission_channel": "general",
		"quorum_threshold":   2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg map[string]any
	decodeBody(t, resp, &cfg)
	assert.Equal(t, "general", cfg["submission_channel"])
	assert.Equal(t, float64(2), cfg["quorum_threshold"])

	// the claimant can read the config back
	resp = doJSON(t, app, http.MethodGet, "/api/communities/c1/config", owner, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// a non-moderator can neither read nor update afterwards
	stranger := signToken(t, "stranger")
	resp = doJSON(t, app, http.MethodGet, "/api/communities/c1/config", stranger, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/communities/c1/config", stranger, map[string]any{
		"submission_channel": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConfigRejectsBadQuorum(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := signToken(t, "owner-1")

	resp := doJSON(t, app, http.MethodPut, "/api/communities/c1/config", owner, map[string]any{
		"quorum_threshold": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func configureCommunity(t *testing.T, app *fiber.App, extra map[string]any) string {
	t.Helper()
	owner := signToken(t, "owner-1")
	body := map[string]any{
		"submission_channel": "general",
	}
	for k, v := range extra {
		body[k] = v
	}
	resp := doJSON(t, app, http.MethodPut, "/api/communities/c1/config", owner, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return owner
}

func TestSubmitNotConfigured(t *testing.T) {
	app, _ := setupTestApp(t)
	token := signToken(t, "user-1")

	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", token, map[string]string{
		"body": "hello",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSubmitCreated(t *testing.T) {
	app, _ := setupTestApp(t)
	configureCommunity(t, app, nil)

	token := signToken(t, "user-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", token, map[string]string{
		"body": "an anonymous thought",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var sub map[string]any
	decodeBody(t, resp, &sub)
	assert.Equal(t, "an anonymous thought", sub["body"])
	// the author's identity never appears in the response
	assert.NotContains(t, sub, "pseudonym")
	assert.NotContains(t, sub, "audit_token")
}

func TestSubmitEmptyBody(t *testing.T) {
	app, _ := setupTestApp(t)
	configureCommunity(t, app, nil)

	token := signToken(t, "user-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", token, map[string]string{
		"body": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitCooldownTooManyRequests(t *testing.T) {
	app, _ := setupTestApp(t)
	configureCommunity(t, app, map[string]any{"cooldown_seconds": 60})

	token := signToken(t, "user-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", token, map[string]string{
		"body": "first",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", token, map[string]string{
		"body": "second",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.NotZero(t, body["retry_after_seconds"])
}

func TestSelfRetract(t *testing.T) {
	app, _ := setupTestApp(t)
	configureCommunity(t, app, nil)

	token := signToken(t, "user-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", token, map[string]string{
		"body": "regret this",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/communities/c1/submissions/retract", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// nothing left to retract
	resp = doJSON(t, app, http.MethodDelete, "/api/communities/c1/submissions/retract", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVoteRetractionFlow(t *testing.T) {
	app, _ := setupTestApp(t)
	configureCommunity(t, app, map[string]any{
		"quorum_threshold": 2,
		"audit_channel":    "audit",
	})

	author := signToken(t, "author-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "contested",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sub map[string]any
	decodeBody(t, resp, &sub)
	sid := int(sub["id"].(float64))

	vote := func(handle string) map[string]any {
		token := signToken(t, handle)
		resp := doJSON(t, app, http.MethodPost,
			"/api/communities/c1/submissions/"+itoa(sid)+"/votes", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var res map[string]any
		decodeBody(t, resp, &res)
		return res
	}

	res := vote("voter-1")
	assert.Equal(t, false, res["retracted"])
	res = vote("voter-2")
	assert.Equal(t, false, res["retracted"])

	res = vote("voter-3")
	assert.Equal(t, true, res["retracted"])
	// the audit token goes to the audit channel, never back to the voter
	assert.NotContains(t, res, "audit_token")

	// the submission is gone
	token := signToken(t, "voter-4")
	resp = doJSON(t, app, http.MethodPost,
		"/api/communities/c1/submissions/"+itoa(sid)+"/votes", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMuteFlow(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := configureCommunity(t, app, nil)

	author := signToken(t, "author-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "rule-breaking",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sub map[string]any
	decodeBody(t, resp, &sub)
	sid := int(sub["id"].(float64))

	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/moderation/mute", owner, map[string]any{
		"submission_id": sid,
		"severity":      1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var res map[string]any
	decodeBody(t, resp, &res)
	assert.NotEmpty(t, res["pseudonym"])
	assert.NotEmpty(t, res["until"])

	// the muted author is now restricted from submitting
	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "again",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// lifting the restriction by handle restores access
	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/moderation/unmute", owner, map[string]any{
		"handle": "author-1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "back",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestMuteRequiresModerator(t *testing.T) {
	app, _ := setupTestApp(t)
	configureCommunity(t, app, nil)

	stranger := signToken(t, "stranger")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/moderation/mute", stranger, map[string]any{
		"submission_id": 1,
		"severity":      1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMuteByTokenBadToken(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := configureCommunity(t, app, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/moderation/mute-token", owner, map[string]any{
		"token":    "garbage",
		"severity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMuteByTokenRestrictsAuthor(t *testing.T) {
	app, srv := setupTestApp(t)
	owner := configureCommunity(t, app, nil)

	// mint a token the way the engine does at submit time
	auditToken, err := srv.engine.Codec().Encode("author-1", 42, "c1")
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/moderation/mute-token", owner, map[string]any{
		"token":    auditToken,
		"severity": 2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	author := signToken(t, "author-1")
	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "blocked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestModeratorRemoveSubmission(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := configureCommunity(t, app, nil)

	author := signToken(t, "author-1")
	resp := doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "off topic",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sub map[string]any
	decodeBody(t, resp, &sub)
	sid := int(sub["id"].(float64))

	resp = doJSON(t, app, http.MethodDelete, "/api/communities/c1/moderation/submissions/"+itoa(sid), owner, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// removal does not restrict the author
	resp = doJSON(t, app, http.MethodPost, "/api/communities/c1/submissions", author, map[string]string{
		"body": "still allowed",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
