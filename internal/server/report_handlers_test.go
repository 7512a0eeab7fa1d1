package server

import (
	"net/http"
	"testing"

	"holyguitars/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	_, app, _ := newTestServer(t)
	alice := registerUser(t, app, "alice", "Alice")
	bob := registerUser(t, app, "bob", "Bob")
	postID := createTestPost(t, app, alice, "suspect")

	resp := doJSON(t, app, http.MethodPost, "/api/reports", bob, fiber.Map{
		"targetType": models.ReportTargetPost,
		"targetId":   postID,
		"reason":     "spam",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Report submitted", body["message"])
	report, ok := body["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bob", report["reporterId"])
	assert.Equal(t, models.ReportStatusPending, report["status"])

	// The reported post's counter moved.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	postBody := decodeBody(t, resp)
	assert.Equal(t, float64(1), postBody["reportCount"])
}

func TestCreateReport_DuplicateConflicts(t *testing.T) {
	_, app, _ := newTestServer(t)
	alice := registerUser(t, app, "alice", "Alice")
	bob := registerUser(t, app, "bob", "Bob")
	carol := registerUser(t, app, "carol", "Carol")
	postID := createTestPost(t, app, alice, "suspect")

	payload := fiber.Map{
		"targetType": models.ReportTargetPost,
		"targetId":   postID,
		"reason":     "spam",
	}

	resp := doJSON(t, app, http.MethodPost, "/api/reports", bob, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/reports", bob, payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// A different reporter still goes through.
	resp = doJSON(t, app, http.MethodPost, "/api/reports", carol, payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateReport_Validation(t *testing.T) {
	_, app, _ := newTestServer(t)
	alice := registerUser(t, app, "alice", "Alice")
	registerUser(t, app, "bob", "Bob")
	postID := createTestPost(t, app, alice, "suspect")

	t.Run("self report rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/reports", alice, fiber.Map{
			"targetType": models.ReportTargetPost,
			"targetId":   postID,
			"reason":     "spam",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("unknown target type", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/reports", alice, fiber.Map{
			"targetType": "playlist",
			"targetId":   "x",
			"reason":     "spam",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("reason invalid for target", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/reports", alice, fiber.Map{
			"targetType": models.ReportTargetUser,
			"targetId":   "bob",
			"reason":     "copyright",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("missing target", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/reports", alice, fiber.Map{
			"targetType": models.ReportTargetPost,
			"targetId":   "nope",
			"reason":     "spam",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestBlocks(t *testing.T) {
	_, app, _ := newTestServer(t)
	alice := registerUser(t, app, "alice", "Alice")
	registerUser(t, app, "bob", "Bob")

	resp := doJSON(t, app, http.MethodPost, "/api/blocks/bob", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/blocks/", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	ids, ok := body["blockedUserIds"].([]any)
	require.True(t, ok)
	require.Len(t, ids, 1)
	assert.Equal(t, "bob", ids[0])

	resp = doJSON(t, app, http.MethodDelete, "/api/blocks/bob", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/blocks/", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	ids, ok = body["blockedUserIds"].([]any)
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestBlocks_SelfBlockRejected(t *testing.T) {
	_, app, _ := newTestServer(t)
	alice := registerUser(t, app, "alice", "Alice")

	resp := doJSON(t, app, http.MethodPost, "/api/blocks/alice", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
