package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ballotbox/internal/auth"
	"ballotbox/internal/codes"
	"ballotbox/internal/middleware"
	"ballotbox/internal/repository/memory"
	"ballotbox/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer wires the full HTTP surface against the in-memory
// repositories, mirroring the production router.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()

	assigner := codes.NewAssigner(map[codes.Kind]codes.ExistsFunc{
		codes.KindVoter:         repos.Voters.CodeExists,
		codes.KindPoll:          repos.Polls.CodeExists,
		codes.KindOption:        repos.Polls.OptionCodeExists,
		codes.KindParticipation: repos.Participations.CodeExists,
		codes.KindVote:          repos.Votes.CodeExists,
	})

	log := zap.NewNop()
	tokens, err := auth.NewTokenManager("handler-test-secret", time.Hour)
	require.NoError(t, err)

	cache := service.NewCacheService(nil, log)
	pollService := service.NewPollService(repos, assigner, cache, log)
	participationService := service.NewParticipationService(repos, assigner, log)
	voteService := service.NewVoteService(repos, assigner, cache, log)
	voterService := service.NewVoterService(repos, assigner, tokens, log)

	pollHandler := NewPollHandler(pollService, log)
	participationHandler := NewParticipationHandler(participationService, log)
	voteHandler := NewVoteHandler(voteService, log)
	voterHandler := NewVoterHandler(voterService, log)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/voters", voterHandler.Register)
		r.Post("/voters/login", voterHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens, repos.Voters, log))

			r.Get("/voters/{voterCode}", voterHandler.Get)
			r.Route("/polls", func(r chi.Router) {
				r.Post("/", pollHandler.Create)
				r.Get("/", pollHandler.List)
				r.Get("/{pollCode}", pollHandler.Get)
				r.Post("/{pollCode}/participations", participationHandler.Invite)
				r.Post("/{pollCode}/votes", voteHandler.Cast)
			})
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/voters", "", map[string]string{
		"email":    username + "@example.com",
		"username": username,
		"password": "a long password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/voters/login", "", map[string]string{
		"username": username,
		"password": "a long password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createPoll(t *testing.T, srv *httptest.Server, token, visibility string) map[string]interface{} {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/", token, map[string]interface{}{
		"visibility": visibility,
		"mode":       "Single",
		"question":   "Which option wins?",
		"options":    []string{"First", "Second"},
		"expiration": 7,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["data"].(map[string]interface{})
}

func TestRegisterLoginCreateAndVote(t *testing.T) {
	srv := newTestServer(t)

	creatorToken := registerAndLogin(t, srv, "creator1")
	voterToken := registerAndLogin(t, srv, "voter001")

	poll := createPoll(t, srv, creatorToken, "Public")
	pollCode := poll["id"].(string)
	options := poll["options"].([]interface{})
	firstOption := options[0].(map[string]interface{})["id"].(string)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/"+pollCode+"/votes", voterToken, map[string]interface{}{
		"options": []string{firstOption},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	vote := body["data"].(map[string]interface{})
	assert.Equal(t, pollCode, vote["poll"])

	// Tally is visible on the next fetch.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/polls/"+pollCode, voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := body["data"].(map[string]interface{})
	gotOptions := got["options"].([]interface{})
	assert.Equal(t, float64(1), gotOptions[0].(map[string]interface{})["votes"])
	assert.Equal(t, float64(0), gotOptions[1].(map[string]interface{})["votes"])
}

func TestStatusCodeMapping(t *testing.T) {
	srv := newTestServer(t)

	creatorToken := registerAndLogin(t, srv, "creator1")
	outsiderToken := registerAndLogin(t, srv, "outside1")

	private := createPoll(t, srv, creatorToken, "Private")
	pollCode := private["id"].(string)
	options := private["options"].([]interface{})
	firstOption := options[0].(map[string]interface{})["id"].(string)

	t.Run("401 without token", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/polls/"+pollCode, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("403 private poll without participation", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/"+pollCode+"/votes", outsiderToken, map[string]interface{}{
			"options": []string{firstOption},
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("404 unknown poll", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/polls/zzzzz", creatorToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("409 duplicate vote", func(t *testing.T) {
		vote := map[string]interface{}{"options": []string{firstOption}}
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/"+pollCode+"/votes", creatorToken, vote)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/"+pollCode+"/votes", creatorToken, vote)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		errBody := body["error"].(map[string]interface{})
		assert.Equal(t, "conflict", errBody["type"])
	})

	t.Run("409 duplicate invite", func(t *testing.T) {
		invite := map[string]string{"username": "outside1"}
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/"+pollCode+"/participations", creatorToken, invite)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/"+pollCode+"/participations", creatorToken, invite)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("422 validation failure", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/polls/", creatorToken, map[string]interface{}{
			"visibility": "Public",
			"mode":       "Single",
			"question":   "nope",
			"options":    []string{"First", "Second"},
			"expiration": 7,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("422 oversized page", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/polls/?scope=public&size=101", creatorToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestListPollsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "creator1")

	for i := 0; i < 3; i++ {
		createPoll(t, srv, token, "Public")
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/polls/?scope=public&page=0&size=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), page["totalCount"])
	assert.Len(t, page["polls"].([]interface{}), 2)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/polls/?scope=created", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), page["totalCount"])
}

func TestVoterEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "lookup01")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/voters/login", "", map[string]string{
		"username": "lookup01",
		"password": "a long password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	voterCode := body["data"].(map[string]interface{})["voter"].(map[string]interface{})["id"].(string)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/voters/"+voterCode, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "lookup01", body["data"].(map[string]interface{})["username"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/voters/zzzzz", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/voters/login", "", map[string]string{
		"username": "lookup01",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
