package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardkit/debitcard/api"
	"github.com/cardkit/debitcard/card"
	"github.com/cardkit/debitcard/driver/inmemory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	facade, err := card.NewFacade(inmemory.NewRepository(nil))
	require.NoError(t, err)

	server := httptest.NewServer(api.NewHandler(facade, zap.NewNop()).HTTPHandler())
	t.Cleanup(server.Close)

	return server
}

func createCard(t *testing.T, server *httptest.Server) string {
	t.Helper()

	res, err := http.Post(server.URL+"/", "application/json", nil)
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var body struct {
		CardID string `json:"card_id"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.NotEmpty(t, body.CardID)

	return body.CardID
}

func doPut(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))

	req, err := http.NewRequest(http.MethodPut, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = res.Body.Close()
	})

	return res
}

func decodeResult(t *testing.T, res *http.Response) (success bool, errMsg string) {
	t.Helper()

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	return body.Success, body.Error
}

func TestHandler_CreateAndView(t *testing.T) {
	server := newTestServer(t)

	cardID := createCard(t, server)

	res, err := http.Get(server.URL + "/" + cardID)
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var summary struct {
		CardID  string `json:"card_id"`
		Blocked bool   `json:"blocked"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&summary))
	assert.Equal(t, cardID, summary.CardID)
	assert.False(t, summary.Blocked)
}

func TestHandler_ViewUnknownCard(t *testing.T) {
	server := newTestServer(t)

	res, err := http.Get(server.URL + "/" + uuid.New().String())
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHandler_InvalidCardID(t *testing.T) {
	server := newTestServer(t)

	res, err := http.Get(server.URL + "/not-a-uuid")
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandler_ChargeFlow(t *testing.T) {
	server := newTestServer(t)
	cardID := createCard(t, server)
	cardURL := server.URL + "/" + cardID

	res := doPut(t, cardURL+"/limit", map[string]string{"limit": "100.00"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	success, _ := decodeResult(t, res)
	assert.True(t, success)

	res = doPut(t, cardURL+"/charge", map[string]string{
		"transaction_id": uuid.New().String(),
		"amount":         "40.00",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	success, _ = decodeResult(t, res)
	assert.True(t, success)

	// A charge beyond the remaining limit is refused
	res = doPut(t, cardURL+"/charge", map[string]string{
		"transaction_id": uuid.New().String(),
		"amount":         "70.00",
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	success, errMsg := decodeResult(t, res)
	assert.False(t, success)
	assert.Equal(t, card.ErrCannotCharge.Error(), errMsg)

	res = doPut(t, cardURL+"/pay-off", map[string]string{
		"transaction_id": uuid.New().String(),
		"amount":         "30.00",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	success, _ = decodeResult(t, res)
	assert.True(t, success)
}

func TestHandler_AssignLimitTwice(t *testing.T) {
	server := newTestServer(t)
	cardID := createCard(t, server)
	cardURL := server.URL + "/" + cardID

	res := doPut(t, cardURL+"/limit", map[string]string{"limit": "100.00"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = doPut(t, cardURL+"/limit", map[string]string{"limit": "500.00"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	success, errMsg := decodeResult(t, res)
	assert.False(t, success)
	assert.Equal(t, card.ErrLimitAlreadyAssigned.Error(), errMsg)
}

func TestHandler_BlockAndUnblock(t *testing.T) {
	server := newTestServer(t)
	cardID := createCard(t, server)
	cardURL := server.URL + "/" + cardID

	res := doPut(t, cardURL+"/block", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	success, _ := decodeResult(t, res)
	assert.True(t, success)

	res = doPut(t, cardURL+"/block", nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	success, errMsg := decodeResult(t, res)
	assert.False(t, success)
	assert.Equal(t, card.ErrCannotBlockCard.Error(), errMsg)

	res = doPut(t, cardURL+"/unblock", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	success, _ = decodeResult(t, res)
	assert.True(t, success)

	res = doPut(t, cardURL+"/unblock", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	success, _ = decodeResult(t, res)
	assert.True(t, success)
}

func TestHandler_CommandOnUnknownCard(t *testing.T) {
	server := newTestServer(t)

	res := doPut(t, server.URL+"/"+uuid.New().String()+"/block", nil)

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
