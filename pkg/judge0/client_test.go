package judge0

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:      url,
		APIKey:       "test-key",
		APIHost:      "engine.test",
		PollInterval: 5 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
}

func TestSubmitBatchPreservesOrder(t *testing.T) {
	var received batchCreatePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		require.Equal(t, "engine.test", r.Header.Get("X-RapidAPI-Host"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		tokens := make([]tokenEnvelope, len(received.Submissions))
		for i := range tokens {
			tokens[i] = tokenEnvelope{Token: fmt.Sprintf("tok-%d", i)}
		}
		require.NoError(t, json.NewEncoder(w).Encode(tokens))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	requests := []SubmissionRequest{
		{SourceCode: "a", LanguageID: 54, Stdin: "1", ExpectedOutput: "1"},
		{SourceCode: "a", LanguageID: 54, Stdin: "2", ExpectedOutput: "4"},
		{SourceCode: "a", LanguageID: 54, Stdin: "3", ExpectedOutput: "9"},
	}

	tokens, err := client.SubmitBatch(context.Background(), requests)
	require.NoError(t, err)
	require.Equal(t, []string{"tok-0", "tok-1", "tok-2"}, tokens)
	require.Len(t, received.Submissions, 3)
	require.Equal(t, "2", received.Submissions[1].Stdin)
}

func TestSubmitBatchRejectsEmptyBatch(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.SubmitBatch(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
	require.Zero(t, calls.Load())
}

func TestSubmitBatchWrapsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.SubmitBatch(context.Background(), []SubmissionRequest{{SourceCode: "a", LanguageID: 54}})
	require.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestSubmitBatchRejectsTokenCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]tokenEnvelope{{Token: "only-one"}}))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.SubmitBatch(context.Background(), []SubmissionRequest{
		{SourceCode: "a", LanguageID: 54},
		{SourceCode: "a", LanguageID: 54},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tokens")
}

func TestAwaitResultsWaitsForTerminalStates(t *testing.T) {
	const pendingPolls = 3

	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok-0,tok-1", r.URL.Query().Get("tokens"))

		poll := polls.Add(1)
		statusID := StatusProcessing
		if poll > pendingPolls {
			statusID = StatusAccepted
		}

		envelope := batchResultsEnvelope{Submissions: []SubmissionResult{
			{Token: "tok-0", StatusID: statusID, Status: Status{ID: statusID, Description: "Accepted"}, Time: "0.1", Memory: 1000},
			{Token: "tok-1", StatusID: statusID, Status: Status{ID: statusID, Description: "Accepted"}, Time: "0.2", Memory: 1200},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(envelope))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	results, err := client.AwaitResults(context.Background(), []string{"tok-0", "tok-1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "tok-0", results[0].Token)
	require.Equal(t, "tok-1", results[1].Token)
	require.Equal(t, int32(pendingPolls+1), polls.Load(), "poller must not return before every token is terminal")
}

func TestAwaitResultsTreatsMalformedPayloadAsNotReady(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) == 1 {
			_, _ = w.Write([]byte("{not json"))
			return
		}
		envelope := batchResultsEnvelope{Submissions: []SubmissionResult{
			{Token: "tok-0", StatusID: StatusAccepted, Status: Status{ID: StatusAccepted, Description: "Accepted"}},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(envelope))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	results, err := client.AwaitResults(context.Background(), []string{"tok-0"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.GreaterOrEqual(t, polls.Load(), int32(2))
}

func TestAwaitResultsHonorsDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope := batchResultsEnvelope{Submissions: []SubmissionResult{
			{Token: "tok-0", StatusID: StatusProcessing, Status: Status{ID: StatusProcessing, Description: "Processing"}},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(envelope))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.AwaitResults(ctx, []string{"tok-0"})
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}
