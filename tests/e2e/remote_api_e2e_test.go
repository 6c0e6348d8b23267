//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRemoteAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	playerID := envOr("E2E_PLAYER_ID", "local-player")
	client := &http.Client{Timeout: 20 * time.Second}

	t.Run("state requires player header", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/player/state", "", map[string]any{})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", status, string(body))
		}
	})

	t.Run("state action replay ops", func(t *testing.T) {
		status, stateBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/player/state", playerID, map[string]any{})
		if status != http.StatusOK {
			t.Fatalf("state status=%d body=%s", status, string(stateBody))
		}
		var state map[string]any
		if err := json.Unmarshal(stateBody, &state); err != nil {
			t.Fatalf("unmarshal state: %v body=%s", err, string(stateBody))
		}
		scene := asMap(state["scene"])
		if len(asSlice(scene["terrainGrid"])) == 0 {
			t.Fatalf("expected terrainGrid in scene, got=%v", scene)
		}

		actionReq := map[string]any{"type": "move", "dx": 4}
		status, actionBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/player/action", playerID, actionReq)
		if status != http.StatusOK {
			t.Fatalf("action status=%d body=%s", status, string(actionBody))
		}
		var action map[string]any
		if err := json.Unmarshal(actionBody, &action); err != nil {
			t.Fatalf("unmarshal action: %v body=%s", err, string(actionBody))
		}
		result, _ := action["result"].(string)
		if result != "ok" && result != "blocked" && result != "transitioned" {
			t.Fatalf("unexpected action result %q body=%s", result, string(actionBody))
		}

		replayURL := baseURL + "/api/player/replay?limit=20"
		status, replayBody, err := doRequest(client, http.MethodGet, replayURL, playerID, nil)
		if err != nil {
			t.Fatalf("replay request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("replay status=%d body=%s", status, string(replayBody))
		}
		var rep map[string]any
		if err := json.Unmarshal(replayBody, &rep); err != nil {
			t.Fatalf("unmarshal replay: %v body=%s", err, string(replayBody))
		}
		if _, ok := rep["events"]; !ok {
			t.Fatalf("expected events in replay response, got=%s", string(replayBody))
		}

		status, kpiBody, err := doRequest(client, http.MethodGet, baseURL+"/ops/kpi", "", nil)
		if err != nil {
			t.Fatalf("kpi request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(kpiBody))
		}
		var kpi map[string]any
		if err := json.Unmarshal(kpiBody, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v body=%s", err, string(kpiBody))
		}
		if _, ok := kpi["scenes_created"]; !ok {
			t.Fatalf("expected scenes_created in kpi response, got=%s", string(kpiBody))
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url, playerID string, body map[string]any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, playerID, body)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url, playerID string, body map[string]any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if strings.TrimSpace(playerID) != "" {
			req.Header.Set("X-Player-ID", playerID)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
