package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

var baseURL = envOr("ARMORY_BASE_URL", "http://localhost:3000/api")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, *envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp, nil, err
	}
	return resp, &env, nil
}

func must(step string, resp *http.Response, env *envelope, err error) *envelope {
	if err != nil {
		color.Red("%s failed: %v", step, err)
		os.Exit(1)
	}
	if !env.Success {
		color.Red("%s failed: %s %s", step, resp.Status, env.Message)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	return env
}

type view struct {
	SelectedId     string `json:"selectedId"`
	InsightText    string `json:"insightText"`
	InsightLoading bool   `json:"insightLoading"`
}

func main() {
	color.Cyan("En Garde Armory smoke test against %s\n", baseURL)

	color.Yellow("\n1. Health")
	resp, env, err := sendRequest("GET", "/health", "", nil)
	must("health", resp, env, err)

	color.Yellow("\n2. List equipment")
	resp, env, err = sendRequest("GET", "/equipment", "", nil)
	env = must("list", resp, env, err)
	var items []map[string]interface{}
	json.Unmarshal(env.Data, &items)
	for _, it := range items {
		fmt.Printf("  - %v (%v)\n", it["name"], it["id"])
	}

	color.Yellow("\n3. Start session")
	resp, env, err = sendRequest("POST", "/sessions", "", nil)
	env = must("start session", resp, env, err)
	var session struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &session)

	color.Yellow("\n4. Select sabre-01")
	resp, env, err = sendRequest("POST", "/sessions/me/select", session.Token, map[string]string{"equipment_id": "sabre-01"})
	must("select", resp, env, err)

	color.Yellow("\n5. Request insight")
	resp, env, err = sendRequest("POST", "/sessions/me/insight", session.Token, nil)
	must("insight", resp, env, err)

	color.Yellow("\n6. Poll until the insight lands")
	deadline := time.Now().Add(45 * time.Second)
	for {
		resp, env, err = sendRequest("GET", "/sessions/me", session.Token, nil)
		env = must("poll", resp, env, err)

		var v view
		json.Unmarshal(env.Data, &v)
		if !v.InsightLoading {
			prettyPrint(v)
			break
		}
		if time.Now().After(deadline) {
			color.Red("insight still loading after 45s")
			os.Exit(1)
		}
		time.Sleep(time.Second)
	}

	color.Yellow("\n7. Insight history for sabre-01")
	resp, env, err = sendRequest("GET", "/equipment/sabre-01/insights?limit=3", "", nil)
	env = must("history", resp, env, err)
	var history interface{}
	json.Unmarshal(env.Data, &history)
	prettyPrint(history)

	color.Yellow("\n8. End session")
	resp, env, err = sendRequest("DELETE", "/sessions/me", session.Token, nil)
	must("end session", resp, env, err)

	color.Cyan("\nAll steps passed")
}
