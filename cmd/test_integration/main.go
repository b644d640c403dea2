package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	// 1. Health check
	fmt.Println("1. Checking Health...")
	if !sendRequest("GET", "/health", nil) {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	// 2. Build a graph from a canned query and rows, no LLM involved.
	fmt.Println("2. Building Graph...")
	query := `SELECT ?birthPlace WHERE { dbr:Douglas_Adams dbo:birthPlace ?birthPlace . }`
	rows := []map[string]map[string]string{
		{
			"birthPlace": {"type": "uri", "value": "http://dbpedia.org/resource/Cambridge"},
		},
	}

	payload := map[string]interface{}{
		"query": query,
		"rows":  rows,
	}

	if !sendRequest("POST", "/build", payload) {
		fmt.Println("FAILED: Build graph")
		os.Exit(1)
	}
	fmt.Println("PASSED: Build graph")

	// 3. Full conversion needs a live LLM; only run when opted in.
	if os.Getenv("RUN_CONVERT") == "" {
		fmt.Println("3. Skipping Convert (set RUN_CONVERT=1 to enable)")
		return
	}
	fmt.Println("3. Converting Question...")
	convertPayload := map[string]string{
		"question": "Where was Douglas Adams born?",
	}

	if !sendRequest("POST", "/convert", convertPayload) {
		fmt.Println("FAILED: Convert question")
		os.Exit(1)
	}
	fmt.Println("PASSED: Convert question")
}

func sendRequest(method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response: %s\n", string(respBody))

	return true
}
