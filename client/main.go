package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Small diagnostic client: issues one tool call against a running api
// server and pretty-prints the result.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "api server base address")
	tool := flag.String("tool", "get_available_sources", "tool name to call")
	args := flag.String("args", "{}", "tool arguments as a JSON object")
	flag.Parse()

	if !json.Valid([]byte(*args)) {
		fmt.Fprintln(os.Stderr, "args must be a valid JSON object")
		os.Exit(1)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	target := strings.TrimRight(*addr, "/") + "/tools/" + *tool

	resp, err := client.Post(target, "application/json", bytes.NewReader([]byte(*args)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "call %s: %v\n", *tool, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read response: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
