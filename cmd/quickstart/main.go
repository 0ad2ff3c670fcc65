package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

const rolodexURL = "http://localhost:8080"

// A small end-to-end walkthrough against a running rolodexd: store two
// contacts and a note, flip a contact's status, then search, ask, and
// list history.
func main() {
	queries := []string{
		"store name=Jo Park; email=jo@x.com; company=Acme",
		"store name=Sam Reyes; email=sam@y.dev; linkedin=in/samreyes",
		"store met both of them at the Go meetup, talked about vector search",
		"emailed jo@x.com successfully",
		"search vector search",
		"who works at Acme?",
		"history",
	}

	for _, query := range queries {
		rsp, err := ask(query)
		if err != nil {
			log.Fatalf("❌ %q failed: %v", query, err)
		}
		fmt.Printf("> %s\n%s\n\n", query, rsp)
	}
}

func ask(query string) (string, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, rolodexURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "quickstart")

	rsp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer rsp.Body.Close()

	bs, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", err
	}

	if rsp.StatusCode >= 300 {
		return "", fmt.Errorf("status: %s body: %s", rsp.Status, string(bs))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bs, "", "  "); err != nil {
		return string(bs), nil
	}

	return pretty.String(), nil
}
