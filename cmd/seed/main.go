package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	baseURL := getenv("BASE_URL", "http://localhost:4000")
	count, err := strconv.Atoi(getenv("SEED_COUNT", "10"))
	if err != nil || count < 1 {
		log.Fatal("SEED_COUNT must be a positive integer")
	}

	// 1. Create a batch of posts.
	var lastID int
	for i := 0; i < count; i++ {
		if id := createPost(baseURL); id > 0 {
			lastID = id
		}
	}

	// 2. List all posts.
	listPosts(baseURL)

	if lastID > 0 {
		// 3. Fetch the most recent post.
		getPost(baseURL, lastID)
		// 4. Update its content.
		updatePost(baseURL, lastID)
		// 5. Delete it again.
		deletePost(baseURL, lastID)
	}
}

func createPost(baseURL string) int {
	payload := map[string]string{
		"title":   gofakeit.Sentence(4),
		"content": gofakeit.Paragraph(1, 3, 12, " "),
	}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(baseURL+"/posts", "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Println("Error in createPost:", err)
		return 0
	}
	defer resp.Body.Close()
	var created struct {
		ID int `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	log.Printf("createPost id=%d status: %s", created.ID, resp.Status)
	return created.ID
}

func listPosts(baseURL string) {
	resp, err := http.Get(baseURL + "/posts")
	if err != nil {
		log.Println("Error in listPosts:", err)
		return
	}
	defer resp.Body.Close()
	log.Println("listPosts status:", resp.Status)
}

func getPost(baseURL string, id int) {
	resp, err := http.Get(fmt.Sprintf("%s/posts/%d", baseURL, id))
	if err != nil {
		log.Println("Error in getPost:", err)
		return
	}
	defer resp.Body.Close()
	log.Println("getPost status:", resp.Status)
}

func updatePost(baseURL string, id int) {
	payload := map[string]string{
		"content": "Updated content " + gofakeit.Sentence(5),
	}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("PUT", fmt.Sprintf("%s/posts/%d", baseURL, id), bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Println("Error in updatePost:", err)
		return
	}
	defer resp.Body.Close()
	log.Println("updatePost status:", resp.Status)
}

func deletePost(baseURL string, id int) {
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("%s/posts/%d", baseURL, id), nil)
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Println("Error in deletePost:", err)
		return
	}
	defer resp.Body.Close()
	log.Println("deletePost status:", resp.Status)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
