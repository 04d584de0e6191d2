package main

import (
	"fmt"
	"math/rand"
	"strconv"

	"bookstore/internal/ingest"
)

var (
	words = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	authors = []string{
		"Ada Lovelace", "Jane Austen", "Frank Herbert", "Ursula Le Guin", "Chinua Achebe",
		"Haruki Murakami", "Toni Morrison", "Jorge Luis Borges",
	}
)

// generateRows produces n rows shaped like an uploaded file, starting at line 2.
func generateRows(n int, rng *rand.Rand) []ingest.Row {
	rows := make([]ingest.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, ingest.Row{
			Line:          i + 2,
			Title:         fmt.Sprintf("Book Title %d - %s", i+1, words[rng.Intn(len(words))]),
			Author:        authors[rng.Intn(len(authors))],
			Price:         strconv.FormatFloat(float64(100+rng.Intn(9900))/100, 'f', 2, 64),
			PublishedDate: strconv.Itoa(1950 + rng.Intn(75)),
		})
	}
	return rows
}

// splitRows deals rows round-robin into k chunks.
func splitRows(rows []ingest.Row, k int) [][]ingest.Row {
	chunks := make([][]ingest.Row, k)
	for i, row := range rows {
		chunks[i%k] = append(chunks[i%k], row)
	}
	return chunks
}
