// Package benchmark holds HTTP benchmarks against a locally running server.
//
// Start a server, log in, then:
//
//	IMMPRES_BENCH_KEY=<key> IMMPRES_BENCH_TOKEN=<token> IMMPRES_BENCH_ID=<shortId> \
//	  go test -bench=. ./benchmark/...
package benchmark

import (
	"fmt"
	"net/http"
	"os"
	"testing"
)

func benchEnv(b *testing.B) (baseURL, key, token, shortID string) {
	b.Helper()

	baseURL = os.Getenv("IMMPRES_BENCH_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	key = os.Getenv("IMMPRES_BENCH_KEY")
	token = os.Getenv("IMMPRES_BENCH_TOKEN")
	shortID = os.Getenv("IMMPRES_BENCH_ID")
	if key == "" || token == "" || shortID == "" {
		b.Skip("Set IMMPRES_BENCH_KEY, IMMPRES_BENCH_TOKEN and IMMPRES_BENCH_ID to run HTTP benchmarks")
	}
	return baseURL, key, token, shortID
}

func BenchmarkGetImpression(b *testing.B) {
	baseURL, key, token, shortID := benchEnv(b)

	b.Run("GET /api/impressions/{id}", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", fmt.Sprintf("%s/api/impressions/%s", baseURL, shortID), nil)
			r.Header.Add("x-key", key)
			r.Header.Add("x-access-token", token)
			_, _ = http.DefaultClient.Do(r)
		}
	})
}

func BenchmarkListImpressions(b *testing.B) {
	baseURL, key, token, _ := benchEnv(b)

	b.Run("GET /api/impressions?role=owner", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", baseURL+"/api/impressions?role=owner", nil)
			r.Header.Add("x-key", key)
			r.Header.Add("x-access-token", token)
			_, _ = http.DefaultClient.Do(r)
		}
	})
}
