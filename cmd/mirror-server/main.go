package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
)

// mirror-server stands in for the upstream automation workflow during local
// runs: it serves a JSON file as the refresh payload.
func main() {
	addr := flag.String("addr", ":9000", "listen address")
	dataPath := flag.String("data", "data/upstream.json", "JSON file served at GET /services")
	flag.Parse()

	http.HandleFunc("/services", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		b, err := os.ReadFile(*dataPath)
		if err != nil {
			http.Error(w, "cannot read "+*dataPath+": "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate JSON so a bad file surfaces as an upstream failure
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, *dataPath+" invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		log.Printf("[mirror] served %s to %s", *dataPath, r.RemoteAddr)
	})

	log.Printf("[mirror] listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
