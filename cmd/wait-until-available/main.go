package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/healthz -max=120
func main() {
	urlPtr := flag.String("url", "http://localhost:8080/healthz", "the health endpoint to poll")
	maxPtr := flag.Int("max", 0, "give up after this many seconds, 0 waits forever")
	flag.Parse()

	totalWaitTime := 0
	for {
		res, err := http.Get(*urlPtr)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			} else {
				fmt.Println(res.Status)
			}
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		if *maxPtr > 0 && totalWaitTime > *maxPtr {
			panic(fmt.Sprintf("service not available after %d seconds", *maxPtr))
		}
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
