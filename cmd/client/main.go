package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	api "gitlab.com/dirk.krummacker/aim-summit-service/pkg/model"
)

var (
	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running summit site API",
}

// contactCmd submits one contact form.
var contactCmd = &cobra.Command{
	Use:   "contact FIRSTNAME LASTNAME EMAIL MESSAGE",
	Short: "Submit a contact form",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := json.Marshal(api.ContactSubmission{
			FirstName:      args[0],
			LastName:       args[1],
			Email:          args[2],
			Message:        args[3],
			TurnstileToken: token,
		})
		resBody, status, _, err := sendRequest(http.MethodPost, serverURL+"/api/contact", bytes.NewReader(body))
		if err != nil {
			return err
		}
		fmt.Println(status, string(resBody))
		return nil
	},
}

// pocsCmd prints the speaker POCs.
var pocsCmd = &cobra.Command{
	Use:   "pocs",
	Short: "List the speaker points of contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		resBody, status, _, err := sendRequest(http.MethodGet, serverURL+"/api/speaker-pocs", nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("server answered %d: %s", status, resBody)
		}
		var pocs []api.SpeakerPOC
		if err := json.Unmarshal(resBody, &pocs); err != nil {
			return fmt.Errorf("could not unmarshal JSON: %w", err)
		}
		for _, p := range pocs {
			fmt.Printf("%-20s %-30s %s\n", p.ID, p.Name, p.Email)
		}
		return nil
	},
}

// benchCmd measures the average latency of the read endpoints.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure the average latency of the read endpoints in microseconds",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoints := []string{"/api/speaker-pocs", "/api/archive", "/api/presenters", "/api/keynote-nominations"}
		fmt.Println()
		fmt.Print("  Requests")
		for _, e := range endpoints {
			fmt.Printf("%28s", e)
		}
		fmt.Println()
		sizes := []int{10, 50, 100, 500}
		for _, loops := range sizes {
			fmt.Printf("%10d", loops)
			for _, e := range endpoints {
				var duration int64
				for i := 0; i < loops; i++ {
					_, _, d, err := sendRequest(http.MethodGet, serverURL+e, nil)
					if err != nil {
						return err
					}
					duration += d
				}
				fmt.Printf("%28d", duration/int64(loops*1000))
			}
			fmt.Println()
		}
		return nil
	},
}

// Usage example on the command line:
// > go run main.go pocs
// > go run main.go contact Erika Mustermann erika@example.com "Hello" --token XXXX.DUMMY.TOKEN
// > go run main.go bench --server http://localhost:8080
func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the service")
	contactCmd.Flags().StringVar(&token, "token", "", "bot verification token")
	rootCmd.AddCommand(contactCmd, pocsCmd, benchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int, int64, error) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("could not create request: %w", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("could not read response body: %w", err)
	}
	after := time.Now().UnixNano()
	return resBody, res.StatusCode, after - before, nil
}
