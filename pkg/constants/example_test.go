package constants_test

import (
	"fmt"
	"net/http"

	"github.com/agentstation/nbcheck/pkg/constants"
)

// Example demonstrates the defaults used when nothing is configured.
func Example() {
	fmt.Printf("tag: %s\n", constants.DefaultTag)
	fmt.Printf("input: %s\n", constants.DefaultInputFile)
	fmt.Printf("types: %s\n", constants.DefaultTypeRefFile)
	// Output:
	// tag: border
	// input: dry-ssh.json
	// types: netbox_interface_types.json
}

// Example_timeouts demonstrates timeout constants
func Example_timeouts() {
	client := &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	}
	fmt.Printf("HTTP timeout: %v\n", client.Timeout)
	// Output:
	// HTTP timeout: 30s
}
